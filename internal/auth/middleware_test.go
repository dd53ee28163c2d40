package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireAuth(t *testing.T) {
	store, cleanup := setupStore(t, "TestRequireAuth")
	defer cleanup()

	session, err := store.Authenticate(context.Background(), "admin", "changeme123")
	require.NoError(t, err)

	var seen Identity
	handler := store.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		seen = identity
		w.WriteHeader(http.StatusNoContent)
	}))

	// No token at all
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/config/interfaces", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Garbage token
	w = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/config/interfaces", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Valid token via header
	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/api/config/interfaces", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "admin", seen.Username)

	// Valid token via query parameter (websocket clients)
	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/ws?token="+session.Token, nil)
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
