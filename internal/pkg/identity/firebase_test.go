package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/petropump/attendance-backend/internal/domain/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSignInServer(t *testing.T, handler http.HandlerFunc) *FirebaseProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &FirebaseProvider{apiKey: "web-key", endpoint: srv.URL, httpClient: srv.Client()}
}

func TestFirebaseProvider_SignIn(t *testing.T) {
	p := newSignInServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "web-key", r.URL.Query().Get("key"))

		var body signInRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ravi@example.com", body.Email)
		assert.True(t, body.ReturnSecureToken)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"localId":"uid-123","idToken":"t"}`))
	})

	id, err := p.SignIn(context.Background(), "ravi@example.com", "secret1")

	require.NoError(t, err)
	assert.Equal(t, "uid-123", id)
}

func TestFirebaseProvider_SignInRejected(t *testing.T) {
	for _, message := range []string{"INVALID_PASSWORD", "EMAIL_NOT_FOUND", "INVALID_LOGIN_CREDENTIALS"} {
		t.Run(message, func(t *testing.T) {
			p := newSignInServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":{"code":400,"message":"` + message + `"}}`))
			})

			_, err := p.SignIn(context.Background(), "ravi@example.com", "bad")

			assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		})
	}
}

func TestFirebaseProvider_SignInUpstreamFailure(t *testing.T) {
	p := newSignInServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"TOO_MANY_ATTEMPTS_TRY_LATER : Access disabled"}}`))
	})

	_, err := p.SignIn(context.Background(), "ravi@example.com", "bad")

	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
	assert.Contains(t, err.Error(), "TOO_MANY_ATTEMPTS")
}
