package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/petropump/attendance-backend/internal/domain/user"
	"github.com/petropump/attendance-backend/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tokenAuth = jwtauth.New("HS256", []byte("middleware-test-secret"), nil)

func serve(t *testing.T, h http.Handler, claims map[string]interface{}) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if claims != nil {
		_, token, err := tokenAuth.Encode(claims)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	jwtauth.Verifier(tokenAuth)(h).ServeHTTP(rec, req)
	return rec.Code
}

var noContent = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

func TestAuthRequired(t *testing.T) {
	h := AuthRequired(tokenAuth)(noContent)

	assert.Equal(t, http.StatusUnauthorized, serve(t, h, nil))
	assert.Equal(t, http.StatusUnauthorized, serve(t, h, map[string]interface{}{"user_id": "u1", "type": jwt.TokenTypeRefresh}))
	assert.Equal(t, http.StatusUnauthorized, serve(t, h, map[string]interface{}{"type": jwt.TokenTypeAccess}))
	assert.Equal(t, http.StatusNoContent, serve(t, h, map[string]interface{}{"user_id": "u1", "type": jwt.TokenTypeAccess}))
}

func TestAdminOnly(t *testing.T) {
	h := AdminOnly(noContent)

	assert.Equal(t, http.StatusForbidden, serve(t, h, map[string]interface{}{"role": "employee"}))
	assert.Equal(t, http.StatusForbidden, serve(t, h, map[string]interface{}{"user_id": "u1"}))
	assert.Equal(t, http.StatusNoContent, serve(t, h, map[string]interface{}{"role": "admin"}))
}

func TestRequirePermission(t *testing.T) {
	mark := RequirePermission(user.PermissionAttendanceMark)(noContent)
	manage := RequirePermission(user.PermissionEmployeeManage)(noContent)

	assert.Equal(t, http.StatusNoContent, serve(t, mark, map[string]interface{}{"role": "employee"}))
	assert.Equal(t, http.StatusForbidden, serve(t, mark, map[string]interface{}{"role": "admin"}))
	assert.Equal(t, http.StatusNoContent, serve(t, manage, map[string]interface{}{"role": "admin"}))
	// unknown roles fall back to employee
	assert.Equal(t, http.StatusForbidden, serve(t, manage, map[string]interface{}{"role": "owner"}))
	assert.Equal(t, http.StatusNoContent, serve(t, mark, map[string]interface{}{"role": "owner"}))
}
