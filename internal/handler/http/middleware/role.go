package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/petropump/attendance-backend/internal/domain/user"
	"github.com/petropump/attendance-backend/internal/handler/http/response"
)

// RequirePermission lets the request through when the role claim grants permission.
// A missing or unknown role is treated as an employee.
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, _ := jwtauth.FromContext(r.Context())
			roleStr, _ := claims["role"].(string)
			role := user.ParseRole(roleStr)

			if !user.HasPermission(role, permission) {
				slog.Warn("permission denied", "permission", permission, "role", role, "path", r.URL.Path)
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", permission, role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
