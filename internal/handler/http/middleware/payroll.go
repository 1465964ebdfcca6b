package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// PayrollAccess requires a payroll-capable role or the is_admin claim.
func PayrollAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		if admin, ok := claims["is_admin"].(bool); ok && admin {
			next.ServeHTTP(w, r)
			return
		}

		roleStr, ok := claims["role"].(string)
		if !ok || !auth.Role(roleStr).CanRunPayroll() {
			response.HandleError(w, auth.ErrPayrollAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
