package middleware

import (
	"context"
	"net/http"

	"hospital-crm/internal/domain/entity"
	"hospital-crm/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// RequireRole creates a middleware that checks if the user has any of the required roles
// Role is read from context (set by AuthMiddleware from JWT claims)
func RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetRoleFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			allowed := false
			for _, allowedRole := range allowedRoles {
				if role == allowedRole {
					allowed = true
					break
				}
			}

			if !allowed {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireSuperAdmin is a convenience middleware for platform-wide endpoints
func RequireSuperAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.RoleSuperAdmin)(next)
}

// RequireHospitalAdmin lets hospital admins and super admins through
func RequireHospitalAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.RoleSuperAdmin, entity.RoleHospitalAdmin)(next)
}

// RequireStaff lets anyone working at a hospital through
func RequireStaff(next http.Handler) http.Handler {
	return RequireRole(entity.RoleSuperAdmin, entity.RoleHospitalAdmin, entity.RoleDoctor, entity.RoleNurse)(next)
}

// CanAccessHospital reports whether the caller may act on data of hospitalID.
// Super admins span every hospital; everyone else is bound to their own.
func CanAccessHospital(ctx context.Context, hospitalID uuid.UUID) bool {
	if role, ok := GetRoleFromContext(ctx); ok && role == entity.RoleSuperAdmin {
		return true
	}
	callerHospital, ok := GetHospitalIDFromContext(ctx)
	return ok && callerHospital == hospitalID
}

// RequireHospitalAccess guards routes carrying a {hospitalId} path variable.
func RequireHospitalAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hospitalID, err := uuid.Parse(mux.Vars(r)["hospitalId"])
		if err != nil {
			response.BadRequest(w, "Invalid hospital ID")
			return
		}

		if !CanAccessHospital(r.Context(), hospitalID) {
			response.Forbidden(w, "You don't have access to this hospital")
			return
		}

		next.ServeHTTP(w, r)
	})
}
