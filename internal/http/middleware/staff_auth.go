package middleware

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const staffClaimsKey contextKey = "staffClaims"

// RoleManagePrisonVisits is the authority staff need to use the service.
const RoleManagePrisonVisits = "ROLE_MANAGE_PRISON_VISITS"

// StaffClaims are the claims carried by an HMPPS Auth user token.
type StaffClaims struct {
	UserName    string   `json:"user_name"`
	AuthSource  string   `json:"auth_source,omitempty"`
	Authorities []string `json:"authorities,omitempty"`
	jwt.RegisteredClaims
}

// HasAuthority reports whether the token grants role.
func (c StaffClaims) HasAuthority(role string) bool {
	return slices.Contains(c.Authorities, role)
}

// StaffUser requires an HMAC-signed user token carrying a user_name and, when
// requiredRole is set, that authority.
func StaffUser(secret, requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				writeAuthError(w, http.StatusUnauthorized, "user auth disabled")
				return
			}
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				writeAuthError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}
			var claims StaffClaims
			token, err := jwt.ParseWithClaims(strings.TrimPrefix(auth, "Bearer "), &claims, func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid || claims.UserName == "" {
				writeAuthError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			if requiredRole != "" && !claims.HasAuthority(requiredRole) {
				writeAuthError(w, http.StatusForbidden, "missing required role")
				return
			}
			recordRequestUser(r.Context(), claims.UserName)
			ctx := context.WithValue(r.Context(), staffClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StaffClaimsFromContext returns the staff user's claims if present.
func StaffClaimsFromContext(ctx context.Context) (StaffClaims, bool) {
	claims, ok := ctx.Value(staffClaimsKey).(StaffClaims)
	return claims, ok
}

// UsernameFromContext returns the staff username, or "".
func UsernameFromContext(ctx context.Context) string {
	claims, _ := StaffClaimsFromContext(ctx)
	return claims.UserName
}

// WithStaffClaims attaches claims to ctx.
func WithStaffClaims(ctx context.Context, claims StaffClaims) context.Context {
	return context.WithValue(ctx, staffClaimsKey, claims)
}

func writeAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}
