package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedStaffToken(t *testing.T, secret, username string, authorities ...string) string {
	t.Helper()
	claims := StaffClaims{
		UserName:    username,
		AuthSource:  "nomis",
		Authorities: authorities,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(5 * time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func serveStaff(mw func(http.Handler) http.Handler, token string) (*httptest.ResponseRecorder, string) {
	req := httptest.NewRequest(http.MethodGet, "/prisons/HEI/review", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	var username string
	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username = UsernameFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)
	return rec, username
}

func TestStaffUser(t *testing.T) {
	tests := []struct {
		name     string
		secret   string
		token    func(t *testing.T) string
		wantCode int
		wantUser string
	}{
		{
			name:     "auth disabled",
			secret:   "",
			token:    func(t *testing.T) string { return signedStaffToken(t, "secret", "STAFF_USER", RoleManagePrisonVisits) },
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "missing header",
			secret:   "secret",
			token:    func(*testing.T) string { return "" },
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "wrong signature",
			secret:   "secret",
			token:    func(t *testing.T) string { return signedStaffToken(t, "wrong", "STAFF_USER", RoleManagePrisonVisits) },
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "no user name",
			secret:   "secret",
			token:    func(t *testing.T) string { return signedStaffToken(t, "secret", "", RoleManagePrisonVisits) },
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "missing role",
			secret:   "secret",
			token:    func(t *testing.T) string { return signedStaffToken(t, "secret", "STAFF_USER", "ROLE_OTHER") },
			wantCode: http.StatusForbidden,
		},
		{
			name:     "valid",
			secret:   "secret",
			token:    func(t *testing.T) string { return signedStaffToken(t, "secret", "STAFF_USER", RoleManagePrisonVisits) },
			wantCode: http.StatusOK,
			wantUser: "STAFF_USER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, user := serveStaff(StaffUser(tt.secret, RoleManagePrisonVisits), tt.token(t))
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantUser, user)
		})
	}
}

func TestStaffUser_NoRoleRequired(t *testing.T) {
	rec, user := serveStaff(StaffUser("secret", ""), signedStaffToken(t, "secret", "STAFF_USER"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "STAFF_USER", user)
}

func TestStaffClaimsFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := StaffClaimsFromContext(req.Context())
	assert.False(t, ok)
	assert.Empty(t, UsernameFromContext(req.Context()))

	ctx := WithStaffClaims(req.Context(), StaffClaims{UserName: "STAFF_USER"})
	claims, ok := StaffClaimsFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "STAFF_USER", claims.UserName)
}
