package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/librisys/librisys/pkg/auth"
	md "github.com/librisys/librisys/pkg/middleware"
)

var testJWTKey = []byte("test-secret")

func signToken(t *testing.T, userID int, role auth.Role, ttl time.Duration) string {
	t.Helper()
	claims := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	claims.Profile.UserID = userID
	claims.Profile.Role = role

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testJWTKey)
	require.NoError(t, err)
	return token
}

func TestJwtAuthentication(t *testing.T) {
	t.Parallel()

	echoHandler := func(c echo.Context) error {
		userID, err := auth.GetUserID(c.Request().Context())
		if err != nil {
			return err
		}
		role, err := auth.GetRole(c.Request().Context())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, echo.Map{"id": userID, "role": role})
	}

	var tests = []struct {
		name          string
		authorization string
		expectedCode  int
	}{
		{
			name:          "ok",
			authorization: "Bearer " + signToken(t, 7, auth.RoleStudent, time.Hour),
			expectedCode:  http.StatusOK,
		},
		{
			name: "err. signed with another key",
			authorization: "Bearer " + func() string {
				claims := auth.Claims{
					RegisteredClaims: jwt.RegisteredClaims{
						ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
					},
				}
				claims.Profile.UserID = 7
				claims.Profile.Role = auth.RoleStudent
				token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
				require.NoError(t, err)
				return token
			}(),
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:          "err. no header",
			authorization: "",
			expectedCode:  http.StatusUnauthorized,
		},
		{
			name:          "err. not bearer",
			authorization: "Basic dXNlcjpwYXNz",
			expectedCode:  http.StatusUnauthorized,
		},
		{
			name:          "err. garbage token",
			authorization: "Bearer not.a.token",
			expectedCode:  http.StatusUnauthorized,
		},
		{
			name:          "err. expired token",
			authorization: "Bearer " + signToken(t, 7, auth.RoleStudent, -time.Hour),
			expectedCode:  http.StatusUnauthorized,
		},
		{
			name:          "err. unknown role",
			authorization: "Bearer " + signToken(t, 7, auth.Role("ghost"), time.Hour),
			expectedCode:  http.StatusUnauthorized,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := echo.New()
			e.GET("/profile", echoHandler, md.JwtAuthentication(testJWTKey))

			r := httptest.NewRequest(http.MethodGet, "/profile", nil)
			if tt.authorization != "" {
				r.Header.Set(md.AuthorizationHeader, tt.authorization)
			}
			w := httptest.NewRecorder()

			e.ServeHTTP(w, r)
			require.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestLibrarianOnly(t *testing.T) {
	t.Parallel()

	echoHandler := func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	}

	var tests = []struct {
		name         string
		role         auth.Role
		expectedCode int
	}{
		{name: "librarian allowed", role: auth.RoleLibrarian, expectedCode: http.StatusOK},
		{name: "admin allowed", role: auth.RoleAdmin, expectedCode: http.StatusOK},
		{name: "student forbidden", role: auth.RoleStudent, expectedCode: http.StatusForbidden},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := echo.New()
			e.DELETE("/books/1", echoHandler, md.JwtAuthentication(testJWTKey), md.LibrarianOnly)

			r := httptest.NewRequest(http.MethodDelete, "/books/1", nil)
			r.Header.Set(md.AuthorizationHeader, "Bearer "+signToken(t, 1, tt.role, time.Hour))
			w := httptest.NewRecorder()

			e.ServeHTTP(w, r)
			require.Equal(t, tt.expectedCode, w.Code)
		})
	}

	t.Run("no auth context", func(t *testing.T) {
		t.Parallel()
		e := echo.New()
		e.DELETE("/books/1", echoHandler, md.LibrarianOnly)

		r := httptest.NewRequest(http.MethodDelete, "/books/1", nil)
		w := httptest.NewRecorder()

		e.ServeHTTP(w, r)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
