package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videotube/videotube-api/internal/models"
	"github.com/videotube/videotube-api/pkg/logger"
)

const (
	testSecret = "test-secret"
	testIssuer = "videotube-identity"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Nop()
}

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims ViewerClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims(subject string) ViewerClaims {
	return ViewerClaims{
		Username: "viewer",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    testIssuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func newRouter(auth gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/me", auth, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"viewer": ViewerID(c)})
	})
	return r
}

func TestJWTAuth_Validate(t *testing.T) {
	t.Parallel()

	auth := NewJWTAuth(testSecret, testIssuer)
	subject := uuid.NewString()

	expired := validClaims(subject)
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	otherIssuer := validClaims(subject)
	otherIssuer.Issuer = "someone-else"

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{"valid token", signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims(subject)), false},
		{"wrong secret", signToken(t, jwt.SigningMethodHS256, []byte("other"), validClaims(subject)), true},
		{"expired", signToken(t, jwt.SigningMethodHS256, []byte(testSecret), expired), true},
		{"wrong issuer", signToken(t, jwt.SigningMethodHS256, []byte(testSecret), otherIssuer), true},
		{"missing subject", signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims("")), true},
		{"HS512 rejected", signToken(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims(subject)), true},
		{"garbage", "not.a.token", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := auth.Validate(tt.token)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, subject, got)
		})
	}
}

func TestJWTAuth_Required(t *testing.T) {
	t.Parallel()

	auth := NewJWTAuth(testSecret, testIssuer)
	subject := uuid.NewString()
	token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims(subject))

	t.Run("bearer header", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		newRouter(auth.Required()).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"viewer":"`+subject+`"}`, rec.Body.String())
	})

	t.Run("cookie", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
		rec := httptest.NewRecorder()
		newRouter(auth.Required()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		newRouter(auth.Required()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

		require.Equal(t, http.StatusUnauthorized, rec.Code)

		var resp models.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Unauthorized", resp.Message)
		assert.NotEmpty(t, resp.Errors)
	})
}

func TestJWTAuth_Optional(t *testing.T) {
	t.Parallel()

	auth := NewJWTAuth(testSecret, testIssuer)

	t.Run("anonymous passes through", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		newRouter(auth.Optional()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"viewer":""}`, rec.Body.String())
	})

	t.Run("invalid token rejected", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer junk")
		rec := httptest.NewRecorder()
		newRouter(auth.Optional()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestNewJWTAuth_EmptyIssuerAcceptsAny(t *testing.T) {
	t.Parallel()

	auth := NewJWTAuth(testSecret, "")
	claims := validClaims("user-1")
	claims.Issuer = "anything"

	got, err := auth.Validate(signToken(t, jwt.SigningMethodHS256, []byte(testSecret), claims))
	require.NoError(t, err)
	assert.Equal(t, "user-1", got)
}
