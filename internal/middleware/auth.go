// Package middleware provides gin middleware for viewer authentication,
// request logging and metrics.
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/videotube/videotube-api/internal/models"
	"github.com/videotube/videotube-api/pkg/logger"
)

const (
	headerAuth        = "Authorization"
	bearerPrefix      = "Bearer "
	accessTokenCookie = "accessToken"
	viewerKey         = "viewerID"
	unauthorizedError = "Unauthorized"
)

var errMissingToken = errors.New("missing access token")

// ViewerClaims are the claims carried by access tokens. The viewer id is the
// registered subject.
type ViewerClaims struct {
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// JWTAuth verifies HS256 access tokens issued by the identity service and
// stores the viewer id on the gin context.
type JWTAuth struct {
	secret []byte
	issuer string
}

// NewJWTAuth creates a new JWTAuth. An empty issuer accepts any issuer.
func NewJWTAuth(secret, issuer string) *JWTAuth {
	return &JWTAuth{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// Required rejects requests without a valid access token.
func (a *JWTAuth) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		viewerID, err := a.authenticate(c)
		if err != nil {
			a.reject(c, err)
			return
		}
		c.Set(viewerKey, viewerID)
		c.Next()
	}
}

// Optional lets anonymous requests through. A token that is present but
// invalid is still rejected.
func (a *JWTAuth) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		viewerID, err := a.authenticate(c)
		switch {
		case errors.Is(err, errMissingToken):
		case err != nil:
			a.reject(c, err)
			return
		default:
			c.Set(viewerKey, viewerID)
		}
		c.Next()
	}
}

// ViewerID returns the authenticated viewer id, or "" for anonymous requests.
func ViewerID(c *gin.Context) string {
	return c.GetString(viewerKey)
}

// Validate verifies the token and returns its subject.
func (a *JWTAuth) Validate(tokenString string) (string, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &ViewerClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	}, opts...)
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*ViewerClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid token claims")
	}
	return claims.Subject, nil
}

func (a *JWTAuth) authenticate(c *gin.Context) (string, error) {
	token := extractToken(c)
	if token == "" {
		return "", errMissingToken
	}
	return a.Validate(token)
}

// extractToken reads the Authorization bearer header first, then the
// access token cookie.
func extractToken(c *gin.Context) string {
	if header := c.GetHeader(headerAuth); strings.HasPrefix(header, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	}
	if cookie, err := c.Cookie(accessTokenCookie); err == nil {
		return cookie
	}
	return ""
}

func (a *JWTAuth) reject(c *gin.Context, err error) {
	logger.Log.Warn("Unauthorized request",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.String("remoteAddr", c.ClientIP()),
	)
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		models.NewErrorResponse(http.StatusUnauthorized, unauthorizedError, err.Error()))
}
