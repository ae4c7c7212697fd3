package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"zizi-storefront/internal/storefront"
)

// VisitorCookie carries the signed visitor id.
const VisitorCookie = "zizi_visitor"

const appCtxKey = "storefront.app"

var errInvalidVisitor = errors.New("invalid visitor token")

// VisitorTokens issues and verifies the HS256 tokens identifying a visitor.
type VisitorTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewVisitorTokens(secret string, ttl time.Duration) *VisitorTokens {
	if ttl <= 0 {
		ttl = 365 * 24 * time.Hour
	}
	return &VisitorTokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue creates a new visitor id and its token.
func (v *VisitorTokens) Issue() (string, string, error) {
	id := uuid.NewString()
	now := v.now().UTC()
	claims := jwt.MapClaims{
		"sub": id,
		"iat": now.Unix(),
		"exp": now.Add(v.ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", "", fmt.Errorf("sign visitor token: %w", err)
	}
	return id, token, nil
}

// Parse verifies token and returns the visitor id.
func (v *VisitorTokens) Parse(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidVisitor
		}
		return v.secret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return "", errInvalidVisitor
	}
	sub, _ := claims["sub"].(string)
	if _, err := uuid.Parse(sub); err != nil {
		return "", errInvalidVisitor
	}
	return sub, nil
}

// visitorMiddleware resolves the visitor's app from the cookie, issuing a
// fresh visitor when the cookie is missing or invalid. A new app opens at
// the "location" query parameter.
func visitorMiddleware(tokens *VisitorTokens, apps appRegistry, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var visitorID string
		if raw, err := c.Cookie(VisitorCookie); err == nil && raw != "" {
			id, err := tokens.Parse(raw)
			if err != nil {
				logger.Debug("visitor token rejected", zap.Error(err))
			} else {
				visitorID = id
			}
		}
		if visitorID == "" {
			id, token, err := tokens.Issue()
			if err != nil {
				logger.Error("issue visitor token", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
				return
			}
			visitorID = id
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(VisitorCookie, token, int(tokens.ttl.Seconds()), "/", "", c.Request.TLS != nil, true)
		}

		location := c.Query("location")
		if location == "" {
			location = "/"
		}
		c.Set(appCtxKey, apps.Get(c.Request.Context(), visitorID, location))
		c.Next()
	}
}

func appFrom(c *gin.Context) *storefront.App {
	return c.MustGet(appCtxKey).(*storefront.App)
}
