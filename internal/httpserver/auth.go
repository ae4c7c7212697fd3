package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"zizi-storefront/internal/domain"
	"zizi-storefront/internal/service/auth"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Session         *domain.UserSession `json:"session"`
	IsAuthenticated bool                `json:"isAuthenticated"`
}

func loginHandler(c *gin.Context) {
	credentialsHandler(c, func(ctx context.Context, svc *auth.Service, email, password string) error {
		_, err := svc.Login(ctx, email, password)
		return err
	})
}

func signupHandler(c *gin.Context) {
	credentialsHandler(c, func(ctx context.Context, svc *auth.Service, email, password string) error {
		_, err := svc.Signup(ctx, email, password)
		return err
	})
}

func credentialsHandler(c *gin.Context, fn func(ctx context.Context, svc *auth.Service, email, password string) error) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	app := appFrom(c)
	if err := fn(c.Request.Context(), app.Auth, req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			c.JSON(http.StatusRequestTimeout, gin.H{"error": "request cancelled"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}
	respondSession(c, app.Auth)
}

func guestHandler(c *gin.Context) {
	app := appFrom(c)
	if _, err := app.Auth.GuestLogin(c.Request.Context()); err != nil {
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "request cancelled"})
		return
	}
	respondSession(c, app.Auth)
}

// logoutHandler ends the session and leaves the cart as it is.
func logoutHandler(c *gin.Context) {
	app := appFrom(c)
	app.Auth.Logout(c.Request.Context())
	respondSession(c, app.Auth)
}

func sessionHandler(c *gin.Context) {
	respondSession(c, appFrom(c).Auth)
}

func respondSession(c *gin.Context, svc *auth.Service) {
	c.JSON(http.StatusOK, sessionResponse{Session: svc.Current(), IsAuthenticated: svc.IsAuthenticated()})
}
