package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zizi-storefront/internal/domain"
	"zizi-storefront/internal/service/checkout"
	"zizi-storefront/internal/service/navigation"
)

type checkoutSessionRequest struct {
	Items []cartItemRequest `json:"items"`
}

// createSessionHandler prices the posted items without touching any
// visitor state.
func createSessionHandler(svc checkoutService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkoutSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		items := make([]domain.CartItem, 0, len(req.Items))
		for _, it := range req.Items {
			items = append(items, domain.CartItem{ID: it.ID, Name: it.Name, Price: it.Price, Image: it.Image, Quantity: it.Quantity})
		}

		session, err := svc.CreateSession(c.Request.Context(), items, c.GetHeader("Origin"))
		if err != nil {
			status, body := checkoutError(err)
			if status >= http.StatusInternalServerError {
				logger.Error("checkout session failed", zap.Error(err))
			}
			c.JSON(status, body)
			return
		}
		c.JSON(http.StatusOK, session)
	}
}

func payHandler(c *gin.Context) {
	app := appFrom(c)
	url, err := app.Checkout.Pay(c.Request.Context())
	if err != nil {
		status, body := checkoutError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// completeHandler is hit when the processor sends the buyer back; the
// thank-you page empties the cart.
func completeHandler(c *gin.Context) {
	app := appFrom(c)
	app.Nav.NavigateTo(navigation.ThankYou)
	respondPage(c, app)
}

func checkoutError(err error) (int, gin.H) {
	var cerr *checkout.Error
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		return http.StatusBadRequest, gin.H{"error": "No items in cart"}
	case errors.Is(err, checkout.ErrInvalidItem):
		return http.StatusBadRequest, gin.H{"error": "Invalid cart item"}
	case errors.Is(err, checkout.ErrInProgress):
		return http.StatusConflict, gin.H{"error": "Checkout already in progress"}
	case errors.As(err, &cerr):
		body := gin.H{"error": cerr.Message}
		if cerr.Details != "" {
			body["details"] = cerr.Details
		}
		return http.StatusInternalServerError, body
	default:
		return http.StatusInternalServerError, gin.H{"error": checkout.GenericFailure}
	}
}
