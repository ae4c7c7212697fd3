package httpserver

import (
	"context"
	"errors"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zizi-storefront/internal/domain"
	"zizi-storefront/internal/payment"
	"zizi-storefront/internal/storefront"
)

type productService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, slug string) (*domain.Product, error)
}

type checkoutService interface {
	CreateSession(ctx context.Context, items []domain.CartItem, origin string) (*payment.Session, error)
}

type appRegistry interface {
	Get(ctx context.Context, visitorID, initialPath string) *storefront.App
}

// Deps are the services the router exposes.
type Deps struct {
	ProductSvc     productService
	CheckoutSvc    checkoutService
	Apps           appRegistry
	Visitors       *VisitorTokens
	AllowedOrigins []string
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db Pinger, deps Deps) (*gin.Engine, error) {
	if deps.ProductSvc == nil || deps.CheckoutSvc == nil || deps.Apps == nil || deps.Visitors == nil {
		return nil, errors.New("httpserver: missing dependencies")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery())
	if len(deps.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Cache-Control"},
			ExposeHeaders:    []string{"Content-Type", "Cache-Control", "Connection"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")
	api.GET("/products", listProductsHandler(deps.ProductSvc))
	api.GET("/products/:slug", getProductHandler(deps.ProductSvc))
	api.POST("/checkout/session", createSessionHandler(deps.CheckoutSvc, logger))

	visitor := api.Group("", visitorMiddleware(deps.Visitors, deps.Apps, logger))
	{
		visitor.GET("/cart", getCartHandler)
		visitor.DELETE("/cart", clearCartHandler)
		visitor.POST("/cart/items", addCartItemHandler)
		visitor.PATCH("/cart/items/:id", updateCartItemHandler)
		visitor.DELETE("/cart/items/:id", removeCartItemHandler)
		visitor.POST("/cart/products/:slug", addProductHandler)

		visitor.POST("/checkout/pay", payHandler)
		visitor.POST("/checkout/complete", completeHandler)

		visitor.POST("/auth/login", loginHandler)
		visitor.POST("/auth/signup", signupHandler)
		visitor.POST("/auth/guest", guestHandler)
		visitor.POST("/auth/logout", logoutHandler)
		visitor.GET("/auth/session", sessionHandler)

		visitor.GET("/view", pageHandler)
		visitor.POST("/view/navigate", navigateHandler)
		visitor.POST("/view/product", navigateProductHandler)
		visitor.POST("/view/location", locationHandler)
		visitor.POST("/view/back", backHandler)
		visitor.POST("/view/forward", forwardHandler)
		visitor.POST("/view/scroll", scrollHandler)
		visitor.POST("/view/viewport", viewportHandler)
		visitor.POST("/view/section", sectionHandler)

		visitor.GET("/events", eventsHandler(logger))
	}

	return router, nil
}
