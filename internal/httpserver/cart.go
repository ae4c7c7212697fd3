package httpserver

import (
	"errors"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"zizi-storefront/internal/domain"
	"zizi-storefront/internal/service/cart"
	"zizi-storefront/internal/storefront"
)

type cartItemRequest struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func getCartHandler(c *gin.Context) {
	c.JSON(http.StatusOK, storefront.Summarize(appFrom(c).Cart.Items()))
}

func clearCartHandler(c *gin.Context) {
	app := appFrom(c)
	app.Cart.Clear(c.Request.Context())
	c.JSON(http.StatusOK, storefront.Summarize(app.Cart.Items()))
}

func addCartItemHandler(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	req.ID = strings.TrimSpace(req.ID)
	req.Name = strings.TrimSpace(req.Name)
	if req.ID == "" || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id and name required"})
		return
	}
	if math.IsNaN(req.Price) || math.IsInf(req.Price, 0) || req.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must be positive"})
		return
	}
	if req.Quantity > cart.MaxQuantity {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity too large"})
		return
	}

	app := appFrom(c)
	app.Cart.AddItem(c.Request.Context(), domain.CartItem{
		ID:       req.ID,
		Name:     req.Name,
		Price:    req.Price,
		Image:    req.Image,
		Quantity: req.Quantity,
	})
	c.JSON(http.StatusOK, storefront.Summarize(app.Cart.Items()))
}

// updateCartItemHandler sets a line's quantity. Quantities below 1 are
// ignored and the unchanged cart is returned.
func updateCartItemHandler(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if req.Quantity > cart.MaxQuantity {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity too large"})
		return
	}
	app := appFrom(c)
	app.Cart.UpdateQuantity(c.Request.Context(), c.Param("id"), req.Quantity)
	c.JSON(http.StatusOK, storefront.Summarize(app.Cart.Items()))
}

func removeCartItemHandler(c *gin.Context) {
	app := appFrom(c)
	app.Cart.RemoveItem(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, storefront.Summarize(app.Cart.Items()))
}

// addProductHandler is the product page's add-to-cart button.
func addProductHandler(c *gin.Context) {
	app := appFrom(c)
	if _, err := app.AddProduct(c.Request.Context(), c.Param("slug")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add product"})
		return
	}
	respondPage(c, app)
}
