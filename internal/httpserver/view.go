package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"zizi-storefront/internal/service/navigation"
	"zizi-storefront/internal/storefront"
)

type navigateRequest struct {
	View string `json:"view"`
}

type productRequest struct {
	Slug string `json:"slug"`
}

type locationRequest struct {
	Path string `json:"path"`
}

type scrollRequest struct {
	Offset float64 `json:"offset"`
}

type viewportRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type sectionRequest struct {
	Section string `json:"section"`
}

func pageHandler(c *gin.Context) {
	respondPage(c, appFrom(c))
}

// navigateHandler moves to a named view. Unknown names go home.
func navigateHandler(c *gin.Context) {
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	view, ok := navigation.ParseView(req.View)
	if !ok {
		view = navigation.Home
	}
	app := appFrom(c)
	app.Nav.NavigateTo(view)
	respondPage(c, app)
}

func navigateProductHandler(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Slug) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slug required"})
		return
	}
	app := appFrom(c)
	app.Nav.NavigateToProduct(strings.TrimSpace(req.Slug))
	respondPage(c, app)
}

// locationHandler reports an address typed or restored outside the app.
func locationHandler(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	app := appFrom(c)
	app.History.Push(req.Path)
	app.Nav.HandleLocationChange(req.Path)
	respondPage(c, app)
}

func backHandler(c *gin.Context) {
	app := appFrom(c)
	app.History.Back()
	respondPage(c, app)
}

func forwardHandler(c *gin.Context) {
	app := appFrom(c)
	app.History.Forward()
	respondPage(c, app)
}

func scrollHandler(c *gin.Context) {
	var req scrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	app := appFrom(c)
	app.Nav.UpdateScroll(req.Offset)
	c.JSON(http.StatusOK, app.Nav.State())
}

func viewportHandler(c *gin.Context) {
	var req viewportRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Width <= 0 || req.Height <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "width and height must be positive"})
		return
	}
	app := appFrom(c)
	app.Nav.SetViewport(req.Width, req.Height)
	c.JSON(http.StatusOK, app.Nav.State())
}

func sectionHandler(c *gin.Context) {
	var req sectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	app := appFrom(c)
	app.Nav.ObserveSection(req.Section)
	c.JSON(http.StatusOK, app.Nav.State())
}

func respondPage(c *gin.Context, app *storefront.App) {
	page, err := app.Page(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load page"})
		return
	}
	c.JSON(http.StatusOK, page)
}
