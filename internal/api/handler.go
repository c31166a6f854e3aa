package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"farm-shop/internal/catalog"
	"farm-shop/internal/service"
	"farm-shop/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const sessionCookie = "shop_session"
const sessionMaxAge = 365 * 24 * 3600

// Handler contains HTTP handlers
type Handler struct {
	shop *service.ShopService
}

// NewHandler creates a new HTTP handler
func NewHandler(shop *service.ShopService) *Handler {
	return &Handler{shop: shop}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(sessionMiddleware())
	{
		v1.GET("/categories", h.listCategories)
		v1.GET("/catalog", h.browseCatalog)
		v1.GET("/contact", h.getContact)

		v1.GET("/cart", h.getCart)
		v1.PUT("/cart/items/:id", h.setQuantity)
		v1.POST("/cart/items/:id/increment", h.increment)
		v1.POST("/cart/items/:id/decrement", h.decrement)
		v1.DELETE("/cart", h.clearCart)

		v1.GET("/farm-tag", h.getFarmTag)
		v1.PUT("/farm-tag", h.setFarmTag)

		v1.GET("/order/preview", h.previewOrder)
		v1.POST("/order/dispatch", h.dispatchOrder)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

func (h *Handler) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.shop.Categories()})
}

// browseCatalog filters the catalog by category, query and stock flag
func (h *Handler) browseCatalog(c *gin.Context) {
	inStockOnly, _ := strconv.ParseBool(c.DefaultQuery("in_stock", "false"))

	items := h.shop.Browse(catalog.Filter{
		Category:    c.Query("category"),
		Query:       c.Query("q"),
		InStockOnly: inStockOnly,
	})

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) getContact(c *gin.Context) {
	c.JSON(http.StatusOK, h.shop.Contact())
}

func (h *Handler) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.shop.Summary(c.Request.Context(), session(c)))
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// setQuantity sets an item's quantity. 0 removes the item; quantities below
// the minimum clamp up to it.
func (h *Handler) setQuantity(c *gin.Context) {
	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if *req.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must not be negative"})
		return
	}

	_, err := h.shop.SetQuantity(c.Request.Context(), session(c), c.Param("id"), *req.Quantity)
	if h.cartError(c, err) {
		return
	}
	c.JSON(http.StatusOK, h.shop.Summary(c.Request.Context(), session(c)))
}

func (h *Handler) increment(c *gin.Context) {
	_, err := h.shop.Increment(c.Request.Context(), session(c), c.Param("id"))
	if h.cartError(c, err) {
		return
	}
	c.JSON(http.StatusOK, h.shop.Summary(c.Request.Context(), session(c)))
}

func (h *Handler) decrement(c *gin.Context) {
	_, err := h.shop.Decrement(c.Request.Context(), session(c), c.Param("id"))
	if h.cartError(c, err) {
		return
	}
	c.JSON(http.StatusOK, h.shop.Summary(c.Request.Context(), session(c)))
}

func (h *Handler) clearCart(c *gin.Context) {
	h.shop.ClearCart(c.Request.Context(), session(c))
	c.JSON(http.StatusOK, h.shop.Summary(c.Request.Context(), session(c)))
}

func (h *Handler) getFarmTag(c *gin.Context) {
	tag, valid := h.shop.FarmTag(c.Request.Context(), session(c))
	c.JSON(http.StatusOK, gin.H{"farm_tag": tag, "valid": valid})
}

type setFarmTagRequest struct {
	FarmTag string `json:"farm_tag"`
}

func (h *Handler) setFarmTag(c *gin.Context) {
	var req setFarmTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	valid := h.shop.SetFarmTag(c.Request.Context(), session(c), req.FarmTag)
	c.JSON(http.StatusOK, gin.H{"farm_tag": req.FarmTag, "valid": valid})
}

func (h *Handler) previewOrder(c *gin.Context) {
	sum := h.shop.Summary(c.Request.Context(), session(c))
	c.JSON(http.StatusOK, gin.H{
		"text":           sum.Text,
		"total":          sum.Total,
		"total_display":  sum.TotalDisplay,
		"kinds":          sum.Kinds,
		"farm_tag_valid": sum.FarmTagValid,
	})
}

// dispatchOrder composes and dispatches the order. The text always comes
// back so the buyer can copy manually when the sink fails.
func (h *Handler) dispatchOrder(c *gin.Context) {
	sum, err := h.shop.DispatchOrder(c.Request.Context(), session(c))
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"text":    sum.Text,
			"sent":    false,
			"message": "คัดลอกไม่สำเร็จ: อุปกรณ์บางรุ่นบล็อก — คัดลอกจากกล่องข้อความแทนได้",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"text":    sum.Text,
		"sent":    true,
		"message": "คัดลอกรายการแล้ว! ไปวางใน LINE ได้เลย",
	})
}

func (h *Handler) cartError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, service.ErrUnknownItem) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return true
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	return true
}

func session(c *gin.Context) string {
	return c.GetString("session")
}

// sessionMiddleware scopes cart and tag state to a device via cookie
func sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(sessionCookie)
		if err != nil || sid == "" {
			sid = uuid.New().String()
			c.SetCookie(sessionCookie, sid, sessionMaxAge, "/", "", false, true)
		}
		c.Set("session", sid)
		c.Next()
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
