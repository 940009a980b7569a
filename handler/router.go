package handler

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const correlationKey = "correlation_id"

// NewRouter exposes the same endpoints as Handle over a long-running gin server.
func NewRouter(h *Handler, allowedOrigins []string) *gin.Engine {
	r := gin.New()

	r.Use(correlationMiddleware(), slogMiddleware(h.logger), gin.Recovery(), cors.New(corsConfig(allowedOrigins)))

	r.GET("/health", func(c *gin.Context) {
		status, payload := h.health()
		c.JSON(status, payload)
	})
	r.POST("/chat", h.ginChat)

	p := r.Group("/portfolio")
	p.GET("", h.ginPortfolioPage)
	p.POST("/messages", h.ginPortfolioMessage)
	p.GET("/items", h.ginPortfolioList)
	p.POST("/items", h.ginPortfolioAdd)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorResponse{Error: msgNotFound})
	})
	return r
}

func (h *Handler) ginChat(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: msgGenerationFailed, Details: err.Error()})
		return
	}
	status, payload := h.chatTurn(c.Request.Context(), c.GetString(correlationKey), body)
	c.JSON(status, payload)
}

func (h *Handler) ginPortfolioMessage(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgInvalidRequest, Details: err.Error()})
		return
	}
	status, payload := h.portfolioMessage(body)
	c.JSON(status, payload)
}

func (h *Handler) ginPortfolioAdd(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgInvalidRequest, Details: err.Error()})
		return
	}
	status, payload := h.portfolioAdd(c.Request.Context(), c.GetString(correlationKey), body)
	c.JSON(status, payload)
}

func (h *Handler) ginPortfolioList(c *gin.Context) {
	status, payload := h.portfolioList(c.Request.Context())
	c.JSON(status, payload)
}

func (h *Handler) ginPortfolioPage(c *gin.Context) {
	status, page, payload := h.portfolioPage(c.Request.Context())
	if page == nil {
		c.JSON(status, payload)
		return
	}
	c.Data(status, "text/html; charset=utf-8", page)
}

// correlationMiddleware reuses the caller's X-Correlation-Id or assigns one.
func correlationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(correlationHeader))
		if id == "" {
			id = newCorrelationID()
		}
		c.Set(correlationKey, id)
		c.Header(correlationHeader, id)
		c.Next()
	}
}

func slogMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.InfoContext(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			correlationKey, c.GetString(correlationKey),
		)
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", correlationHeader},
		ExposeHeaders: []string{correlationHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
