package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID(t *testing.T) {
	newRouter := func() *gin.Engine {
		router := gin.New()
		router.Use(requestID())
		router.GET("/test", func(c *gin.Context) {
			c.String(http.StatusOK, c.GetString(requestIDKey))
		})
		return router
	}

	t.Run("generates new request ID when not provided", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Body.String())
		assert.Equal(t, w.Body.String(), w.Header().Get(requestIDHeader))
	})

	t.Run("uses provided request ID", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(requestIDHeader, "custom-request-id-123")
		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, "custom-request-id-123", w.Body.String())
		assert.Equal(t, "custom-request-id-123", w.Header().Get(requestIDHeader))
	})
}

func TestRequestLogger(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	for _, status := range []int{http.StatusOK, http.StatusBadRequest, http.StatusInternalServerError} {
		router := gin.New()
		router.Use(requestID())
		router.Use(requestLogger(logger))
		router.GET("/test", func(c *gin.Context) {
			c.String(status, "x")
		})

		req, _ := http.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, status, w.Code)
	}
}

func TestCORS(t *testing.T) {
	router := gin.New()
	router.Use(corsMiddleware())
	router.POST("/sentiment", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	t.Run("sets CORS headers", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPost, "/sentiment", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("answers preflight", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodOptions, "/sentiment", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
