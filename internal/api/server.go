// internal/api/server.go
package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"career-workers/internal/common/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const (
	HeaderRequestID = "X-Request-ID"
	requestIDKey    = "requestId"
)

// CheckFunc reports whether one dependency is ready.
type CheckFunc func(ctx context.Context) error

// NewEngine builds the gin engine serving health, readiness, metrics and the
// career routes. checks run on /ready; every one must pass.
func NewEngine(h *Handler, checks map[string]CheckFunc, log logger.Logger) *gin.Engine {
	server := gin.New()
	server.Use(gin.Recovery(), requestIDMiddleware(), accessLog(log))

	server.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	server.GET("/ready", readiness(checks))
	server.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h.PublicRoutes(server)
	return server
}

// NewServer wraps the engine in an http.Server listening on addr.
func NewServer(addr string, engine *gin.Engine) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func readiness(checks map[string]CheckFunc) gin.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		results := make([]string, len(names))
		var g errgroup.Group
		for i, name := range names {
			i, check := i, checks[name]
			g.Go(func() error {
				if err := check(ctx); err != nil {
					results[i] = err.Error()
					return err
				}
				results[i] = "ok"
				return nil
			})
		}
		err := g.Wait()

		deps := make(map[string]string, len(names))
		for i, name := range names {
			deps[name] = results[i]
		}

		status, code := "ready", http.StatusOK
		if err != nil {
			status, code = "not ready", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":       status,
			"time":         time.Now().Format(time.RFC3339),
			"dependencies": deps,
		})
	}
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

func accessLog(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]interface{}{
			"method":    c.Request.Method,
			"path":      c.FullPath(),
			"status":    c.Writer.Status(),
			"duration":  time.Since(start).String(),
			"requestId": requestID(c),
		}
		if len(c.Errors) > 0 {
			fields["error"] = c.Errors.Last().Error()
			log.Warn("request failed", fields)
			return
		}
		log.Debug("request served", fields)
	}
}
