package handlers

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// CheckFunc reports whether a dependency is usable.
type CheckFunc func(ctx context.Context) error

// HealthHandler serves the liveness, readiness and info endpoints. None of
// them touch the user directory except through registered readiness checks.
type HealthHandler struct {
	port    interface{}
	started time.Time
	timeout time.Duration

	mu     sync.RWMutex
	checks map[string]CheckFunc
}

// NewHealthHandler reports port as a number when it parses as one.
func NewHealthHandler(port string) *HealthHandler {
	var p interface{} = port
	if n, err := strconv.Atoi(port); err == nil {
		p = n
	}
	return &HealthHandler{port: p, started: time.Now(), timeout: 2 * time.Second, checks: map[string]CheckFunc{}}
}

// AddCheck registers a readiness dependency.
func (h *HealthHandler) AddCheck(name string, fn CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = fn
}

func (h *HealthHandler) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.GET("/ping", h.Ping)
	r.GET("/ready", h.Ready)
}

func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":          "Meetink API is running - Use /graphql for GraphQL queries",
		"port":             h.port,
		"graphql_endpoint": "/graphql",
	})
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "API is healthy"})
}

func (h *HealthHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "pong", "time": time.Now().UTC().Format(time.RFC3339Nano)})
}

// Ready runs every registered check; any failure yields 503.
func (h *HealthHandler) Ready(c *gin.Context) {
	h.mu.RLock()
	names := make([]string, 0, len(h.checks))
	for n := range h.checks {
		names = append(names, n)
	}
	h.mu.RUnlock()
	sort.Strings(names)

	deps := gin.H{}
	ready := true
	for _, n := range names {
		h.mu.RLock()
		fn := h.checks[n]
		h.mu.RUnlock()
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		err := fn(ctx)
		cancel()
		if err != nil {
			ready = false
			deps[n] = "error: " + err.Error()
			continue
		}
		deps[n] = "ok"
	}

	body := gin.H{"deps": deps, "uptime": time.Since(h.started).Round(time.Second).String()}
	if !ready {
		body["status"] = "not_ready"
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	body["status"] = "ready"
	c.JSON(http.StatusOK, body)
}
