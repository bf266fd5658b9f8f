package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/askage/askage-service/internal/metrics"
	"github.com/askage/askage-service/internal/repo"
	"github.com/askage/askage-service/internal/security"
)

const (
	requestIDKey = "X-Request-ID"
	authUserKey  = "uid"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDKey)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDKey, id)
		c.Next()
	}
}

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.InFlight.Inc()
		start := time.Now()
		c.Next()
		metrics.InFlight.Dec()
		metrics.ReqDuration.WithLabelValues(route, c.Request.Method).
			Observe(time.Since(start).Seconds())
		metrics.RequestsTotal.WithLabelValues(route, c.Request.Method,
			strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// AuthSession guards every conversation route. The extension sends the
// credential it got at login as a bearer token; we split it back into
// (user_id, session_token) and check the pair against the store. Any
// failure is a plain 401, no detail about which part was wrong.
func AuthSession(store *repo.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(strings.ToLower(h), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer"})
			return
		}
		cred := strings.TrimSpace(h[len("Bearer "):])
		uid, token, ok := security.SplitCredential(cred)
		if !ok || !store.VerifyAuthToken(c.Request.Context(), uid, token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}
		c.Set(authUserKey, uid)
		c.Next()
	}
}

// RateLimit caps conversation creation per user per minute. Nil redis or a
// zero limit disables it (dev setups, tests).
func RateLimit(rds *repo.Redis, perMin int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rds == nil || perMin <= 0 {
			c.Next()
			return
		}
		uid := c.GetString(authUserKey)
		if !rds.Allow(c.Request.Context(), "rl:conv:"+uid, perMin, time.Minute) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
