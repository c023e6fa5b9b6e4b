// internal/middleware/rate_limit.go
package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/Piyush5621/AnarchyBay/internal/i18n"
	"github.com/Piyush5621/AnarchyBay/internal/ratelimit"
	"github.com/Piyush5621/AnarchyBay/internal/utils"
)

// KeyFunc derives the rate limit identity of a request.
type KeyFunc func(c *gin.Context) string

func ByIP(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

func ByUserOrIP(c *gin.Context) string {
	if id, ok := utils.GetUserUUID(c); ok {
		return "user:" + id.String()
	}
	return ByIP(c)
}

// ByIPAndEmail keys login attempts on ip:email. The body is restored for
// the handler.
func ByIPAndEmail(c *gin.Context) string {
	if c.Request.Body == nil {
		return ByIP(c)
	}
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return ByIP(c)
	}

	var payload struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(body, &payload) != nil || payload.Email == "" {
		return ByIP(c)
	}
	return ByIP(c) + ":" + strings.ToLower(strings.TrimSpace(payload.Email))
}

// RateLimit enforces a sliding window limiter. Rejections are 429 with
// Retry-After; a fail-closed limiter without its store answers 503.
func RateLimit(limiter *ratelimit.Limiter, keyFn KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := utils.GetLangFromContext(c)

		res, err := limiter.Allow(c.Request.Context(), keyFn(c))
		if err != nil {
			logrus.WithError(err).WithField("limiter", limiter.Options().Name).Error("Rate limit store unavailable")
			utils.Fail(c, http.StatusServiceUnavailable, i18n.T(lang, i18n.KeyRateUnavailable))
			c.Abort()
			return
		}

		if !res.Degraded {
			c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			c.Header("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
		}

		if !res.Allowed {
			seconds := int(math.Ceil(res.RetryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(seconds))
			utils.ErrorResponse(c, http.StatusTooManyRequests, "RATE_LIMITED", i18n.T(lang, i18n.KeyRateLimited), gin.H{
				"retry_after": seconds,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Throttle is a process local token bucket per client IP. It keeps working
// when Redis is down.
type Throttle struct {
	visitors map[string]*visitor
	mtx      sync.Mutex
	rate     rate.Limit
	burst    int
}

func NewThrottle(r rate.Limit, b int) *Throttle {
	t := &Throttle{
		visitors: make(map[string]*visitor),
		rate:     r,
		burst:    b,
	}

	// Clean up old visitors every minute
	go t.cleanupVisitors()

	return t
}

func (t *Throttle) cleanupVisitors() {
	for {
		time.Sleep(time.Minute)
		t.evict(3 * time.Minute)
	}
}

func (t *Throttle) evict(idle time.Duration) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	for ip, v := range t.visitors {
		if time.Since(v.lastSeen) > idle {
			delete(t.visitors, ip)
		}
	}
}

func (t *Throttle) getVisitor(ip string) *rate.Limiter {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	v, exists := t.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(t.rate, t.burst)
		t.visitors[ip] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func (t *Throttle) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !t.getVisitor(c.ClientIP()).Allow() {
			c.Header("Retry-After", "1")
			utils.ErrorResponse(c, http.StatusTooManyRequests, "RATE_LIMITED",
				i18n.T(utils.GetLangFromContext(c), i18n.KeyRateLimited), nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
