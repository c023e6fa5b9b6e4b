// internal/ratelimit/presets.go
package ratelimit

import (
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	Auth     = Options{Name: "auth", Max: 5, Window: 15 * time.Minute, FailOpen: true}
	API      = Options{Name: "api", Max: 100, Window: time.Minute, FailOpen: true}
	Download = Options{Name: "download", Max: 10, Window: time.Minute, FailOpen: true}
	Upload   = Options{Name: "upload", Max: 20, Window: time.Hour, FailOpen: true}
	Payment  = Options{Name: "payment", Max: 5, Window: time.Minute, FailOpen: false}
)

// Set bundles one limiter per preset around a shared client.
type Set struct {
	Auth     *Limiter
	API      *Limiter
	Download *Limiter
	Upload   *Limiter
	Payment  *Limiter
}

// NewSet accepts a nil client, leaving every limiter in degraded mode.
func NewSet(client *redis.Client) *Set {
	var store redis.Cmdable
	if client != nil {
		store = client
	}
	return &Set{
		Auth:     New(store, Auth),
		API:      New(store, API),
		Download: New(store, Download),
		Upload:   New(store, Upload),
		Payment:  New(store, Payment),
	}
}
