// Package cache provides in-memory caching of computed odds estimates.
package cache

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yourusername/permit-odds/internal/metrics"
	"github.com/yourusername/permit-odds/internal/models"
)

// Key canonically identifies an estimate request.
type Key struct {
	PermitYear int
	DataYears  []int
	Choices    []models.Choice
}

// String returns string representation of cache key
func (k Key) String() string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(k.PermitYear))
	sb.WriteByte('|')
	for i, y := range k.DataYears {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(y))
	}
	for _, c := range k.Choices {
		fmt.Fprintf(&sb, "|%q:%d:%d:%d", c.Zone, c.Month, c.Day, c.GroupSize)
	}
	return sb.String()
}

// KeyFor builds the cache key for a request.
func KeyFor(req models.EstimateRequest) Key {
	return Key{PermitYear: req.PermitYear, DataYears: req.DataYears, Choices: req.Choices}
}

// EstimateCache keeps recent estimate results in memory. Entries are never
// written anywhere else and expire after the configured TTL.
type EstimateCache struct {
	cache     *gocache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.RWMutex
	hitCount  uint64
	missCount uint64
}

// NewEstimateCache creates a new estimate cache
func NewEstimateCache(ttl time.Duration, maxSize int) *EstimateCache {
	return &EstimateCache{
		cache:   gocache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached estimate
func (ec *EstimateCache) Get(key Key) (*models.EstimateResult, bool) {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	if result, found := ec.cache.Get(key.String()); found {
		if est, ok := result.(*models.EstimateResult); ok {
			ec.hitCount++
			ec.updateMetrics()
			return cloneResult(est), true
		}
	}

	ec.missCount++
	ec.updateMetrics()
	return nil, false
}

// Set stores an estimate in cache
func (ec *EstimateCache) Set(key Key, result *models.EstimateResult) {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	if ec.maxSize > 0 && ec.cache.ItemCount() >= ec.maxSize {
		ec.cache.DeleteExpired()
		if ec.cache.ItemCount() >= ec.maxSize {
			return
		}
	}

	ec.cache.Set(key.String(), cloneResult(result), ec.ttl)
}

// Clear flushes the entire cache
func (ec *EstimateCache) Clear() {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	ec.cache.Flush()
	ec.hitCount = 0
	ec.missCount = 0
}

// Stats returns cache statistics
func (ec *EstimateCache) Stats() (hits, misses uint64, ratio float64) {
	ec.mu.RLock()
	defer ec.mu.RUnlock()
	return ec.statsLocked()
}

func (ec *EstimateCache) statsLocked() (hits, misses uint64, ratio float64) {
	hits = ec.hitCount
	misses = ec.missCount
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

func (ec *EstimateCache) updateMetrics() {
	_, _, ratio := ec.statsLocked()
	metrics.UpdateCacheHitRatio(ratio)
}

// ItemCount returns the number of items in cache
func (ec *EstimateCache) ItemCount() int {
	return ec.cache.ItemCount()
}

// cloneResult deep-copies a result so cached entries cannot be mutated by callers.
func cloneResult(in *models.EstimateResult) *models.EstimateResult {
	out := &models.EstimateResult{
		Years:   append([]int(nil), in.Years...),
		Choices: make([]models.ChoiceResult, len(in.Choices)),
	}
	for i, c := range in.Choices {
		cp := c
		cp.OddsByYear = make(map[int]float64, len(c.OddsByYear))
		for y, v := range c.OddsByYear {
			cp.OddsByYear[y] = v
		}
		cp.CompDatesByYear = make(map[int]*string, len(c.CompDatesByYear))
		for y, d := range c.CompDatesByYear {
			if d != nil {
				s := *d
				cp.CompDatesByYear[y] = &s
			} else {
				cp.CompDatesByYear[y] = nil
			}
		}
		out.Choices[i] = cp
	}
	return out
}
