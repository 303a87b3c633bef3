// internal/planstore/store.go

// Package planstore keeps the most recently generated plan available across
// sessions through a tiered fallback: a durable primary tier with a tight
// size ceiling, a larger but shorter-lived secondary tier, and an
// image-stripped retry before giving up. Plan loss is never fatal; callers
// regenerate.
package planstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"workout-service/internal/common/logger"
	"workout-service/internal/common/metrics"
	"workout-service/internal/workout"
)

// ErrCapacity is returned by a tier whose space budget cannot hold the
// payload.
var ErrCapacity = errors.New("tier capacity exceeded")

// keyPrefix groups all current-plan entries; eviction only ever touches
// keys under it.
const keyPrefix = "current-plan:"

// Tier is one storage target in the fallback chain.
type Tier interface {
	Name() string
	// Ceiling is the maximum serialized payload size the tier accepts.
	Ceiling() int
	Put(ctx context.Context, key, payload string) error
	Get(ctx context.Context, key string) (string, error)
	// Keys lists stored keys under the prefix in ascending order.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, keys ...string) error
}

// SaveResult reports where (or whether) a plan landed.
type SaveResult struct {
	Stored   bool   `json:"stored"`
	Tier     string `json:"tier,omitempty"`
	Stripped bool   `json:"stripped,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// Store drives the tiered save/load policy.
type Store struct {
	tiers  []Tier
	logger logger.Logger
}

func New(primary, secondary Tier, log logger.Logger) *Store {
	return &Store{
		tiers: []Tier{primary, secondary},
		logger: log.With(map[string]interface{}{
			"component": "planstore",
		}),
	}
}

// Save attempts each tier in order with the full payload, then again with
// external image references stripped. It never returns an error; total
// failure is reported in the result.
func (s *Store) Save(ctx context.Context, plan *workout.Plan) SaveResult {
	payload, err := json.Marshal(plan)
	if err != nil {
		return SaveResult{Stored: false, Reason: fmt.Sprintf("serialize: %v", err)}
	}

	key := fmt.Sprintf("%s%020d", keyPrefix, time.Now().UnixNano())

	if res, ok := s.tryTiers(ctx, key, string(payload), false); ok {
		return res
	}

	stripped := StripExternalImages(plan)
	strippedPayload, err := json.Marshal(stripped)
	if err != nil {
		return SaveResult{Stored: false, Reason: fmt.Sprintf("serialize stripped: %v", err)}
	}

	if res, ok := s.tryTiers(ctx, key, string(strippedPayload), true); ok {
		return res
	}

	s.logger.Warn("plan not stored in any tier", map[string]interface{}{
		"size": len(payload),
	})
	return SaveResult{Stored: false, Reason: "payload exceeds every tier even after stripping images"}
}

// Load returns the most recent stored plan, preferring the durable tier.
func (s *Store) Load(ctx context.Context) (*workout.Plan, bool) {
	for _, tier := range s.tiers {
		keys, err := tier.Keys(ctx, keyPrefix)
		if err != nil || len(keys) == 0 {
			continue
		}
		newest := keys[len(keys)-1]

		raw, err := tier.Get(ctx, newest)
		if err != nil {
			continue
		}
		var plan workout.Plan
		if err := json.Unmarshal([]byte(raw), &plan); err != nil {
			s.logger.Warn("dropping undecodable stored plan", map[string]interface{}{
				"tier": tier.Name(),
				"key":  newest,
			})
			_ = tier.Delete(ctx, newest)
			continue
		}
		return &plan, true
	}
	return nil, false
}

// Clear removes all stored current-plan entries from every tier.
func (s *Store) Clear(ctx context.Context) {
	for _, tier := range s.tiers {
		if keys, err := tier.Keys(ctx, keyPrefix); err == nil && len(keys) > 0 {
			_ = tier.Delete(ctx, keys...)
		}
	}
}

func (s *Store) tryTiers(ctx context.Context, key, payload string, stripped bool) (SaveResult, bool) {
	for _, tier := range s.tiers {
		if len(payload) > tier.Ceiling() {
			// Preemptive downgrade: do not attempt a write that cannot fit.
			metrics.PlanStoreOutcomes.WithLabelValues(tier.Name(), "rejected").Inc()
			continue
		}
		if s.putWithEviction(ctx, tier, key, payload) {
			result := "stored"
			if stripped {
				result = "stripped"
			}
			metrics.PlanStoreOutcomes.WithLabelValues(tier.Name(), result).Inc()
			return SaveResult{Stored: true, Tier: tier.Name(), Stripped: stripped}, true
		}
	}
	return SaveResult{}, false
}

// putWithEviction writes once, and on a capacity failure evicts older
// same-prefix entries and retries exactly once.
func (s *Store) putWithEviction(ctx context.Context, tier Tier, key, payload string) bool {
	err := tier.Put(ctx, key, payload)
	if err == nil {
		return true
	}
	if !errors.Is(err, ErrCapacity) {
		s.logger.Warn("tier write failed", map[string]interface{}{
			"tier":  tier.Name(),
			"error": err.Error(),
		})
		return false
	}

	keys, kerr := tier.Keys(ctx, keyPrefix)
	if kerr != nil || len(keys) == 0 {
		return false
	}
	var older []string
	for _, k := range keys {
		if k < key && strings.HasPrefix(k, keyPrefix) {
			older = append(older, k)
		}
	}
	if len(older) == 0 {
		return false
	}
	if err := tier.Delete(ctx, older...); err != nil {
		return false
	}
	metrics.PlanStoreOutcomes.WithLabelValues(tier.Name(), "evicted").Inc()

	return tier.Put(ctx, key, payload) == nil
}

// StripExternalImages returns a copy of plan without externally-hosted
// image references. Inline data: images are the valuable generated asset
// and survive stripping.
func StripExternalImages(plan *workout.Plan) *workout.Plan {
	out := *plan
	out.Exercises = make([]workout.Exercise, len(plan.Exercises))
	copy(out.Exercises, plan.Exercises)
	for i := range out.Exercises {
		url := out.Exercises[i].ImageURL
		if url != "" && !strings.HasPrefix(url, "data:") {
			out.Exercises[i].ImageURL = ""
		}
	}
	return &out
}
