// internal/generator/orchestrator.go

// Package generator owns the caller-side policy around workout generation:
// request preparation, outbound pacing, response caching, collapse of
// identical in-flight requests, and the fallback decision when the model
// output cannot be normalized.
package generator

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"workout-service/internal/clients/textgen"
	apperrors "workout-service/internal/common/errors"
	"workout-service/internal/common/logger"
	"workout-service/internal/common/metrics"
	"workout-service/internal/workout"
)

// TextClient is the outbound text-generation dependency.
type TextClient interface {
	Generate(ctx context.Context, prompt string) (*textgen.Completion, error)
}

// PlanNormalizer converts completions into canonical plans.
type PlanNormalizer interface {
	Normalize(ctx context.Context, completion *textgen.Completion, req *workout.Request) (*workout.Plan, error)
}

// Orchestrator drives one generation attempt end to end. Generate resolves
// to a plan for every upstream-malformed failure; only validation,
// configuration, rate-limit and transport errors propagate.
type Orchestrator struct {
	text     TextClient
	norm     PlanNormalizer
	cache    *ResponseCache
	limiter  *rate.Limiter
	flight   singleflight.Group
	errorLog *ErrorLog
	fallback *Synthesizer
	logger   logger.Logger
}

// Options tune orchestrator behavior.
type Options struct {
	// MinInterval paces outbound text-generation calls.
	MinInterval time.Duration
}

func New(text TextClient, norm PlanNormalizer, cache *ResponseCache, fallback *Synthesizer, opts Options, log logger.Logger) *Orchestrator {
	interval := opts.MinInterval
	if interval <= 0 {
		interval = time.Second
	}
	return &Orchestrator{
		text:     text,
		norm:     norm,
		cache:    cache,
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		errorLog: NewErrorLog(),
		fallback: fallback,
		logger: log.With(map[string]interface{}{
			"component": "orchestrator",
		}),
	}
}

// Generate produces a plan for the request. Preferences fill absent fields
// and body-part ids expand to muscle lists before validation.
func (o *Orchestrator) Generate(ctx context.Context, req workout.Request, prefs workout.Preferences) (*workout.Plan, error) {
	start := time.Now()

	workout.ApplyPreferences(&req, prefs)
	req.TargetMuscles = workout.ExpandBodyParts(req.TargetMuscles)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	key := o.cache.Key(&req)
	if plan, ok := o.cache.Get(ctx, key); ok {
		o.observe("cached", start)
		return plan, nil
	}

	// Identical requests racing past the cache share one upstream call.
	result, err, _ := o.flight.Do(key, func() (interface{}, error) {
		return o.generateOnce(ctx, &req, key)
	})
	if err != nil {
		o.observe("failed", start)
		return nil, err
	}

	plan := result.(*workout.Plan)
	if plan.Fallback {
		o.observe("fallback", start)
	} else {
		o.observe("generated", start)
	}
	return plan, nil
}

// Regenerate adjusts the previous request by the modifier and generates a
// fresh plan, bypassing nothing: the adjusted request flows through the
// same cache and pacing as any other.
func (o *Orchestrator) Regenerate(ctx context.Context, prev workout.Request, mod workout.Modifier, prefs workout.Preferences) (*workout.Plan, error) {
	return o.Generate(ctx, workout.ApplyModifier(prev, mod), prefs)
}

// Errors exposes the recent-failure log for the diagnostics endpoint.
func (o *Orchestrator) Errors() *ErrorLog {
	return o.errorLog
}

func (o *Orchestrator) generateOnce(ctx context.Context, req *workout.Request, cacheKey string) (*workout.Plan, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return nil, apperrors.NewTimeoutError("textgen")
	}

	prompt := workout.BuildPrompt(req)
	completion, err := o.text.Generate(ctx, prompt)
	if err != nil {
		return o.recover(req, err)
	}

	plan, err := o.norm.Normalize(ctx, completion, req)
	if err != nil {
		return o.recover(req, err)
	}

	o.cache.Put(ctx, cacheKey, plan)
	return plan, nil
}

// recover classifies a pipeline failure. Upstream-malformed output and
// unparseable truncation degrade to the offline synthesizer; everything
// else propagates to the caller untouched.
func (o *Orchestrator) recover(req *workout.Request, err error) (*workout.Plan, error) {
	o.errorLog.Record(err)
	code := apperrors.CodeOf(err)

	if apperrors.IsUpstreamMalformed(code) || code == apperrors.CodeTruncated {
		o.logger.Warn("degrading to offline plan", map[string]interface{}{
			"cause": string(code),
		})
		return o.fallback.Synthesize(req, code), nil
	}

	return nil, err
}

func (o *Orchestrator) observe(outcome string, start time.Time) {
	metrics.GenerationsTotal.WithLabelValues(outcome).Inc()
	metrics.GenerationDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}
