// internal/generator/orchestrator_test.go
package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workout-service/internal/clients/textgen"
	"workout-service/internal/common/database"
	apperrors "workout-service/internal/common/errors"
	"workout-service/internal/common/logger"
	"workout-service/internal/normalizer"
	"workout-service/internal/workout"
)

type fakeTextClient struct {
	calls    int32
	delay    time.Duration
	response func() (*textgen.Completion, error)
}

func (f *fakeTextClient) Generate(ctx context.Context, prompt string) (*textgen.Completion, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, apperrors.NewTimeoutError("textgen")
		}
	}
	return f.response()
}

func goodCompletion(t *testing.T) *textgen.Completion {
	t.Helper()
	body := map[string]interface{}{
		"workoutTitle": "Chest Day",
		"exercises": []map[string]interface{}{
			{"name": "Push-up", "sets": 3, "reps": "12", "restTime": 45,
				"targetMuscles": []string{"chest"}, "difficulty": 2,
				"instructions": []string{"Press up"}, "tips": []string{"Stay tight"}},
		},
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return &textgen.Completion{Text: string(raw), FinishReason: textgen.FinishReasonStop}
}

func newTestOrchestrator(t *testing.T, text TextClient) (*Orchestrator, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := database.NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { rdb.Close() })

	log := logger.NewTestLogger(t)
	cache := NewResponseCache(rdb, 5*time.Minute, log)
	norm := normalizer.New(nil, log)

	o := New(text, norm, cache, NewSynthesizer(3), Options{MinInterval: time.Millisecond}, log)
	return o, mr
}

func genRequest() workout.Request {
	return workout.Request{
		TargetMuscles: []string{"chest"},
		FitnessLevel:  workout.LevelBeginner,
		Duration:      30,
		Equipment:     []string{"bodyweight"},
		Goals:         []string{"fitness"},
	}
}

func TestGenerateHappyPath(t *testing.T) {
	text := &fakeTextClient{response: func() (*textgen.Completion, error) { return goodCompletion(t), nil }}
	o, _ := newTestOrchestrator(t, text)

	plan, err := o.Generate(context.Background(), genRequest(), workout.DefaultPreferences())
	require.NoError(t, err)
	assert.Equal(t, "Chest Day", plan.Title)
	assert.False(t, plan.Fallback)
}

func TestGenerateCachesResponses(t *testing.T) {
	text := &fakeTextClient{response: func() (*textgen.Completion, error) { return goodCompletion(t), nil }}
	o, _ := newTestOrchestrator(t, text)

	_, err := o.Generate(context.Background(), genRequest(), workout.DefaultPreferences())
	require.NoError(t, err)
	_, err = o.Generate(context.Background(), genRequest(), workout.DefaultPreferences())
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&text.calls))
}

func TestGenerateCacheKeyIsOrderInsensitive(t *testing.T) {
	text := &fakeTextClient{response: func() (*textgen.Completion, error) { return goodCompletion(t), nil }}
	o, _ := newTestOrchestrator(t, text)

	req1 := genRequest()
	req1.TargetMuscles = []string{"chest", "triceps"}
	req1.Goals = []string{"strength", "fitness"}

	req2 := genRequest()
	req2.TargetMuscles = []string{"triceps", "chest"}
	req2.Goals = []string{"fitness", "strength"}

	_, err := o.Generate(context.Background(), req1, workout.DefaultPreferences())
	require.NoError(t, err)
	_, err = o.Generate(context.Background(), req2, workout.DefaultPreferences())
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&text.calls))
}

func TestGenerateFallsBackOnMalformedOutput(t *testing.T) {
	text := &fakeTextClient{response: func() (*textgen.Completion, error) {
		return &textgen.Completion{Text: "not json at all", FinishReason: textgen.FinishReasonStop}, nil
	}}
	o, _ := newTestOrchestrator(t, text)

	plan, err := o.Generate(context.Background(), genRequest(), workout.DefaultPreferences())
	require.NoError(t, err)
	assert.True(t, plan.Fallback)
	assert.Contains(t, plan.Description, DegradedMarker)
	assert.Contains(t, plan.Description, string(apperrors.CodeMalformedJSON))
}

func TestGeneratePropagatesRateLimited(t *testing.T) {
	text := &fakeTextClient{response: func() (*textgen.Completion, error) {
		return nil, apperrors.NewRateLimitedError(30 * time.Second)
	}}
	o, _ := newTestOrchestrator(t, text)

	_, err := o.Generate(context.Background(), genRequest(), workout.DefaultPreferences())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeRateLimited, apperrors.CodeOf(err))
}

func TestGeneratePropagatesConfigurationError(t *testing.T) {
	text := &fakeTextClient{response: func() (*textgen.Completion, error) {
		return nil, apperrors.NewConfigurationError("no key")
	}}
	o, _ := newTestOrchestrator(t, text)

	_, err := o.Generate(context.Background(), genRequest(), workout.DefaultPreferences())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConfiguration, apperrors.CodeOf(err))
}

func TestGenerateRejectsInvalidRequest(t *testing.T) {
	text := &fakeTextClient{response: func() (*textgen.Completion, error) { return goodCompletion(t), nil }}
	o, _ := newTestOrchestrator(t, text)

	req := genRequest()
	req.Duration = 3

	_, err := o.Generate(context.Background(), req, workout.DefaultPreferences())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
	assert.Equal(t, int32(0), atomic.LoadInt32(&text.calls))
}

func TestGenerateCollapsesConcurrentIdenticalRequests(t *testing.T) {
	text := &fakeTextClient{
		delay:    100 * time.Millisecond,
		response: func() (*textgen.Completion, error) { return goodCompletion(t), nil },
	}
	o, _ := newTestOrchestrator(t, text)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := o.Generate(context.Background(), genRequest(), workout.DefaultPreferences())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&text.calls))
}

func TestGenerateExpandsBodyParts(t *testing.T) {
	var prompt string
	text := &fakeTextClient{}
	text.response = func() (*textgen.Completion, error) { return goodCompletion(t), nil }

	o, _ := newTestOrchestrator(t, &promptCapturingClient{inner: text, captured: &prompt})

	req := genRequest()
	req.TargetMuscles = []string{"arms"}

	_, err := o.Generate(context.Background(), req, workout.DefaultPreferences())
	require.NoError(t, err)
	assert.Contains(t, prompt, "biceps")
	assert.Contains(t, prompt, "triceps")
}

type promptCapturingClient struct {
	inner    *fakeTextClient
	captured *string
}

func (p *promptCapturingClient) Generate(ctx context.Context, prompt string) (*textgen.Completion, error) {
	*p.captured = prompt
	return p.inner.Generate(ctx, prompt)
}

func TestRegenerateAppliesModifier(t *testing.T) {
	var prompt string
	text := &fakeTextClient{}
	text.response = func() (*textgen.Completion, error) { return goodCompletion(t), nil }
	o, _ := newTestOrchestrator(t, &promptCapturingClient{inner: text, captured: &prompt})

	req := genRequest()
	req.Duration = 30

	_, err := o.Regenerate(context.Background(), req, workout.ModifierLonger, workout.DefaultPreferences())
	require.NoError(t, err)
	assert.Contains(t, prompt, "45 minutes")
}

func TestErrorLogRecordsFailures(t *testing.T) {
	text := &fakeTextClient{response: func() (*textgen.Completion, error) {
		return &textgen.Completion{Text: "garbage", FinishReason: textgen.FinishReasonStop}, nil
	}}
	o, _ := newTestOrchestrator(t, text)

	_, err := o.Generate(context.Background(), genRequest(), workout.DefaultPreferences())
	require.NoError(t, err)

	recent := o.Errors().Recent()
	require.Len(t, recent, 1)
	assert.Equal(t, apperrors.CodeMalformedJSON, recent[0].Code)
	assert.Equal(t, 1, o.Errors().Stats()[apperrors.CodeMalformedJSON])
}

func TestErrorLogKeepsMostRecentTen(t *testing.T) {
	l := NewErrorLog()
	for i := 0; i < 15; i++ {
		l.Record(apperrors.NewMalformedJSONError(fmt.Sprintf("entry %d", i)))
	}

	recent := l.Recent()
	require.Len(t, recent, 10)
	assert.Contains(t, recent[0].Message, "MALFORMED_JSON")
	assert.Equal(t, 15, l.Stats()[apperrors.CodeMalformedJSON])
}

func TestCacheExpiresWithTTL(t *testing.T) {
	text := &fakeTextClient{response: func() (*textgen.Completion, error) { return goodCompletion(t), nil }}
	o, mr := newTestOrchestrator(t, text)

	_, err := o.Generate(context.Background(), genRequest(), workout.DefaultPreferences())
	require.NoError(t, err)

	mr.FastForward(6 * time.Minute)

	_, err = o.Generate(context.Background(), genRequest(), workout.DefaultPreferences())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&text.calls))
}
