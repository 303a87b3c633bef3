// internal/normalizer/images.go
package normalizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"workout-service/internal/clients/imagegen"
	"workout-service/internal/common/metrics"
	"workout-service/internal/workout"
)

// attachImages fans out one illustration request per exercise and waits for
// every outcome. Failures are isolated: an exercise whose image attempt
// fails simply carries no image. Partial coverage is an accepted result.
func (n *Normalizer) attachImages(ctx context.Context, plan *workout.Plan) {
	var wg sync.WaitGroup
	urls := make([]string, len(plan.Exercises))

	for i := range plan.Exercises {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			urls[i] = n.imageFor(ctx, &plan.Exercises[i])
		}(i)
	}
	wg.Wait()

	for i := range plan.Exercises {
		plan.Exercises[i].ImageURL = urls[i]
	}
}

// imageFor runs the name-safety ladder: remapped name first, then one
// retry with a generic per-muscle-group exercise on a policy rejection.
func (n *Normalizer) imageFor(ctx context.Context, ex *workout.Exercise) string {
	prompt := imagePrompt(SafeName(ex.Name), ex.TargetMuscles)
	url, err := n.images.Generate(ctx, prompt)
	if err == nil {
		metrics.ImageGenerations.WithLabelValues("ok").Inc()
		return url
	}

	var policyErr *imagegen.ContentPolicyError
	if errors.As(err, &policyErr) {
		generic := GenericNameFor(ex.TargetMuscles)
		url, err = n.images.Generate(ctx, imagePrompt(generic, ex.TargetMuscles))
		if err == nil {
			metrics.ImageGenerations.WithLabelValues("remapped").Inc()
			return url
		}
	}

	metrics.ImageGenerations.WithLabelValues("failed").Inc()
	n.logger.Warn("image generation failed", map[string]interface{}{
		"exercise": ex.Name,
		"error":    err.Error(),
	})
	return ""
}

func imagePrompt(name string, muscles []string) string {
	return fmt.Sprintf(
		"Clean fitness illustration of a person performing %s, targeting %s. Simple flat style, neutral background, no text.",
		name, strings.Join(muscles, " and "),
	)
}
