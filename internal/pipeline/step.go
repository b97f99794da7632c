package pipeline

import (
	"context"
	"fmt"
	"image"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	StepWatermark = "watermark"
	StepRotate    = "rotate"
	StepGrayscale = "grayscale"
)

const tracerName = "github.com/dunamismax/pixelcraft/internal/pipeline"

// StepFunc consumes an image and returns a new one. Implementations must not
// mutate their input.
type StepFunc func(image.Image) (image.Image, error)

// Step is one named transformation in a Pipeline.
type Step struct {
	Name  string
	Apply StepFunc
}

// Pipeline is an ordered sequence of steps applied left to right.
type Pipeline []Step

// StepObserver is called once per executed step.
type StepObserver func(name string, elapsed time.Duration, err error)

func (p Pipeline) Names() []string {
	names := make([]string, 0, len(p))
	for _, step := range p {
		names = append(names, step.Name)
	}
	return names
}

func (p Pipeline) Apply(ctx context.Context, img image.Image) (image.Image, error) {
	return p.ApplyObserved(ctx, img, nil)
}

func (p Pipeline) ApplyObserved(ctx context.Context, img image.Image, observe StepObserver) (image.Image, error) {
	tracer := otel.Tracer(tracerName)

	out := img
	for i, step := range p {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		_, span := tracer.Start(ctx, "pipeline.step")
		span.SetAttributes(
			attribute.String("pixelcraft.step", step.Name),
			attribute.Int("pixelcraft.step_index", i),
		)

		started := time.Now()
		next, err := step.Apply(out)
		elapsed := time.Since(started)
		if observe != nil {
			observe(step.Name, elapsed, err)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.End()
			return nil, fmt.Errorf("step=%s: %w", step.Name, err)
		}

		bounds := next.Bounds()
		span.SetAttributes(
			attribute.Int("pixelcraft.width", bounds.Dx()),
			attribute.Int("pixelcraft.height", bounds.Dy()),
		)
		span.End()
		out = next
	}
	return out, nil
}
