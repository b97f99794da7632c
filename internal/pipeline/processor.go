package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dunamismax/pixelcraft/internal/domain"
	"github.com/dunamismax/pixelcraft/internal/id"
	"github.com/dunamismax/pixelcraft/internal/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// OutputSuffix is inserted before the source extension when no destination
// is given.
const OutputSuffix = "-transformed"

const (
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

var ErrUnsupportedSource = errors.New("unsupported source location")

type Fetcher interface {
	Exists(ctx context.Context, src string) (bool, error)
	Open(ctx context.Context, src string) (io.ReadCloser, error)
}

type Emitter interface {
	Emit(ctx context.Context, dst string, data []byte, format Format) error
}

// Observer receives per-step and per-run measurements.
type Observer interface {
	ObserveStep(step string, elapsed time.Duration, err error)
	ObserveRun(status string, elapsed time.Duration, pixels int64, outputBytes int)
}

type Processor struct {
	codec         Codec
	composer      Composer
	localFetcher  Fetcher
	localEmitter  Emitter
	objectFetcher Fetcher
	objectEmitter Emitter
	observer      Observer
	logger        *zap.Logger
	codecOpts     CodecOptions
}

type ProcessorOption func(*Processor)

func WithLogger(logger *zap.Logger) ProcessorOption {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func WithObserver(observer Observer) ProcessorOption {
	return func(p *Processor) {
		if observer != nil {
			p.observer = observer
		}
	}
}

func WithFontLoader(fonts *FontLoader) ProcessorOption {
	return func(p *Processor) {
		p.composer.Fonts = fonts
	}
}

func WithCodecOptions(opts CodecOptions) ProcessorOption {
	return func(p *Processor) {
		p.codecOpts = opts
	}
}

// WithObjectStore enables s3:// sources and destinations.
func WithObjectStore(client *storage.Client) ProcessorOption {
	return func(p *Processor) {
		if client == nil {
			return
		}
		p.objectFetcher = ObjectStoreFetcher{Storage: client}
		p.objectEmitter = ObjectStoreEmitter{Storage: client}
	}
}

func NewLocalProcessor(opts ...ProcessorOption) (*Processor, error) {
	p := &Processor{
		localFetcher: LocalFileFetcher{},
		localEmitter: LocalFileEmitter{},
		observer:     nopObserver{},
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	codec, err := newCodec(p.codecOpts)
	if err != nil {
		return nil, fmt.Errorf("build codec: %w", err)
	}
	p.codec = codec
	return p, nil
}

func (p *Processor) SourceExists(ctx context.Context, src string) (bool, error) {
	fetcher, err := p.fetcher(src)
	if err != nil {
		return false, err
	}
	return fetcher.Exists(ctx, src)
}

// Run decodes src, applies the pipeline composed from req and writes the
// result to dst, or to DefaultOutputPath(src) when dst is empty. It returns
// the destination actually written.
func (p *Processor) Run(ctx context.Context, src, dst string, req domain.TransformRequest) (string, error) {
	runID := id.New()
	logger := p.logger.With(zap.String("run_id", runID), zap.String("source", src))

	ctx, span := otel.Tracer(tracerName).Start(ctx, "pipeline.run")
	defer span.End()
	span.SetAttributes(attribute.String("pixelcraft.run_id", runID))

	started := time.Now()
	written, pixels, size, err := p.run(ctx, logger, src, dst, req)
	elapsed := time.Since(started)
	if err != nil {
		p.observer.ObserveRun(RunStatusFailed, elapsed, 0, 0)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Warn("pipeline run failed", zap.Duration("elapsed", elapsed), zap.Error(err))
		return "", err
	}

	p.observer.ObserveRun(RunStatusSucceeded, elapsed, pixels, size)
	span.SetAttributes(attribute.String("pixelcraft.destination", written))
	logger.Info("pipeline run finished",
		zap.String("destination", written),
		zap.Int("bytes", size),
		zap.Duration("elapsed", elapsed),
	)
	return written, nil
}

func (p *Processor) run(ctx context.Context, logger *zap.Logger, src, dst string, req domain.TransformRequest) (string, int64, int, error) {
	steps, err := p.composer.Compose(req)
	if err != nil {
		return "", 0, 0, err
	}

	if strings.TrimSpace(dst) == "" {
		dst = DefaultOutputPath(src)
	}
	format, err := FormatFromPath(dst)
	if err != nil {
		return "", 0, 0, err
	}
	fetcher, err := p.fetcher(src)
	if err != nil {
		return "", 0, 0, err
	}
	emitter, err := p.emitter(dst)
	if err != nil {
		return "", 0, 0, err
	}

	logger.Debug("pipeline composed", zap.Strings("steps", steps.Names()), zap.String("format", string(format)))

	rc, err := fetcher.Open(ctx, src)
	if err != nil {
		return "", 0, 0, fmt.Errorf("fetch stage: %w", err)
	}
	defer rc.Close()

	decoded, err := p.codec.Decode(rc)
	if err != nil {
		return "", 0, 0, err
	}
	base := ToRGB(decoded)

	out, err := steps.ApplyObserved(ctx, base, func(name string, elapsed time.Duration, err error) {
		p.observer.ObserveStep(name, elapsed, err)
		logger.Debug("pipeline step", zap.String("step", name), zap.Duration("elapsed", elapsed), zap.Error(err))
	})
	if err != nil {
		return "", 0, 0, fmt.Errorf("transform stage: %w", err)
	}

	var buf bytes.Buffer
	if err := p.codec.Encode(&buf, out, format); err != nil {
		return "", 0, 0, err
	}
	if err := emitter.Emit(ctx, dst, buf.Bytes(), format); err != nil {
		return "", 0, 0, fmt.Errorf("emit stage: %w", err)
	}

	bounds := base.Bounds()
	return dst, int64(bounds.Dx()) * int64(bounds.Dy()), buf.Len(), nil
}

func (p *Processor) fetcher(src string) (Fetcher, error) {
	if !storage.IsObjectURI(src) {
		return p.localFetcher, nil
	}
	if p.objectFetcher == nil {
		return nil, fmt.Errorf("%w: %s (object storage is not configured)", ErrUnsupportedSource, src)
	}
	return p.objectFetcher, nil
}

func (p *Processor) emitter(dst string) (Emitter, error) {
	if !storage.IsObjectURI(dst) {
		return p.localEmitter, nil
	}
	if p.objectEmitter == nil {
		return nil, fmt.Errorf("%w: %s (object storage is not configured)", ErrUnsupportedSource, dst)
	}
	return p.objectEmitter, nil
}

// DefaultOutputPath inserts OutputSuffix before the extension of src, keeping
// the directory. Object URIs keep their bucket.
func DefaultOutputPath(src string) string {
	if storage.IsObjectURI(src) {
		if loc, err := storage.ParseLocation(src); err == nil {
			ext := path.Ext(loc.Key)
			loc.Key = strings.TrimSuffix(loc.Key, ext) + OutputSuffix + ext
			return loc.String()
		}
	}

	ext := filepath.Ext(src)
	stem := strings.TrimSuffix(filepath.Base(src), ext)
	return filepath.Join(filepath.Dir(src), stem+OutputSuffix+ext)
}

type LocalFileFetcher struct{}

func (LocalFileFetcher) Exists(_ context.Context, src string) (bool, error) {
	info, err := os.Stat(src)
	if err == nil {
		return !info.IsDir(), nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat input file %s: %w", src, err)
}

func (LocalFileFetcher) Open(ctx context.Context, src string) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("open input file %s: %w", src, err)
	}
	return f, nil
}

type LocalFileEmitter struct{}

func (LocalFileEmitter) Emit(_ context.Context, dst string, data []byte, _ Format) error {
	if strings.TrimSpace(dst) == "" {
		return errors.New("output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}

type nopObserver struct{}

func (nopObserver) ObserveStep(string, time.Duration, error)     {}
func (nopObserver) ObserveRun(string, time.Duration, int64, int) {}
