package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dunamismax/pixelcraft/internal/domain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	GitCommit = "unknown"
)

const (
	ExitOK      = 0
	ExitFailure = 1
)

// Runner executes transformation requests.
type Runner interface {
	SourceExists(ctx context.Context, src string) (bool, error)
	Run(ctx context.Context, src, dst string, req domain.TransformRequest) (string, error)
}

type App struct {
	Runner Runner
	Logger *zap.Logger
}

type options struct {
	output        string
	blackWhite    bool
	watermarkText string
	degrees       float64
	direction     domain.Direction
}

// Run executes the command line in args and returns the process exit code.
func Run(ctx context.Context, app App, args []string, stdout, stderr io.Writer) int {
	if args == nil {
		args = []string{}
	}

	cmd := NewCommand(app)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitFailure
	}
	return ExitOK
}

func NewCommand(app App) *cobra.Command {
	if app.Logger == nil {
		app.Logger = zap.NewNop()
	}

	opts := options{direction: domain.DirectionRight}

	cmd := &cobra.Command{
		Use:           "pixelcraft <image>",
		Short:         "Simple CLI for common image transformations.",
		Long:          "Apply one or more transformations to an image in a single pass.\n\nTransformations always run in the order watermark, rotate, black-white.",
		Args:          cobra.MaximumNArgs(1),
		Version:       fmt.Sprintf("%s (commit %s)", Version, GitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return transform(cmd, app, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "", "Destination path for the transformed image.")
	flags.BoolVar(&opts.blackWhite, "black-white", false, "Convert the image to black and white.")
	flags.StringVarP(&opts.watermarkText, "watermark-text", "w", "", "Text content for the watermark.")
	flags.Float64Var(&opts.degrees, "rotate-degrees", 0, "Number of degrees to rotate the image.")
	flags.Var((*directionValue)(&opts.direction), "rotate-direction", "Rotate right (clockwise) or left (counter-clockwise) when rotation is used.")

	return cmd
}

func transform(cmd *cobra.Command, app App, image string, opts options) error {
	ctx := cmd.Context()
	flags := cmd.Flags()
	out := cmd.OutOrStdout()

	exists, err := app.Runner.SourceExists(ctx, image)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInputPath, image)
	}

	req := domain.TransformRequest{Grayscale: opts.blackWhite}
	if flags.Changed("watermark-text") {
		req.Watermark = &domain.Watermark{Text: opts.watermarkText}
	}
	if flags.Changed("rotate-degrees") {
		req.Rotation = &domain.Rotation{Degrees: opts.degrees, Direction: opts.direction}
	}

	if err := req.Validate(); err != nil {
		return unwrapInvalid(err)
	}
	if req.Empty() {
		fmt.Fprintf(out, "Warning: %s.\n", domain.ErrNoTransformationRequested)
		return nil
	}

	destination, err := app.Runner.Run(ctx, image, opts.output, req)
	if err != nil {
		app.Logger.Debug("transform failed", zap.String("image", image), zap.Error(err))
		return err
	}

	fmt.Fprintf(out, "Saved transformed image to %s\n", destination)
	return nil
}

// unwrapInvalid strips the generic invalid-request prefix so users see the
// specific reason only.
func unwrapInvalid(err error) error {
	for _, kind := range []error{
		domain.ErrEmptyWatermarkText,
		domain.ErrNegativeRotationDegrees,
		domain.ErrNonFiniteRotationDegrees,
		domain.ErrInvalidDirection,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return err
}

type directionValue domain.Direction

func (d *directionValue) String() string {
	return string(*d)
}

func (d *directionValue) Set(s string) error {
	dir, err := domain.ParseDirection(s)
	if err != nil {
		return err
	}
	*d = directionValue(dir)
	return nil
}

func (d *directionValue) Type() string {
	return "left|right"
}
