package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/perfgo/covfix/cli/toolchain"
	"github.com/perfgo/covfix/fixture"
	"github.com/perfgo/covfix/model"
	"github.com/perfgo/covfix/profile"
	"github.com/perfgo/covfix/report"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const AppName = "covfix"

// cleanArg is the positional argument selecting the clean pass.
const cleanArg = "clean"

type App struct {
	logger   zerolog.Logger
	cli      *cli.App
	runner   toolchain.Runner
	profiles profile.Table
}

// Option configures an App.
type Option func(*App)

// WithLogger replaces the console logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithRunner replaces the subprocess runner used for tool invocations.
func WithRunner(runner toolchain.Runner) Option {
	return func(a *App) {
		a.runner = runner
	}
}

func New(opts ...Option) *App {

	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger :=
		log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
		})

	app := &App{
		logger:   logger,
		profiles: profile.Default(),
	}
	for _, opt := range opts {
		opt(app)
	}
	if app.runner == nil {
		app.runner = toolchain.NewExecRunner(app.logger)
	}

	app.cli = &cli.App{
		Name:            AppName,
		Usage:           "Rebuild gcov coverage fixtures",
		UsageText:       AppName + " [global options] [clean]",
		HideHelpCommand: true,
		Description: `Scans the working directory for fixture directories named <base>.<profile>
and rebuilds those that are not fresh: the source src/<base>.<ext> is compiled
with coverage instrumentation, executed, and run through lcov/genhtml, gcovr
and gcov. With "clean", generated artifacts are removed instead.

Profiles:
  .gcc7    g++-7 --std=c++14 --coverage, gcov-7
  .clang   clang++ --std=c++14 --coverage, gcov
  .rustc   rustc -g -Zprofile, gcov

Variants:
  persistent  build in <fixture>/build and keep it; fresh once build/ exists
  tempdir     build in a temporary directory and move outputs into the
              fixture; fresh once x.gcda exists`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "Enable verbose (debug) logging",
				EnvVars: []string{"COVFIX_VERBOSE"},
			},
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"C"},
				Usage:   "Working directory holding src/ and the fixture directories",
				Value:   ".",
				EnvVars: []string{"COVFIX_DIR"},
			},
			&cli.StringFlag{
				Name:    "variant",
				Usage:   "Artifact layout: persistent or tempdir",
				Value:   string(fixture.Persistent),
				EnvVars: []string{"COVFIX_VARIANT"},
			},
			&cli.StringFlag{
				Name:    "report",
				Usage:   "Write a run report to this path (.json, .yaml or .yml)",
				EnvVars: []string{"COVFIX_REPORT"},
			},
		},
		Before: func(ctx *cli.Context) error {
			if ctx.Bool("verbose") {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			return nil
		},
		Action: app.run,
		// main decides the exit status.
		ExitErrHandler: func(*cli.Context, error) {},
	}
	return app
}

func (a *App) Run(args []string) error {
	return a.cli.Run(args)
}

// RunContext runs the app; cancelling ctx stops the running tool.
func (a *App) RunContext(ctx context.Context, args []string) error {
	return a.cli.RunContext(ctx, args)
}

// SetVersion sets the version information for the CLI application
func (a *App) SetVersion(version, commit, date string) {
	a.cli.Version = version
	if commit != "none" && commit != "" {
		if len(commit) > 8 {
			commit = commit[:8]
		}
		a.cli.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	}
}

// ExitCode returns the process exit status for err: the status of the
// failed tool if err came from one, 1 for any other error.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// -1 means the tool was killed by a signal.
		if code := exitErr.ExitCode(); code > 0 {
			return code
		}
	}
	return 1
}

func (a *App) run(ctx *cli.Context) error {
	startTime := time.Now()

	variant, err := fixture.ParseVariant(ctx.String("variant"))
	if err != nil {
		return err
	}

	root, err := filepath.Abs(ctx.String("dir"))
	if err != nil {
		return fmt.Errorf("failed to resolve working directory: %w", err)
	}

	mode := model.ModeBuild
	if ctx.Args().First() == cleanArg {
		mode = model.ModeClean
	}

	run := &model.Run{
		ID:        uuid.NewString(),
		Mode:      mode,
		Variant:   string(variant),
		Timestamp: startTime,
		WorkDir:   root,
	}

	// Record the report even when the run fails
	reportPath := ctx.String("report")
	var finalErr error
	defer func() {
		if reportPath == "" {
			return
		}
		run.Duration = time.Since(startTime)
		run.ExitCode = ExitCode(finalErr)
		if finalErr != nil {
			run.Error = finalErr.Error()
		}
		if err := report.Write(reportPath, run); err != nil {
			a.logger.Warn().Err(err).Str("path", reportPath).Msg("Failed to write run report")
		} else {
			a.logger.Debug().Str("path", reportPath).Msg("Run report written")
		}
	}()

	builder := fixture.NewBuilder(a.logger, a.runner, variant, a.profiles)

	a.logger.Debug().
		Str("dir", root).
		Str("mode", string(mode)).
		Str("variant", string(variant)).
		Msg("Starting")

	if mode == model.ModeClean {
		run.Removed, finalErr = builder.Clean(root)
		return finalErr
	}

	run.Fixtures, finalErr = builder.Build(ctx.Context, root)
	if finalErr != nil {
		return finalErr
	}

	var rebuilt, fresh int
	for _, r := range run.Fixtures {
		switch r.Status {
		case model.FixtureStatusRebuilt:
			rebuilt++
		case model.FixtureStatusFresh:
			fresh++
		}
	}
	a.logger.Info().
		Int("rebuilt", rebuilt).
		Int("fresh", fresh).
		Dur("duration", time.Since(startTime)).
		Msg("Fixtures up to date")

	return nil
}
