package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/bbernstein/precipexport/internal/archive"
	"github.com/bbernstein/precipexport/internal/cache"
	"github.com/bbernstein/precipexport/internal/config"
	"github.com/bbernstein/precipexport/internal/export"
	"github.com/bbernstein/precipexport/internal/form"
	"github.com/bbernstein/precipexport/internal/models"
	"github.com/bbernstein/precipexport/internal/precip"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	exitOK          = 0
	exitFailed      = 1
	exitUsage       = 2
	exitInterrupted = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	station     string
	latitude    string
	longitude   string
	model       string
	scenario    string
	startYear   string
	endYear     string
	dailyDir    string
	monthlyDir  string
	listModels  bool
	interactive bool
	complete    bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("precipexport", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.station, "station", "", "station name")
	fs.StringVar(&opts.latitude, "lat", "", "latitude in decimal degrees")
	fs.StringVar(&opts.longitude, "lon", "", "longitude in decimal degrees")
	fs.StringVar(&opts.model, "model", "", "climate model name (see -list-models)")
	fs.StringVar(&opts.scenario, "scenario", "", "scenario: historical, ssp245 or ssp585")
	fs.StringVar(&opts.startYear, "start", "", fmt.Sprintf("start year (%d-%d)", models.MinYear, models.MaxYear))
	fs.StringVar(&opts.endYear, "end", "", fmt.Sprintf("end year (%d-%d)", models.MinYear, models.MaxYear))
	fs.StringVar(&opts.dailyDir, "daily-dir", "", "output folder for daily data")
	fs.StringVar(&opts.monthlyDir, "monthly-dir", "", "output folder for monthly data")
	fs.BoolVar(&opts.listModels, "list-models", false, "print the available climate models and exit")
	fs.BoolVar(&opts.interactive, "interactive", true, "prompt for missing values")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	opts.complete = true
	for _, name := range []string{"station", "lat", "lon", "model", "scenario", "start", "end", "daily-dir", "monthly-dir"} {
		if !set[name] {
			opts.complete = false
			break
		}
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if opts.listModels {
		for _, m := range models.ClimateModels() {
			fmt.Fprintln(stdout, m)
		}
		return exitOK
	}

	if err := config.LoadEnvFile(envFilePath()); err != nil {
		fmt.Fprintf(stderr, "loading environment file: %v\n", err)
		return exitFailed
	}
	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()
	log.Info().Str("env", cfg.Environment).Msg("Environment")

	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize exporter")
		return exitFailed
	}

	pane := export.MultiReporter{
		export.NewWriterReporter(stdout),
		export.NewLogReporter(log.Logger, zerolog.DebugLevel),
	}
	term := form.NewTerminal(stdin, stdout, stderr)
	f := form.New(exporter, term, term, pane)
	prefill(f, opts)

	if opts.complete || !opts.interactive {
		return submitOnce(ctx, f)
	}

	if err := term.Run(ctx, f); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info().Msg("Interrupted")
			return exitInterrupted
		}
		log.Error().Err(err).Msg("Reading input failed")
		return exitFailed
	}
	return exitOK
}

func envFilePath() string {
	if path, ok := os.LookupEnv("ENV_FILE_PATH"); ok {
		return path
	}
	return ".env"
}

func newExporter(ctx context.Context, cfg *config.Config) (*export.Exporter, error) {
	source, err := cache.WrapSource(precip.NewStubSource(), cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("creating series cache: %w", err)
	}

	var exportOpts []export.Option
	if cfg.Archive.Enabled() {
		client, err := archive.NewS3Client(ctx, cfg.Archive)
		if err != nil {
			return nil, fmt.Errorf("creating S3 client: %w", err)
		}
		exportOpts = append(exportOpts, export.WithArchiver(archive.NewS3Archiver(client, cfg.Archive.Bucket, cfg.Archive.Prefix)))
		log.Info().Str("bucket", cfg.Archive.Bucket).Str("prefix", cfg.Archive.Prefix).Msg("Archiving enabled")
	}

	return export.NewExporter(source, exportOpts...), nil
}

func prefill(f *form.Form, opts *options) {
	f.Station = opts.station
	f.Latitude = opts.latitude
	f.Longitude = opts.longitude
	f.Model = opts.model
	f.Scenario = opts.scenario
	f.StartYear = opts.startYear
	f.EndYear = opts.endYear
	if opts.dailyDir != "" {
		f.SetDailyFolder(opts.dailyDir)
	}
	if opts.monthlyDir != "" {
		f.SetMonthlyFolder(opts.monthlyDir)
	}
}

// submitOnce treats a partially written export as a failure.
func submitOnce(ctx context.Context, f *form.Form) int {
	result, err := f.Submit(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return exitInterrupted
		}
		return exitFailed
	}
	if err := result.Err(); err != nil {
		log.Error().Err(err).Str("run_id", result.RunID).Msg("Export incomplete")
		return exitFailed
	}
	return exitOK
}
