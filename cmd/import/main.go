package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"slices"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/jonboulle/clockwork"
	"github.com/urfave/cli/v2"

	"github.com/pscheid92/prizeintervals/internal/adapter/memory"
	"github.com/pscheid92/prizeintervals/internal/adapter/postgres"
	"github.com/pscheid92/prizeintervals/internal/adapter/redis"
	"github.com/pscheid92/prizeintervals/internal/app"
	"github.com/pscheid92/prizeintervals/internal/domain"
	"github.com/pscheid92/prizeintervals/internal/movielist"
	"github.com/pscheid92/prizeintervals/internal/platform/logging"
	"github.com/pscheid92/prizeintervals/internal/platform/version"
)

const runTimeout = 5 * time.Minute

type options struct {
	file        string
	databaseURL string
	redisURL    string
	replace     bool
	splitAnd    bool
	dryRun      bool
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "import",
		Usage:     "Load a movie list into the prize intervals database",
		UsageText: "import [options] --file movielist.csv",
		Version:   version.Version,
		Writer:    out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Movie list CSV, or a glob such as data/**/*.csv",
				EnvVars:  []string{"MOVIE_LIST_PATH"},
				Required: true,
			},
			&cli.StringFlag{
				Name:    "database",
				Aliases: []string{"d"},
				Usage:   "PostgreSQL URL",
				EnvVars: []string{"DATABASE_URL"},
			},
			&cli.StringFlag{
				Name:    "redis",
				Usage:   "Redis URL whose interval cache is invalidated after the import",
				EnvVars: []string{"REDIS_URL"},
			},
			&cli.BoolFlag{
				Name:  "replace",
				Usage: "Replace the stored movie list instead of appending",
			},
			&cli.BoolFlag{
				Name:    "split-and",
				Usage:   "Also split producer credits on \" and \"",
				EnvVars: []string{"PRODUCER_SPLIT_AND"},
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Parse and report without writing to the database",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Verbose logging",
			},
		},
		Action: func(cCtx *cli.Context) error {
			opts := options{
				file:        cCtx.String("file"),
				databaseURL: cCtx.String("database"),
				redisURL:    cCtx.String("redis"),
				replace:     cCtx.Bool("replace"),
				splitAnd:    cCtx.Bool("split-and"),
				dryRun:      cCtx.Bool("dry-run"),
			}
			if opts.databaseURL == "" && !opts.dryRun {
				return errors.New("database URL required (--database or DATABASE_URL env) unless --dry-run is set")
			}

			level := "info"
			if cCtx.Bool("verbose") {
				level = "debug"
			}
			slog.SetDefault(logging.New(os.Stderr, level, "text"))

			ctx, cancel := context.WithTimeout(cCtx.Context, runTimeout)
			defer cancel()

			return run(ctx, opts, cCtx.App.Writer)
		},
	}
}

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Import failed: %s\n", err)
		os.Exit(1)
	}
}

// run imports every file matching opts.file and writes one JSON import
// report per file to out. With opts.replace only the first file replaces the
// stored list; the rest are appended to it.
func run(ctx context.Context, opts options, out io.Writer) error {
	files, err := doublestar.FilepathGlob(opts.file)
	if err != nil {
		return fmt.Errorf("invalid file pattern %q: %w", opts.file, err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no movie list matches %q", opts.file)
	}
	slices.Sort(files)

	var (
		movies domain.MovieRepository = memory.NewMovieRepo()
		cache  domain.IntervalCache
	)

	if !opts.dryRun {
		pool, err := postgres.Connect(ctx, opts.databaseURL, nil)
		if err != nil {
			return err
		}
		defer pool.Close()
		slog.Info("Connected to database", "url", sanitizeURL(opts.databaseURL))

		if err := postgres.RunMigrationsWithLock(ctx, pool); err != nil {
			return err
		}
		movies = postgres.NewMovieRepo(pool)

		if opts.redisURL != "" {
			rdb, err := redis.NewClient(ctx, opts.redisURL)
			if err != nil {
				return err
			}
			defer func() { _ = rdb.Close() }()
			slog.Info("Connected to Redis", "url", sanitizeURL(opts.redisURL))

			cache = redis.NewIntervalCache(rdb, 0)
		}
	}

	svc := app.NewService(movies, cache, nil, clockwork.NewRealClock(), movielist.Options{SplitConjunction: opts.splitAnd})
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	mode := domain.ImportAppend
	if opts.replace {
		mode = domain.ImportReplace
	}
	for _, file := range files {
		report, err := svc.ImportFile(ctx, file, mode)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		slog.Debug("Imported movie list", "file", file, "import_id", report.ID.String())

		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		mode = domain.ImportAppend
	}
	return nil
}

// sanitizeURL hides the password of a connection URL for logging.
func sanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}
