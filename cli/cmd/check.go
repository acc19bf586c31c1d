package cmd

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/ardnew/benchdl/bench"
	"github.com/ardnew/benchdl/diag"
	"github.com/ardnew/benchdl/log"
)

// Check lints bench files and bare scripts.
type Check struct {
	Files  []string `arg:"" default:"-" help:"Bench files (YAML/JSON), scripts, or '-' for stdin." name:"file"`
	Where  string   `help:"Report only diagnostics matching this expr-lang expression." placeholder:"EXPR" short:"w"`
	Jobs   int      `default:"0" help:"Files checked concurrently (0 uses every CPU)." short:"j"`
	Strict bool     `help:"Fail on warnings as well as errors."`
	Watch  bool     `help:"Re-check files whenever they change." short:"W"`
}

// report is the outcome of checking one file.
type report struct {
	path   string
	source string
	ds     []diag.Diagnostic
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	filter, err := diag.NewFilter(c.Where)
	if err != nil {
		return ErrInvalidFilter.Wrap(err)
	}

	checker := newChecker()
	paths := uniquePaths(c.Files)

	failed, err := c.checkAll(ctx, checker, filter, paths)
	if err != nil {
		return err
	}

	if c.Watch {
		return c.watch(ctx, checker, filter, paths)
	}

	if failed > 0 {
		return ErrCheckFailed.With(
			slog.Int("failed", failed),
			slog.Int("files", len(paths)),
		)
	}

	return nil
}

// checkAll checks paths concurrently, then renders the reports in path
// order. It returns the number of files that fail.
func (c *Check) checkAll(
	ctx context.Context,
	checker *bench.Checker,
	filter diag.Filter,
	paths []string,
) (int, error) {
	reports := make([]report, len(paths))

	jobs := c.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, path := range paths {
		g.Go(func() error {
			r, err := checkFile(gctx, checker, filter, path)
			reports[i] = r

			return err
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	out := outputFrom(ctx)
	color := colorFrom(ctx).Enabled(out)
	failed := 0

	for _, r := range reports {
		if c.fails(r.ds) {
			failed++
		}

		err := diag.Render(out, r.ds, diag.RenderOptions{
			File:   displayName(r.path),
			Source: r.source,
			Color:  color,
		})
		if err != nil {
			return failed, err
		}
	}

	return failed, nil
}

// fails reports whether ds fails the check.
func (c *Check) fails(ds []diag.Diagnostic) bool {
	if c.Strict {
		return len(ds) > 0
	}

	return diag.Count(ds, diag.Danger) > 0
}

// checkFile loads and checks a single file. A file that cannot be loaded is
// reported as a danger diagnostic rather than an error so the remaining
// files are still checked.
func checkFile(
	ctx context.Context,
	checker *bench.Checker,
	filter diag.Filter,
	path string,
) (report, error) {
	r := report{path: path}

	b, err := bench.Load(ctx, path)
	if err != nil {
		log.DebugContext(ctx, "load failed",
			slog.String("path", path),
			slog.Any("error", err))

		r.ds = []diag.Diagnostic{diag.Dangerf("%v", err)}

		return r, nil
	}

	r.source = b.ScriptBody

	r.ds, err = filter.Apply(checker.GetErrors(ctx, b))
	if err != nil {
		return r, ErrInvalidFilter.Wrap(err)
	}

	log.DebugContext(ctx, "checked",
		slog.String("path", path),
		slog.Int("diagnostics", len(r.ds)))

	return r, nil
}

// watch re-checks a file every time it is written until ctx is done. The
// parent directories are watched so that editors which replace files on save
// are followed.
func (c *Check) watch(
	ctx context.Context,
	checker *bench.Checker,
	filter diag.Filter,
	paths []string,
) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return ErrWatch.Wrap(err)
	}
	defer w.Close()

	targets := make(map[string]string, len(paths))
	dirs := make(map[string]bool)

	for _, path := range paths {
		if path == bench.Stdin {
			continue
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			return ErrWatch.Wrap(err).With(slog.String("path", path))
		}

		targets[abs] = path
		dirs[filepath.Dir(abs)] = true
	}

	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return ErrWatch.Wrap(err).With(slog.String("dir", dir))
		}
	}

	log.InfoContext(ctx, "watching for changes",
		slog.Int("files", len(targets)))

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			path, ok := targets[filepath.Clean(ev.Name)]
			if !ok || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}

			if _, err := c.checkAll(ctx, checker, filter, []string{path}); err != nil {
				return err
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}

			log.WarnContext(ctx, "watch error", slog.Any("error", err))
		}
	}
}
