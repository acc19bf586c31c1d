package profile

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

type settings struct {
	dir   string
	quiet bool
}

// Option configures a profiling session.
type Option func(*settings)

// WithDir sets the directory profiles are written to. The profiler picks a
// temporary directory when dir is empty.
func WithDir(dir string) Option {
	return func(s *settings) { s.dir = dir }
}

// WithQuiet suppresses the profiler's own start and stop messages.
func WithQuiet(quiet bool) Option {
	return func(s *settings) { s.quiet = quiet }
}

// Start begins profiling in the given mode, one of [Modes]. An empty or
// unsupported mode, or a binary built without the pprof tag, yields a no-op
// session. Stop is always safe to call.
func Start(mode string, opts ...Option) Stopper {
	if mode == "" {
		return noop{}
	}

	var s settings
	for _, opt := range opts {
		opt(&s)
	}

	return start(mode, s)
}

type noop struct{}

func (noop) Stop() {}
