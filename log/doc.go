// Package log provides leveled structured logging on top of [log/slog].
//
// A zero [Logger] discards everything, so library types such as the benchDL
// parser and checker hold one by value and only log when a caller supplies a
// configured logger through an option.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("Kitchen"),
//		log.WithCaller(true))
//
//	logger.InfoContext(ctx, "bench loaded", slog.String("file", path))
//
// The package-level logger is adjusted with [Config] and read with
// [Default]. The command line configures it from the --log-* flags.
//
// [LevelTrace] sits below slog's debug level and is used for per-parse and
// per-analysis events.
//
// [FormatText] (default) and [FormatJSON] are supported. With [WithPretty],
// text is styled for the terminal and JSON is indented.
package log
