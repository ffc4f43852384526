// Package log provides the leveled logging interface used by the research
// pipeline and its collaborators.
//
// The default logger is backed by github.com/kataras/golog and writes to
// stderr at LogLevelInfo. Components receive a Logger through their options
// and tag their lines with a bracketed component prefix:
//
//	logger := log.NewDefaultLogger(log.ParseLevel(os.Getenv("LOG_LEVEL")))
//	fetcher := fetch.NewPageFetcher(fetch.PageOptions{Logger: log.Prefixed(logger, "[Fetcher] ")})
//
// Use NoOpLogger in tests or when the embedding application does its own
// logging.
package log
