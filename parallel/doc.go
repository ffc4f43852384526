// Package parallel holds the small concurrency helpers shared by the graph
// engine and the content fetchers: SafeGo for panic-safe goroutines and
// FirstN for "first N of M" races with bounded concurrency.
package parallel
