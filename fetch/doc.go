// Package fetch downloads and cleans long-form content for the research
// pipeline: README files of repositories found by search, and the main text
// of competitor pages.
//
// Both fetchers are best-effort. A failed, slow or too-short entry is logged
// and left out; it never fails the batch. PageFetcher races its downloads
// and stops once enough usable pages have arrived.
package fetch
