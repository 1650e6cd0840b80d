package driven

import "context"

// DocumentSource reads the raw knowledge document. There is exactly one
// document per process; its absence is a fatal startup error, not a
// runtime condition the core recovers from.
type DocumentSource interface {
	// Read returns the full document text.
	Read(ctx context.Context) (string, error)

	// Name identifies the source for logs (typically a file path).
	Name() string
}
