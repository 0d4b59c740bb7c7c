package ports

import "context"

// Contract for caching encoded solve reports by request key.
type ReportCache interface {
	// Return the cached payload; ok is false on a miss.
	Get(ctx context.Context, key string) (payload []byte, ok bool, err error)
	// Store the payload under key.
	Set(ctx context.Context, key string, payload []byte) error
}
