package ports

import "context"

// AttachmentResolver turns a locally staged file into a durable URL.
// Implementations must never fail task creation: on error the caller records
// a nil attachment. The staged file is removed by the caller regardless of
// outcome.
type AttachmentResolver interface {
	Resolve(ctx context.Context, localPath string) (string, error)
}
