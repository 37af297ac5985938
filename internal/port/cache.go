package port

import "context"

type Cache interface {
	// PutIdempotency sets a key for idempotency check, returns false if already exists
	PutIdempotency(ctx context.Context, key string) (bool, error)
}
