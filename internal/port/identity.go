package port

import (
	"context"

	"github.com/woodhaven/storefront/internal/core/domain"
)

// IdentityResolver is the external auth collaborator. It maps an opaque
// session token to the acting identity, or nil when unauthenticated.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*domain.Actor, error)
}
