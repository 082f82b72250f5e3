package ports

import (
	"context"

	"github.com/aretw0/megaverse/pkg/domain"
)

// Dispatcher delivers entity-creation requests to the map service.
type Dispatcher interface {
	// Deliver performs the creation call, retrying transient failures.
	// A request that exhausts its retry budget yields an error wrapping domain.ErrDeliveryFailed.
	// Deliver blocks until the request succeeds, is abandoned, or ctx is done.
	Deliver(ctx context.Context, req domain.CreationRequest) (*domain.Receipt, error)
}
