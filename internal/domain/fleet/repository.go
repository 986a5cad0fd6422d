package fleet

import "context"

// Repository is the fleet repository contract consumed by the delivery layer.
// Reads are local-first with remote fallback; writes go remote first, then
// mirror into the local cache.
type Repository interface {
	CreateFleet(ctx context.Context, code, name, creatorName string) (*Fleet, error)
	JoinFleet(ctx context.Context, code string) (*Fleet, error)
	GetFleet(ctx context.Context, code string) (*Fleet, error)
}

// RemoteStore is the authoritative networked store for fleets.
type RemoteStore interface {
	PutFleet(ctx context.Context, f *Fleet) error
	// GetFleet returns ErrFleetNotFound when no fleet exists for the code.
	GetFleet(ctx context.Context, code string) (*Fleet, error)
}

// LocalStore is the on-device durable mirror for fleets.
type LocalStore interface {
	UpsertFleet(ctx context.Context, f *Fleet) error
	// GetFleet returns (nil, nil) on a cache miss.
	GetFleet(ctx context.Context, code string) (*Fleet, error)
	DeleteFleet(ctx context.Context, code string) error
}
