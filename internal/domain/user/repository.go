package user

import "context"

// RemoteStore persists profiles under their fleet in the store of record.
type RemoteStore interface {
	PutProfile(ctx context.Context, p *UserProfile) error
}

// LocalStore mirrors profiles on device. Profiles cascade away with their fleet.
type LocalStore interface {
	UpsertProfile(ctx context.Context, p *UserProfile) error
	// GetProfile returns (nil, nil) when the profile is not cached.
	GetProfile(ctx context.Context, id string) (*UserProfile, error)
}
