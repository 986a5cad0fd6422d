package fleet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	domain "routesync/internal/domain/fleet"
	"routesync/internal/domain/user"
	"routesync/internal/logger"
	apperrors "routesync/pkg/errors"
)

// Service is the fleet/profile repository: dual writes remote-then-local and
// a local-first read-through for fleet lookups.
type Service struct {
	fleetRemote domain.RemoteStore
	fleetLocal  domain.LocalStore
	userRemote  user.RemoteStore
	userLocal   user.LocalStore
}

var _ domain.Repository = (*Service)(nil)

func NewService(
	fleetRemote domain.RemoteStore,
	fleetLocal domain.LocalStore,
	userRemote user.RemoteStore,
	userLocal user.LocalStore,
) *Service {
	return &Service{
		fleetRemote: fleetRemote,
		fleetLocal:  fleetLocal,
		userRemote:  userRemote,
		userLocal:   userLocal,
	}
}

// CreateFleet writes the fleet document remotely, then mirrors it locally.
// There is no existence pre-check: a colliding code is last-writer-wins, and
// collision avoidance belongs to the code generator upstream.
func (s *Service) CreateFleet(ctx context.Context, code, name, creatorName string) (*domain.Fleet, error) {
	f := &domain.Fleet{
		Code:        code,
		Name:        name,
		CreatorName: creatorName,
		CreatedAt:   time.Now().UnixMilli(),
	}

	if err := s.fleetRemote.PutFleet(ctx, f); err != nil {
		return nil, apperrors.Remote("create fleet", err)
	}

	if err := s.fleetLocal.UpsertFleet(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to mirror fleet locally: %w", err)
	}

	logger.Info("Fleet created",
		zap.String("fleet_code", code),
		zap.String("fleet_name", name),
	)

	return f, nil
}

// JoinFleet reads the fleet from the remote store so a join always reflects
// current remote truth, then mirrors it into the local cache.
func (s *Service) JoinFleet(ctx context.Context, code string) (*domain.Fleet, error) {
	f, err := s.fleetRemote.GetFleet(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrFleetNotFound) {
			return nil, err
		}
		return nil, apperrors.Remote("join fleet", err)
	}

	if err := s.fleetLocal.UpsertFleet(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to mirror fleet locally: %w", err)
	}

	logger.Info("Fleet joined", zap.String("fleet_code", code))

	return f, nil
}

// GetFleet is local-first: a cache hit returns immediately without touching
// the network. On a miss the remote store is consulted and the result written
// back. (nil, nil) means the fleet exists nowhere.
func (s *Service) GetFleet(ctx context.Context, code string) (*domain.Fleet, error) {
	local, err := s.fleetLocal.GetFleet(ctx, code)
	if err != nil {
		return nil, err
	}
	if local != nil {
		return local, nil
	}

	remote, err := s.fleetRemote.GetFleet(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrFleetNotFound) {
			return nil, nil
		}
		return nil, apperrors.Remote("get fleet", err)
	}

	if err := s.fleetLocal.UpsertFleet(ctx, remote); err != nil {
		return nil, fmt.Errorf("failed to mirror fleet locally: %w", err)
	}

	return remote, nil
}

// SaveUserProfile writes the member profile under its fleet remotely, then
// mirrors it locally.
func (s *Service) SaveUserProfile(ctx context.Context, p *user.UserProfile) error {
	if err := s.userRemote.PutProfile(ctx, p); err != nil {
		return apperrors.Remote("save user profile", err)
	}

	if err := s.userLocal.UpsertProfile(ctx, p); err != nil {
		return fmt.Errorf("failed to mirror user profile locally: %w", err)
	}

	logger.Info("User profile saved",
		zap.String("user_id", p.ID),
		zap.String("fleet_code", p.FleetCode),
		zap.String("role", string(p.Role)),
	)

	return nil
}

// GetUserProfile reads from the local cache only.
func (s *Service) GetUserProfile(ctx context.Context, id string) (*user.UserProfile, error) {
	return s.userLocal.GetProfile(ctx, id)
}
