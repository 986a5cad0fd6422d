package fleet

import (
	"context"
	"errors"
	"os"
	"testing"

	"go.uber.org/zap"

	domain "routesync/internal/domain/fleet"
	"routesync/internal/domain/user"
	"routesync/internal/logger"
	apperrors "routesync/pkg/errors"
)

func TestMain(m *testing.M) {
	logger.Logger = zap.NewNop()
	os.Exit(m.Run())
}

type fakeFleetRemote struct {
	fleets   map[string]*domain.Fleet
	putErr   error
	getErr   error
	getCalls int
	putCalls int
}

func newFakeFleetRemote() *fakeFleetRemote {
	return &fakeFleetRemote{fleets: make(map[string]*domain.Fleet)}
}

func (f *fakeFleetRemote) PutFleet(ctx context.Context, fl *domain.Fleet) error {
	f.putCalls++
	if f.putErr != nil {
		return f.putErr
	}
	f.fleets[fl.Code] = fl
	return nil
}

func (f *fakeFleetRemote) GetFleet(ctx context.Context, code string) (*domain.Fleet, error) {
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	fl, ok := f.fleets[code]
	if !ok {
		return nil, domain.ErrFleetNotFound
	}
	return fl, nil
}

type fakeFleetLocal struct {
	fleets map[string]*domain.Fleet
}

func newFakeFleetLocal() *fakeFleetLocal {
	return &fakeFleetLocal{fleets: make(map[string]*domain.Fleet)}
}

func (f *fakeFleetLocal) UpsertFleet(ctx context.Context, fl *domain.Fleet) error {
	f.fleets[fl.Code] = fl
	return nil
}

func (f *fakeFleetLocal) GetFleet(ctx context.Context, code string) (*domain.Fleet, error) {
	return f.fleets[code], nil
}

func (f *fakeFleetLocal) DeleteFleet(ctx context.Context, code string) error {
	delete(f.fleets, code)
	return nil
}

type fakeUserRemote struct {
	profiles map[string]*user.UserProfile
	putErr   error
}

func newFakeUserRemote() *fakeUserRemote {
	return &fakeUserRemote{profiles: make(map[string]*user.UserProfile)}
}

func (f *fakeUserRemote) PutProfile(ctx context.Context, p *user.UserProfile) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.profiles[p.ID] = p
	return nil
}

type fakeUserLocal struct {
	profiles map[string]*user.UserProfile
}

func newFakeUserLocal() *fakeUserLocal {
	return &fakeUserLocal{profiles: make(map[string]*user.UserProfile)}
}

func (f *fakeUserLocal) UpsertProfile(ctx context.Context, p *user.UserProfile) error {
	f.profiles[p.ID] = p
	return nil
}

func (f *fakeUserLocal) GetProfile(ctx context.Context, id string) (*user.UserProfile, error) {
	return f.profiles[id], nil
}

type fixture struct {
	fleetRemote *fakeFleetRemote
	fleetLocal  *fakeFleetLocal
	userRemote  *fakeUserRemote
	userLocal   *fakeUserLocal
	svc         *Service
}

func newFixture() *fixture {
	f := &fixture{
		fleetRemote: newFakeFleetRemote(),
		fleetLocal:  newFakeFleetLocal(),
		userRemote:  newFakeUserRemote(),
		userLocal:   newFakeUserLocal(),
	}
	f.svc = NewService(f.fleetRemote, f.fleetLocal, f.userRemote, f.userLocal)
	return f
}

func TestCreateFleet(t *testing.T) {
	t.Run("writes remote then mirrors locally", func(t *testing.T) {
		f := newFixture()

		got, err := f.svc.CreateFleet(context.Background(), "FLT001", "North Depot", "Nguyen Van A")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Code != "FLT001" || got.Name != "North Depot" || got.CreatorName != "Nguyen Van A" {
			t.Errorf("unexpected fleet: %+v", got)
		}
		if got.CreatedAt == 0 {
			t.Error("expected creation timestamp set")
		}
		if f.fleetRemote.fleets["FLT001"] == nil {
			t.Error("expected remote write")
		}
		if f.fleetLocal.fleets["FLT001"] == nil {
			t.Error("expected local mirror")
		}
	})

	t.Run("remote failure leaves local untouched", func(t *testing.T) {
		f := newFixture()
		f.fleetRemote.putErr = errors.New("connection refused")

		_, err := f.svc.CreateFleet(context.Background(), "FLT001", "North Depot", "Nguyen Van A")
		if !errors.Is(err, apperrors.ErrRemoteUnavailable) {
			t.Errorf("expected ErrRemoteUnavailable, got %v", err)
		}
		if len(f.fleetLocal.fleets) != 0 {
			t.Error("expected no local write after remote failure")
		}
	})
}

func TestJoinFleet(t *testing.T) {
	t.Run("reads remote truth and mirrors", func(t *testing.T) {
		f := newFixture()
		f.fleetRemote.fleets["FLT001"] = &domain.Fleet{Code: "FLT001", Name: "North Depot"}

		got, err := f.svc.JoinFleet(context.Background(), "FLT001")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Name != "North Depot" {
			t.Errorf("unexpected fleet: %+v", got)
		}
		if f.fleetLocal.fleets["FLT001"] == nil {
			t.Error("expected the joined fleet mirrored locally")
		}
	})

	t.Run("unknown code surfaces not found", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.JoinFleet(context.Background(), "NOPE")
		if !errors.Is(err, domain.ErrFleetNotFound) {
			t.Errorf("expected ErrFleetNotFound, got %v", err)
		}
	})

	t.Run("remote outage surfaces as unavailable", func(t *testing.T) {
		f := newFixture()
		f.fleetRemote.getErr = errors.New("timeout")

		_, err := f.svc.JoinFleet(context.Background(), "FLT001")
		if !errors.Is(err, apperrors.ErrRemoteUnavailable) {
			t.Errorf("expected ErrRemoteUnavailable, got %v", err)
		}
	})
}

func TestGetFleet(t *testing.T) {
	t.Run("cache hit skips the network", func(t *testing.T) {
		f := newFixture()
		f.fleetLocal.fleets["FLT001"] = &domain.Fleet{Code: "FLT001", Name: "Cached Depot"}

		got, err := f.svc.GetFleet(context.Background(), "FLT001")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Name != "Cached Depot" {
			t.Errorf("expected cached fleet, got %+v", got)
		}
		if f.fleetRemote.getCalls != 0 {
			t.Errorf("expected zero remote calls on a cache hit, got %d", f.fleetRemote.getCalls)
		}
	})

	t.Run("cache miss falls back to remote and writes back", func(t *testing.T) {
		f := newFixture()
		f.fleetRemote.fleets["FLT001"] = &domain.Fleet{Code: "FLT001", Name: "North Depot"}

		got, err := f.svc.GetFleet(context.Background(), "FLT001")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Name != "North Depot" {
			t.Errorf("expected remote fleet, got %+v", got)
		}
		if f.fleetRemote.getCalls != 1 {
			t.Errorf("expected one remote call, got %d", f.fleetRemote.getCalls)
		}

		// The write-back serves the next read without touching the network.
		if _, err := f.svc.GetFleet(context.Background(), "FLT001"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.fleetRemote.getCalls != 1 {
			t.Errorf("expected the second read served from cache, remote calls = %d", f.fleetRemote.getCalls)
		}
	})

	t.Run("missing everywhere returns nil nil", func(t *testing.T) {
		f := newFixture()

		got, err := f.svc.GetFleet(context.Background(), "NOPE")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil fleet, got %+v", got)
		}
	})

	t.Run("remote outage on a miss surfaces as unavailable", func(t *testing.T) {
		f := newFixture()
		f.fleetRemote.getErr = errors.New("timeout")

		_, err := f.svc.GetFleet(context.Background(), "FLT001")
		if !errors.Is(err, apperrors.ErrRemoteUnavailable) {
			t.Errorf("expected ErrRemoteUnavailable, got %v", err)
		}
	})
}

func TestSaveUserProfile(t *testing.T) {
	profile := &user.UserProfile{
		ID:        "driver-1",
		Name:      "Nguyen Van A",
		FleetCode: "FLT001",
		Role:      user.RoleDriver,
		Vehicle:   "51A-12345",
	}

	t.Run("writes remote then mirrors locally", func(t *testing.T) {
		f := newFixture()

		if err := f.svc.SaveUserProfile(context.Background(), profile); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.userRemote.profiles["driver-1"] == nil {
			t.Error("expected remote write")
		}
		if f.userLocal.profiles["driver-1"] == nil {
			t.Error("expected local mirror")
		}

		got, err := f.svc.GetUserProfile(context.Background(), "driver-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == nil || got.Role != user.RoleDriver {
			t.Errorf("expected the mirrored profile back, got %+v", got)
		}
	})

	t.Run("remote failure leaves local untouched", func(t *testing.T) {
		f := newFixture()
		f.userRemote.putErr = errors.New("connection refused")

		err := f.svc.SaveUserProfile(context.Background(), profile)
		if !errors.Is(err, apperrors.ErrRemoteUnavailable) {
			t.Errorf("expected ErrRemoteUnavailable, got %v", err)
		}
		if len(f.userLocal.profiles) != 0 {
			t.Error("expected no local write after remote failure")
		}
	})
}
