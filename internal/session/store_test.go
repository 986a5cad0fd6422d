package session

import (
	"context"
	"os"
	"testing"

	"go.uber.org/zap"

	"routesync/internal/domain/user"
	"routesync/internal/infrastructure/database/sqlite"
	"routesync/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Logger = zap.NewNop()
	os.Exit(m.Run())
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory cache: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	store, err := NewStore(db)
	if err != nil {
		t.Fatalf("failed to build session store: %v", err)
	}
	return store
}

func TestSessionRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	got, err := store.GetSession(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no session initially, got %+v", got)
	}

	sess := &Session{
		UserID:      "driver-1",
		FleetCode:   "FLT001",
		FleetName:   "North Depot",
		UserName:    "Nguyen Van A",
		VehicleName: "51A-12345",
		Role:        user.RoleDriver,
	}
	if err := store.SetSession(ctx, sess); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err = store.GetSession(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("expected the stored session back")
	}
	if got.UserID != "driver-1" || got.FleetName != "North Depot" || got.Role != user.RoleDriver {
		t.Errorf("unexpected session: %+v", got)
	}
}

func TestSetSessionOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := &Session{UserID: "u1", FleetCode: "FLT001", UserName: "A", Role: user.RoleDriver}
	second := &Session{UserID: "u2", FleetCode: "FLT002", UserName: "B", Role: user.RoleViewer}

	if err := store.SetSession(ctx, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.SetSession(ctx, second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.GetSession(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.UserID != "u2" || got.Role != user.RoleViewer {
		t.Errorf("expected the second session to win, got %+v", got)
	}
}

func TestGetSessionValidity(t *testing.T) {
	tests := []struct {
		name string
		sess Session
		want bool
	}{
		{
			name: "complete session is valid",
			sess: Session{UserID: "u1", FleetCode: "FLT001", UserName: "A", Role: user.RoleDriver},
			want: true,
		},
		{
			name: "missing user id",
			sess: Session{FleetCode: "FLT001", UserName: "A", Role: user.RoleDriver},
			want: false,
		},
		{
			name: "missing user name",
			sess: Session{UserID: "u1", FleetCode: "FLT001", Role: user.RoleDriver},
			want: false,
		},
		{
			name: "missing fleet code",
			sess: Session{UserID: "u1", UserName: "A", Role: user.RoleDriver},
			want: false,
		},
		{
			name: "unparseable role",
			sess: Session{UserID: "u1", FleetCode: "FLT001", UserName: "A", Role: user.Role("ADMIN")},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			ctx := context.Background()

			if err := store.SetSession(ctx, &tt.sess); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got, err := store.GetSession(ctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if (got != nil) != tt.want {
				t.Errorf("GetSession() = %+v, want valid=%v", got, tt.want)
			}
		})
	}
}

func TestGetSessionDefaultsFleetName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess := &Session{UserID: "u1", FleetCode: "FLT001", UserName: "A", Role: user.RoleDriver}
	if err := store.SetSession(ctx, sess); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.GetSession(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.FleetName != "Fleet FLT001" {
		t.Errorf("expected default fleet name, got %+v", got)
	}
}

func TestClearSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess := &Session{UserID: "u1", FleetCode: "FLT001", UserName: "A", Role: user.RoleDriver}
	if err := store.SetSession(ctx, sess); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.ClearSession(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.GetSession(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected no session after clear, got %+v", got)
	}

	// Clearing an empty store is a no-op.
	if err := store.ClearSession(ctx); err != nil {
		t.Errorf("unexpected error clearing twice: %v", err)
	}
}
