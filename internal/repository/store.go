package repository

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/clementine-bot/clementine/internal/domain"
)

// RoomConfigStore persists per-room overrides. Save merges field by field:
// a nil patch field keeps whatever is stored.
type RoomConfigStore interface {
	Get(ctx context.Context, roomID string) (*domain.RoomOverride, error)
	Save(ctx context.Context, roomID string, patch domain.RoomOverridePatch) error
	Delete(ctx context.Context, roomID string) (bool, error)
	List(ctx context.Context) (map[string]domain.RoomOverride, error)
}

const getRoomColumns = `room_id, assistant_list, system_prompt, context_window_size, created_at, updated_at`

// IsPostgresURL reports whether databaseURL selects the Postgres backend.
func IsPostgresURL(databaseURL string) bool {
	return strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://")
}

// Open migrates and opens the store selected by databaseURL. migrationsFS
// must contain postgres/ and sqlite/ directories. The returned func releases
// the underlying connections.
func Open(ctx context.Context, databaseURL string, migrationsFS fs.FS) (RoomConfigStore, func(), error) {
	if IsPostgresURL(databaseURL) {
		sub, err := fs.Sub(migrationsFS, "postgres")
		if err != nil {
			return nil, nil, fmt.Errorf("load postgres migrations: %w", err)
		}
		if err := RunMigrations(databaseURL, sub); err != nil {
			return nil, nil, err
		}
		pool, err := NewPool(ctx, databaseURL)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("room config store ready", "backend", "postgres")
		return NewPostgresRoomStore(pool), pool.Close, nil
	}

	sub, err := fs.Sub(migrationsFS, "sqlite")
	if err != nil {
		return nil, nil, fmt.Errorf("load sqlite migrations: %w", err)
	}
	if err := RunMigrations("sqlite3://"+databaseURL, sub); err != nil {
		return nil, nil, err
	}
	db, err := OpenSQLite(ctx, databaseURL)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("room config store ready", "backend", "sqlite", "path", databaseURL)
	return NewSQLiteRoomStore(db), func() { db.Close() }, nil
}

func utcNow() time.Time {
	return time.Now().UTC()
}
