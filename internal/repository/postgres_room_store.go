package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clementine-bot/clementine/internal/domain"
)

type PostgresRoomStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewPostgresRoomStore(pool *pgxpool.Pool) *PostgresRoomStore {
	return &PostgresRoomStore{pool: pool, now: utcNow}
}

func (s *PostgresRoomStore) Get(ctx context.Context, roomID string) (*domain.RoomOverride, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+getRoomColumns+` FROM room_configs WHERE room_id = $1`, roomID)

	o, err := scanPostgresRoom(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get room config %s: %w", roomID, err)
	}
	return &o, nil
}

func (s *PostgresRoomStore) Save(ctx context.Context, roomID string, patch domain.RoomOverridePatch) error {
	now := s.now()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO room_configs (room_id, assistant_list, system_prompt, context_window_size, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (room_id) DO UPDATE SET
			assistant_list      = COALESCE(EXCLUDED.assistant_list, room_configs.assistant_list),
			system_prompt       = COALESCE(EXCLUDED.system_prompt, room_configs.system_prompt),
			context_window_size = COALESCE(EXCLUDED.context_window_size, room_configs.context_window_size),
			updated_at          = EXCLUDED.updated_at`,
		roomID, patch.AssistantList, patch.SystemPrompt, patch.ContextWindowSize, now)
	if err != nil {
		return fmt.Errorf("save room config %s: %w", roomID, err)
	}
	return nil
}

func (s *PostgresRoomStore) Delete(ctx context.Context, roomID string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM room_configs WHERE room_id = $1`, roomID)
	if err != nil {
		return false, fmt.Errorf("delete room config %s: %w", roomID, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresRoomStore) List(ctx context.Context) (map[string]domain.RoomOverride, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+getRoomColumns+` FROM room_configs ORDER BY room_id`)
	if err != nil {
		return nil, fmt.Errorf("list room configs: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.RoomOverride)
	for rows.Next() {
		o, err := scanPostgresRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scan room config: %w", err)
		}
		out[o.RoomID] = o
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list room configs: %w", err)
	}
	return out, nil
}

func scanPostgresRoom(row pgx.Row) (domain.RoomOverride, error) {
	var o domain.RoomOverride
	err := row.Scan(&o.RoomID, &o.AssistantList, &o.SystemPrompt, &o.ContextWindowSize, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}
