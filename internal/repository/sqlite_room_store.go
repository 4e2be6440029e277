package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/clementine-bot/clementine/internal/domain"
)

type SQLiteRoomStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRoomStore(db *sql.DB) *SQLiteRoomStore {
	return &SQLiteRoomStore{db: db, now: utcNow}
}

func (s *SQLiteRoomStore) Get(ctx context.Context, roomID string) (*domain.RoomOverride, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+getRoomColumns+` FROM room_configs WHERE room_id = ?`, roomID)

	o, err := scanSQLiteRoom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get room config %s: %w", roomID, err)
	}
	return &o, nil
}

func (s *SQLiteRoomStore) Save(ctx context.Context, roomID string, patch domain.RoomOverridePatch) error {
	now := s.now().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO room_configs (room_id, assistant_list, system_prompt, context_window_size, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(room_id) DO UPDATE SET
			assistant_list      = COALESCE(excluded.assistant_list, room_configs.assistant_list),
			system_prompt       = COALESCE(excluded.system_prompt, room_configs.system_prompt),
			context_window_size = COALESCE(excluded.context_window_size, room_configs.context_window_size),
			updated_at          = excluded.updated_at`,
		roomID, nullString(patch.AssistantList), nullString(patch.SystemPrompt), nullInt(patch.ContextWindowSize), now, now)
	if err != nil {
		return fmt.Errorf("save room config %s: %w", roomID, err)
	}
	return nil
}

func (s *SQLiteRoomStore) Delete(ctx context.Context, roomID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM room_configs WHERE room_id = ?`, roomID)
	if err != nil {
		return false, fmt.Errorf("delete room config %s: %w", roomID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete room config %s: %w", roomID, err)
	}
	return n > 0, nil
}

func (s *SQLiteRoomStore) List(ctx context.Context) (map[string]domain.RoomOverride, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+getRoomColumns+` FROM room_configs ORDER BY room_id`)
	if err != nil {
		return nil, fmt.Errorf("list room configs: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.RoomOverride)
	for rows.Next() {
		o, err := scanSQLiteRoom(rows)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteRoom(row rowScanner) (domain.RoomOverride, error) {
	var (
		o                    domain.RoomOverride
		assistants, prompt   sql.NullString
		window               sql.NullInt64
		createdAt, updatedAt string
	)
	if err := row.Scan(&o.RoomID, &assistants, &prompt, &window, &createdAt, &updatedAt); err != nil {
		return o, err
	}
	if assistants.Valid {
		o.AssistantList = &assistants.String
	}
	if prompt.Valid {
		o.SystemPrompt = &prompt.String
	}
	if window.Valid {
		n := int(window.Int64)
		o.ContextWindowSize = &n
	}
	var err error
	if o.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return o, fmt.Errorf("parse created_at: %w", err)
	}
	if o.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return o, fmt.Errorf("parse updated_at: %w", err)
	}
	return o, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}
