package database

import (
	"context"
	"database/sql"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// GetSetting returns the stored value for key and whether it exists.
func GetSetting(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := DB.GetContext(ctx, &value, `SELECT value FROM settings WHERE key = ?;`, key)
	if err == sql.ErrNoRows {
		return "", false, nil
	} else if err != nil {
		return "", false, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, true, nil
}

// SetSetting inserts or overwrites a single key.
func SetSetting(ctx context.Context, key, value string) error {
	query := `
	INSERT INTO settings (key, value, updated_at)
	VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at;`

	_, err := DB.ExecContext(ctx, query, key, value)
	if err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	log.Debugf("Setting saved: %s", key)
	return nil
}

// KV exposes the settings table as a key-value store.
type KV struct{}

func (KV) Get(ctx context.Context, key string) (string, bool, error) {
	return GetSetting(ctx, key)
}

func (KV) Set(ctx context.Context, key, value string) error {
	return SetSetting(ctx, key, value)
}
