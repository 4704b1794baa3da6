// Package database persists the per-guild settings that should survive a
// restart. Queue and session state deliberately live in memory only; the only
// thing stored here is the autoplay toggle.
package database

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Store is a SQLite-backed settings store. It implements player.Settings.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// New opens (and initializes if needed) the database at path.
func New(path string, logger zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	schema := `
	CREATE TABLE IF NOT EXISTS guild_settings (
		guild_id TEXT PRIMARY KEY,
		autoplay INTEGER NOT NULL DEFAULT 0
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to initialize schema")
	}

	return &Store{
		db:  db,
		log: logger.With().Str("component", "database").Logger(),
	}, nil
}

// AutoplayEnabled reports the stored autoplay flag for a guild. Unknown
// guilds default to off.
func (s *Store) AutoplayEnabled(guildID string) bool {
	var enabled bool
	err := s.db.QueryRow(
		`SELECT autoplay FROM guild_settings WHERE guild_id = ?`, guildID,
	).Scan(&enabled)
	if err == sql.ErrNoRows {
		return false
	}
	if err != nil {
		s.log.Error().Err(err).Str("guild_id", guildID).Msg("failed to read autoplay setting")
		return false
	}
	return enabled
}

// SetAutoplayEnabled stores the autoplay flag for a guild.
func (s *Store) SetAutoplayEnabled(guildID string, enabled bool) error {
	_, err := s.db.Exec(`
		INSERT INTO guild_settings (guild_id, autoplay) VALUES (?, ?)
		ON CONFLICT(guild_id) DO UPDATE SET autoplay = excluded.autoplay`,
		guildID, enabled)
	return errors.Wrap(err, "failed to store autoplay setting")
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
