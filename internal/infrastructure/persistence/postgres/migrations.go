package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATIONS
// Embedded SQL migrations, applied in order and tracked in
// schema_migrations. Each migration runs in its own transaction.
// ══════════════════════════════════════════════════════════════════════════════

// Migration is one versioned schema change.
type Migration struct {
	Version   int
	Name      string
	UpSQL     string
	DownSQL   string
	AppliedAt time.Time
	IsApplied bool
}

// Migrator applies pending migrations.
type Migrator struct {
	conn       *Connection
	migrations []Migration
	tableName  string
}

// NewMigrator creates a migrator with the embedded migrations.
func NewMigrator(conn *Connection) *Migrator {
	return &Migrator{
		conn:       conn,
		migrations: GetMigrations(),
		tableName:  "schema_migrations",
	}
}

// EnsureMigrationTable creates the tracking table if missing.
func (m *Migrator) EnsureMigrationTable(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)
	`, m.tableName)

	if _, err := m.conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// GetAppliedMigrations returns the versions already applied.
func (m *Migrator) GetAppliedMigrations(ctx context.Context) (map[int]time.Time, error) {
	query := fmt.Sprintf("SELECT version, applied_at FROM %s ORDER BY version", m.tableName)

	rows, err := m.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]time.Time)
	for rows.Next() {
		var version int
		var appliedAt time.Time
		if err := rows.Scan(&version, &appliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[version] = appliedAt
	}
	return applied, rows.Err()
}

// Migrate applies all pending migrations in order.
func (m *Migrator) Migrate(ctx context.Context) error {
	if err := m.EnsureMigrationTable(ctx); err != nil {
		return err
	}

	applied, err := m.GetAppliedMigrations(ctx)
	if err != nil {
		return err
	}

	for _, mig := range m.migrations {
		if _, isApplied := applied[mig.Version]; isApplied {
			continue
		}
		if mig.UpSQL == "" {
			return fmt.Errorf("%w: missing up SQL for migration %d", ErrMigrationFailed, mig.Version)
		}

		err := m.conn.WithTx(ctx, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, mig.UpSQL); err != nil {
				return fmt.Errorf("failed to execute migration %d: %w", mig.Version, err)
			}
			insertQuery := fmt.Sprintf("INSERT INTO %s (version, name) VALUES ($1, $2)", m.tableName)
			_, err := tx.Exec(ctx, insertQuery, mig.Version, mig.Name)
			return err
		})
		if err != nil {
			return fmt.Errorf("%w: version %d: %v", ErrMigrationFailed, mig.Version, err)
		}
	}
	return nil
}

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_users",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_catalog",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
		{
			Version: 3,
			Name:    "create_community_and_activities",
			UpSQL:   migration003Up,
			DownSQL: migration003Down,
		},
	}
}

const migration001Up = `
CREATE TABLE IF NOT EXISTS users (
	id            BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	points        INTEGER NOT NULL DEFAULT 0 CHECK (points >= 0),
	level         INTEGER NOT NULL DEFAULT 1 CHECK (level >= 1),
	streak        INTEGER NOT NULL DEFAULT 0 CHECK (streak >= 0),
	last_login_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_users_points ON users (points DESC, id ASC);
`

const migration001Down = `
DROP TABLE IF EXISTS users;
`

const migration002Up = `
CREATE TABLE IF NOT EXISTS badges (
	id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	title           TEXT NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	icon            TEXT NOT NULL DEFAULT '',
	icon_bg_color   TEXT NOT NULL DEFAULT '',
	requirement     TEXT NOT NULL,
	required_amount INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS user_badges (
	id        BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	user_id   BIGINT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	badge_id  BIGINT NOT NULL REFERENCES badges (id) ON DELETE CASCADE,
	earned_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (user_id, badge_id)
);

CREATE TABLE IF NOT EXISTS challenges (
	id            BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	title         TEXT NOT NULL,
	description   TEXT NOT NULL DEFAULT '',
	points_reward INTEGER NOT NULL CHECK (points_reward >= 0),
	icon          TEXT NOT NULL DEFAULT '',
	icon_bg_color TEXT NOT NULL DEFAULT '',
	type          TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS user_challenges (
	id           BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	user_id      BIGINT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	challenge_id BIGINT NOT NULL REFERENCES challenges (id) ON DELETE CASCADE,
	completed    BOOLEAN NOT NULL DEFAULT FALSE,
	completed_at TIMESTAMPTZ,
	expires_at   TIMESTAMPTZ,
	UNIQUE (user_id, challenge_id)
);

CREATE TABLE IF NOT EXISTS courses (
	id            BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	title         TEXT NOT NULL,
	description   TEXT NOT NULL DEFAULT '',
	total_lessons INTEGER NOT NULL CHECK (total_lessons > 0)
);

CREATE TABLE IF NOT EXISTS user_courses (
	id                BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	user_id           BIGINT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	course_id         BIGINT NOT NULL REFERENCES courses (id) ON DELETE CASCADE,
	lessons_completed INTEGER NOT NULL DEFAULT 0 CHECK (lessons_completed >= 0),
	started_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	completed_at      TIMESTAMPTZ,
	UNIQUE (user_id, course_id)
);
`

const migration002Down = `
DROP TABLE IF EXISTS user_courses;
DROP TABLE IF EXISTS courses;
DROP TABLE IF EXISTS user_challenges;
DROP TABLE IF EXISTS challenges;
DROP TABLE IF EXISTS user_badges;
DROP TABLE IF EXISTS badges;
`

const migration003Up = `
CREATE TABLE IF NOT EXISTS questions (
	id         BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	user_id    BIGINT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	title      TEXT NOT NULL,
	content    TEXT NOT NULL,
	tags       TEXT[] NOT NULL DEFAULT '{}',
	votes      INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_questions_created_at ON questions (created_at DESC, id DESC);

CREATE TABLE IF NOT EXISTS answers (
	id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	question_id BIGINT NOT NULL REFERENCES questions (id) ON DELETE CASCADE,
	user_id     BIGINT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	content     TEXT NOT NULL,
	votes       INTEGER NOT NULL DEFAULT 0,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_answers_question ON answers (question_id, votes DESC, id ASC);

CREATE TABLE IF NOT EXISTS activities (
	id             BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	user_id        BIGINT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	type           TEXT NOT NULL,
	description    TEXT NOT NULL DEFAULT '',
	points_awarded INTEGER NOT NULL DEFAULT 0,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	metadata       JSONB NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_activities_user ON activities (user_id, created_at DESC, id DESC);
`

const migration003Down = `
DROP TABLE IF EXISTS activities;
DROP TABLE IF EXISTS answers;
DROP TABLE IF EXISTS questions;
`
