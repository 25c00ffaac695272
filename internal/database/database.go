// Package database is the collaborator persistence layer: it owns the
// relational schema for users, skills, settings, and battle history,
// and applies the engine's side-effect instructions transactionally.
// SQLite (modernc.org/sqlite) is the default backend; PostgreSQL
// (lib/pq) is selected by configuration through the Dialect interface.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/HuntleyOG/eldvar/internal/config"
)

// Database wraps the SQL connection and provides persistence operations.
type Database struct {
	db      *sql.DB
	dialect Dialect
	qb      *QueryBuilder
}

// Open opens a database using the given configuration and runs
// migrations.
func Open(cfg config.DatabaseConfig) (*Database, error) {
	dialect := NewDialect(DialectType(cfg.Driver))

	var dsn string
	switch dialect.(type) {
	case *PostgresDialect:
		pg := cfg.Postgres
		dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			pg.Host, pg.Port, pg.User, pg.Password, pg.Database, pg.SSLMode)
	default:
		// Ensure the directory for the database file exists
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dsn = cfg.SQLitePath
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run init statement: %w", err)
		}
	}

	d := &Database{
		db:      db,
		dialect: dialect,
		qb:      NewQueryBuilder(dialect),
	}

	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return d, nil
}

// OpenSQLite opens a SQLite database at the given path with defaults.
func OpenSQLite(path string) (*Database, error) {
	return Open(config.DatabaseConfig{Driver: "sqlite", SQLitePath: path})
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// DB returns the underlying sql.DB for advanced operations.
func (d *Database) DB() *sql.DB {
	return d.db
}

// WithTx runs fn inside a transaction, committing on nil and rolling
// back on error. Each engine operation commits a consistent new state
// or changes nothing.
func (d *Database) WithTx(fn func(tx *sql.Tx) error) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// usernameColumn returns the username column definition for the dialect.
func (d *Database) usernameColumn() string {
	if _, ok := d.dialect.(*PostgresDialect); ok {
		return "CITEXT UNIQUE NOT NULL"
	}
	return "TEXT UNIQUE NOT NULL " + d.dialect.CaseInsensitiveCollation()
}

// migrate creates the schema if it doesn't exist.
func (d *Database) migrate() error {
	migrations := []string{
		// User ledger: account identity plus the engine-facing fields
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS users (
			id %s,
			username %s,
			password_hash TEXT NOT NULL,
			level INTEGER NOT NULL DEFAULT 1,
			overall_xp INTEGER NOT NULL DEFAULT 0,
			gold INTEGER NOT NULL DEFAULT 0,
			attack INTEGER NOT NULL DEFAULT 10,
			strength INTEGER NOT NULL DEFAULT 10,
			defense INTEGER NOT NULL DEFAULT 10,
			ranged INTEGER NOT NULL DEFAULT 10,
			magic INTEGER NOT NULL DEFAULT 10,
			hp INTEGER NOT NULL DEFAULT 100,
			max_hp INTEGER NOT NULL DEFAULT 100,
			current_floor INTEGER NOT NULL DEFAULT 1,
			deepest_floor INTEGER NOT NULL DEFAULT 1,
			floor_wins INTEGER NOT NULL DEFAULT 0,
			void_intensity INTEGER NOT NULL DEFAULT 0,
			current_area TEXT NOT NULL DEFAULT '',
			travel_destination TEXT NOT NULL DEFAULT '',
			travel_progress INTEGER NOT NULL DEFAULT 0,
			travel_distance INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`, d.dialect.AutoIncrementPK(), d.usernameColumn()),

		// Per-(user, skill) progress, updated in place
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS user_skills (
			id %s,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			skill_key TEXT NOT NULL,
			level INTEGER NOT NULL DEFAULT 1,
			xp INTEGER NOT NULL DEFAULT 0,
			UNIQUE(user_id, skill_key)
		)`, d.dialect.AutoIncrementPK()),

		// Tunable engine settings
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Battles carry the mob snapshot and optional travel resume context
		`CREATE TABLE IF NOT EXISTS battles (
			id TEXT PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			mob_key TEXT NOT NULL,
			mob_name TEXT NOT NULL,
			mob_level INTEGER NOT NULL,
			mob_attack INTEGER NOT NULL,
			mob_defense INTEGER NOT NULL,
			mob_magic INTEGER NOT NULL,
			mob_range INTEGER NOT NULL,
			mob_reward_xp INTEGER NOT NULL,
			mob_reward_gold INTEGER NOT NULL,
			char_attack INTEGER NOT NULL,
			char_strength INTEGER NOT NULL,
			char_defense INTEGER NOT NULL,
			char_range INTEGER NOT NULL,
			char_magic INTEGER NOT NULL,
			char_hp INTEGER NOT NULL,
			char_hp_max INTEGER NOT NULL,
			mob_hp INTEGER NOT NULL,
			mob_hp_max INTEGER NOT NULL,
			floor INTEGER NOT NULL,
			void_intensity INTEGER NOT NULL,
			status TEXT NOT NULL,
			turn_count INTEGER NOT NULL DEFAULT 0,
			reward_xp INTEGER NOT NULL DEFAULT 0,
			reward_gold INTEGER NOT NULL DEFAULT 0,
			travel_destination TEXT NOT NULL DEFAULT '',
			travel_progress INTEGER NOT NULL DEFAULT 0,
			travel_distance INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			ended_at TIMESTAMP
		)`,

		// Append-only battle log
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS battle_turns (
			id %s,
			battle_id TEXT NOT NULL REFERENCES battles(id) ON DELETE CASCADE,
			turn_no INTEGER NOT NULL,
			actor TEXT NOT NULL,
			damage INTEGER NOT NULL,
			char_hp INTEGER NOT NULL,
			mob_hp INTEGER NOT NULL,
			message TEXT NOT NULL,
			UNIQUE(battle_id, turn_no)
		)`, d.dialect.AutoIncrementPK()),

		// Indexes for common queries
		`CREATE INDEX IF NOT EXISTS idx_battles_user_id ON battles(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_battles_user_status ON battles(user_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_battle_turns_battle_id ON battle_turns(battle_id)`,
		`CREATE INDEX IF NOT EXISTS idx_user_skills_user_id ON user_skills(user_id)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	return nil
}
