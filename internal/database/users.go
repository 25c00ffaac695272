package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/HuntleyOG/eldvar/internal/player"
)

// bcrypt cost factor (12 is a good balance of security and performance)
const bcryptCost = 12

// ErrUserNotFound is returned when a user lookup fails.
var ErrUserNotFound = errors.New("user not found")

// ErrUserExists is returned when trying to create a duplicate user.
var ErrUserExists = errors.New("user already exists")

// ErrInvalidCredentials is returned when login credentials are incorrect.
var ErrInvalidCredentials = errors.New("invalid username or password")

const userColumns = `id, username, level, overall_xp, gold,
	attack, strength, defense, ranged, magic, hp, max_hp,
	current_floor, deepest_floor, floor_wins, void_intensity, current_area,
	travel_destination, travel_progress, travel_distance`

// CreateUser creates a new user with the given username and password.
// The password is hashed with bcrypt before storage; the ledger starts
// with the standard level-1 snapshot.
func (d *Database) CreateUser(username, password string) (player.Player, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return player.Player{}, errors.New("username cannot be empty")
	}
	if len(password) < 4 {
		return player.Player{}, errors.New("password must be at least 4 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return player.Player{}, fmt.Errorf("failed to hash password: %w", err)
	}

	p := player.New(username)

	query := d.qb.BuildWithReturning(`INSERT INTO users
		(username, password_hash, level, overall_xp, gold,
		 attack, strength, defense, ranged, magic, hp, max_hp,
		 current_floor, deepest_floor, floor_wins, void_intensity, current_area,
		 travel_destination, travel_progress, travel_distance)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, "id")

	args := []any{
		username, string(hash), p.Level, p.OverallXP, p.Gold,
		p.Attack, p.Strength, p.Defense, p.Range, p.Magic, p.HP, p.MaxHP,
		p.CurrentFloor, p.DeepestFloor, p.FloorWins, p.VoidIntensity, p.CurrentArea,
		p.TravelDestination, p.TravelProgress, p.TravelDistance,
	}

	if d.dialect.SupportsLastInsertID() {
		result, err := d.db.Exec(query, args...)
		if err != nil {
			if d.dialect.IsDuplicateKeyError(err) {
				return player.Player{}, ErrUserExists
			}
			return player.Player{}, fmt.Errorf("failed to create user: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return player.Player{}, fmt.Errorf("failed to get user ID: %w", err)
		}
		p.ID = id
	} else {
		if err := d.db.QueryRow(query, args...).Scan(&p.ID); err != nil {
			if d.dialect.IsDuplicateKeyError(err) {
				return player.Player{}, ErrUserExists
			}
			return player.Player{}, fmt.Errorf("failed to create user: %w", err)
		}
	}

	return p, nil
}

// ValidateLogin checks the username and password and returns the user
// snapshot on success.
func (d *Database) ValidateLogin(username, password string) (player.Player, error) {
	var hash string
	query := d.qb.Build("SELECT password_hash FROM users WHERE username = ?")
	err := d.db.QueryRow(query, username).Scan(&hash)
	if err == sql.ErrNoRows {
		return player.Player{}, ErrInvalidCredentials
	}
	if err != nil {
		return player.Player{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return player.Player{}, ErrInvalidCredentials
	}

	return d.GetUserByName(username)
}

// GetUser loads the user snapshot by ID.
func (d *Database) GetUser(id int64) (player.Player, error) {
	query := d.qb.Build("SELECT " + userColumns + " FROM users WHERE id = ?")
	return d.scanUser(d.db.QueryRow(query, id))
}

// GetUserByName loads the user snapshot by username.
func (d *Database) GetUserByName(username string) (player.Player, error) {
	query := d.qb.Build("SELECT " + userColumns + " FROM users WHERE username = ?")
	return d.scanUser(d.db.QueryRow(query, username))
}

// SaveUser persists the engine-writable fields of the user ledger.
func (d *Database) SaveUser(p player.Player) error {
	return d.execSaveUser(d.db, p)
}

// SaveUserTx persists the user inside an existing transaction.
func (d *Database) SaveUserTx(tx *sql.Tx, p player.Player) error {
	return d.execSaveUser(tx, p)
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func (d *Database) execSaveUser(e execer, p player.Player) error {
	p.Normalize()

	query := d.qb.Build(`UPDATE users SET
		level = ?, overall_xp = ?, gold = ?,
		attack = ?, strength = ?, defense = ?, ranged = ?, magic = ?,
		hp = ?, max_hp = ?,
		current_floor = ?, deepest_floor = ?, floor_wins = ?,
		void_intensity = ?, current_area = ?,
		travel_destination = ?, travel_progress = ?, travel_distance = ?
		WHERE id = ?`)

	result, err := e.Exec(query,
		p.Level, p.OverallXP, p.Gold,
		p.Attack, p.Strength, p.Defense, p.Range, p.Magic,
		p.HP, p.MaxHP,
		p.CurrentFloor, p.DeepestFloor, p.FloorWins,
		p.VoidIntensity, p.CurrentArea,
		p.TravelDestination, p.TravelProgress, p.TravelDistance,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func (d *Database) scanUser(row scanner) (player.Player, error) {
	var p player.Player
	err := row.Scan(
		&p.ID, &p.Username, &p.Level, &p.OverallXP, &p.Gold,
		&p.Attack, &p.Strength, &p.Defense, &p.Range, &p.Magic, &p.HP, &p.MaxHP,
		&p.CurrentFloor, &p.DeepestFloor, &p.FloorWins, &p.VoidIntensity, &p.CurrentArea,
		&p.TravelDestination, &p.TravelProgress, &p.TravelDistance,
	)
	if err == sql.ErrNoRows {
		return player.Player{}, ErrUserNotFound
	}
	if err != nil {
		return player.Player{}, fmt.Errorf("failed to scan user: %w", err)
	}
	return p, nil
}
