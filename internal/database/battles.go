package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/HuntleyOG/eldvar/internal/engine"
)

// ErrBattleNotFound is returned when a battle lookup fails.
var ErrBattleNotFound = errors.New("battle not found")

const battleColumns = `id, user_id, mob_key, mob_name, mob_level,
	mob_attack, mob_defense, mob_magic, mob_range, mob_reward_xp, mob_reward_gold,
	char_attack, char_strength, char_defense, char_range, char_magic,
	char_hp, char_hp_max, mob_hp, mob_hp_max,
	floor, void_intensity, status, turn_count, reward_xp, reward_gold,
	travel_destination, travel_progress, travel_distance, created_at, ended_at`

// InsertBattleTx stores a newly created battle.
func (d *Database) InsertBattleTx(tx *sql.Tx, b engine.Battle) error {
	query := d.qb.Build(`INSERT INTO battles
		(id, user_id, mob_key, mob_name, mob_level,
		 mob_attack, mob_defense, mob_magic, mob_range, mob_reward_xp, mob_reward_gold,
		 char_attack, char_strength, char_defense, char_range, char_magic,
		 char_hp, char_hp_max, mob_hp, mob_hp_max,
		 floor, void_intensity, status, turn_count, reward_xp, reward_gold,
		 travel_destination, travel_progress, travel_distance, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := tx.Exec(query,
		b.ID, b.UserID, b.MobKey, b.MobName, b.MobLevel,
		b.MobAttack, b.MobDefense, b.MobMagic, b.MobRange, b.MobRewardXP, b.MobRewardGold,
		b.CharAttack, b.CharStrength, b.CharDefense, b.CharRange, b.CharMagic,
		b.CharHPCurrent, b.CharHPMax, b.MobHPCurrent, b.MobHPMax,
		b.Floor, b.VoidIntensity, string(b.Status), b.TurnCount, b.RewardXP, b.RewardGold,
		b.TravelDestination, b.TravelProgress, b.TravelDistance, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert battle: %w", err)
	}
	return nil
}

// UpdateBattleTx persists the mutable battle fields after a turn or flee.
func (d *Database) UpdateBattleTx(tx *sql.Tx, b engine.Battle) error {
	var endedAt any
	if !b.EndedAt.IsZero() {
		endedAt = b.EndedAt
	}

	query := d.qb.Build(`UPDATE battles SET
		char_hp = ?, mob_hp = ?, status = ?, turn_count = ?,
		reward_xp = ?, reward_gold = ?, ended_at = ?
		WHERE id = ?`)

	result, err := tx.Exec(query,
		b.CharHPCurrent, b.MobHPCurrent, string(b.Status), b.TurnCount,
		b.RewardXP, b.RewardGold, endedAt, b.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update battle: %w", err)
	}

	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return ErrBattleNotFound
	}
	return nil
}

// AppendTurnsTx appends battle log entries. The unique (battle, turn_no)
// constraint turns a double-applied round into a hard error instead of
// a silent duplicate.
func (d *Database) AppendTurnsTx(tx *sql.Tx, battleID string, turns []engine.Turn) error {
	query := d.qb.Build(`INSERT INTO battle_turns
		(battle_id, turn_no, actor, damage, char_hp, mob_hp, message)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)

	for _, t := range turns {
		if _, err := tx.Exec(query,
			battleID, t.TurnNo, string(t.Actor), t.Damage, t.CharHP, t.MobHP, t.Text,
		); err != nil {
			return fmt.Errorf("failed to append turn %d: %w", t.TurnNo, err)
		}
	}
	return nil
}

// GetBattle loads a battle by ID.
func (d *Database) GetBattle(id string) (engine.Battle, error) {
	query := d.qb.Build("SELECT " + battleColumns + " FROM battles WHERE id = ?")
	return d.scanBattle(d.db.QueryRow(query, id))
}

// GetOngoingBattle returns the user's single ONGOING battle, or
// ErrBattleNotFound if they have none.
func (d *Database) GetOngoingBattle(userID int64) (engine.Battle, error) {
	query := d.qb.Build("SELECT " + battleColumns +
		" FROM battles WHERE user_id = ? AND status = ? ORDER BY created_at LIMIT 1")
	return d.scanBattle(d.db.QueryRow(query, userID, string(engine.StatusOngoing)))
}

// HasOngoingBattle reports whether the user has an ONGOING battle.
func (d *Database) HasOngoingBattle(userID int64) (bool, error) {
	_, err := d.GetOngoingBattle(userID)
	if errors.Is(err, ErrBattleNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetTurns returns a battle's full log in turn order. History reads
// take no user lock.
func (d *Database) GetTurns(battleID string) ([]engine.Turn, error) {
	query := d.qb.Build(`SELECT turn_no, actor, damage, char_hp, mob_hp, message
		FROM battle_turns WHERE battle_id = ? ORDER BY turn_no`)
	rows, err := d.db.Query(query, battleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load battle turns: %w", err)
	}
	defer rows.Close()

	var out []engine.Turn
	for rows.Next() {
		var t engine.Turn
		var actor string
		if err := rows.Scan(&t.TurnNo, &actor, &t.Damage, &t.CharHP, &t.MobHP, &t.Text); err != nil {
			return nil, fmt.Errorf("failed to scan battle turn: %w", err)
		}
		t.Actor = engine.Actor(actor)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (d *Database) scanBattle(row scanner) (engine.Battle, error) {
	var b engine.Battle
	var status string
	var createdAt time.Time
	var endedAt sql.NullTime

	err := row.Scan(
		&b.ID, &b.UserID, &b.MobKey, &b.MobName, &b.MobLevel,
		&b.MobAttack, &b.MobDefense, &b.MobMagic, &b.MobRange, &b.MobRewardXP, &b.MobRewardGold,
		&b.CharAttack, &b.CharStrength, &b.CharDefense, &b.CharRange, &b.CharMagic,
		&b.CharHPCurrent, &b.CharHPMax, &b.MobHPCurrent, &b.MobHPMax,
		&b.Floor, &b.VoidIntensity, &status, &b.TurnCount, &b.RewardXP, &b.RewardGold,
		&b.TravelDestination, &b.TravelProgress, &b.TravelDistance, &createdAt, &endedAt,
	)
	if err == sql.ErrNoRows {
		return engine.Battle{}, ErrBattleNotFound
	}
	if err != nil {
		return engine.Battle{}, fmt.Errorf("failed to scan battle: %w", err)
	}

	b.Status = engine.Status(status)
	b.CreatedAt = createdAt
	if endedAt.Valid {
		b.EndedAt = endedAt.Time
	}
	return b, nil
}
