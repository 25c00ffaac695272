package database

import (
	"database/sql"
	"fmt"

	"github.com/HuntleyOG/eldvar/internal/skills"
)

// GetUserSkill loads one user's progress in a skill. A missing row is
// not an error; it returns the level-1 zero-XP baseline.
func (d *Database) GetUserSkill(userID int64, skillKey string) (skills.UserSkill, error) {
	us := skills.UserSkill{UserID: userID, SkillKey: skillKey, Level: 1, XP: 0}

	query := d.qb.Build(
		"SELECT level, xp FROM user_skills WHERE user_id = ? AND skill_key = ?")
	err := d.db.QueryRow(query, userID, skillKey).Scan(&us.Level, &us.XP)
	if err == sql.ErrNoRows {
		return us, nil
	}
	if err != nil {
		return us, fmt.Errorf("failed to load user skill: %w", err)
	}
	return us, nil
}

// ListUserSkills returns every stored skill row for the user.
func (d *Database) ListUserSkills(userID int64) ([]skills.UserSkill, error) {
	query := d.qb.Build(
		"SELECT skill_key, level, xp FROM user_skills WHERE user_id = ? ORDER BY skill_key")
	rows, err := d.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user skills: %w", err)
	}
	defer rows.Close()

	var out []skills.UserSkill
	for rows.Next() {
		us := skills.UserSkill{UserID: userID}
		if err := rows.Scan(&us.SkillKey, &us.Level, &us.XP); err != nil {
			return nil, fmt.Errorf("failed to scan user skill: %w", err)
		}
		out = append(out, us)
	}
	return out, rows.Err()
}

// UpsertUserSkill stores skill progress, updating in place. Rows are
// never duplicated; the (user, skill) pair is unique.
func (d *Database) UpsertUserSkill(us skills.UserSkill) error {
	return d.execUpsertUserSkill(d.db, us)
}

// UpsertUserSkillTx stores skill progress inside an existing transaction.
func (d *Database) UpsertUserSkillTx(tx *sql.Tx, us skills.UserSkill) error {
	return d.execUpsertUserSkill(tx, us)
}

func (d *Database) execUpsertUserSkill(e execer, us skills.UserSkill) error {
	query := d.qb.Build(`INSERT INTO user_skills (user_id, skill_key, level, xp)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, skill_key)
		DO UPDATE SET level = excluded.level, xp = excluded.xp`)

	if _, err := e.Exec(query, us.UserID, us.SkillKey, us.Level, us.XP); err != nil {
		return fmt.Errorf("failed to upsert user skill: %w", err)
	}
	return nil
}
