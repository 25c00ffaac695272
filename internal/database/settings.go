package database

import "fmt"

// LoadSettings returns every stored setting as a key -> value map.
func (d *Database) LoadSettings() (map[string]string, error) {
	rows, err := d.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		out[key] = value
	}
	return out, rows.Err()
}

// SeedSettings inserts any missing keys without touching existing
// values. Used at startup to establish the defaults.
func (d *Database) SeedSettings(values map[string]string) error {
	query := d.qb.Build(`INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO NOTHING`)

	for key, value := range values {
		if _, err := d.db.Exec(query, key, value); err != nil {
			return fmt.Errorf("failed to seed setting %q: %w", key, err)
		}
	}
	return nil
}

// SetSetting stores one setting value, replacing any existing value.
// This is the admin path; callers must reload the cached Settings
// afterwards.
func (d *Database) SetSetting(key, value string) error {
	query := d.qb.Build(`INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`)

	if _, err := d.db.Exec(query, key, value); err != nil {
		return fmt.Errorf("failed to set setting %q: %w", key, err)
	}
	return nil
}
