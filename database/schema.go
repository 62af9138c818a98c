package database

import (
	"database/sql"
	"fmt"

	"github.com/apex/log"
)

// InitSchema creates the necessary database tables if they don't exist
func InitSchema(db *sql.DB) error {
	log.Info("Initializing fall-api database schema...")

	// Create annonces table. updated_at deliberately has no ON UPDATE
	// clause: only the publish/resolve transitions set it explicitly.
	annoncesTableSQL := `
	CREATE TABLE IF NOT EXISTS annonces(
		id INT NOT NULL AUTO_INCREMENT,
		titre VARCHAR(255),
		description TEXT,
		details JSON,
		actif TINYINT NOT NULL DEFAULT 0,
		statut VARCHAR(32) NOT NULL DEFAULT 'fall',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		INDEX actif_statut_index (actif, statut)
	)`

	if _, err := db.Exec(annoncesTableSQL); err != nil {
		return fmt.Errorf("failed to create annonces table: %w", err)
	}
	log.Info("Annonces table created/verified")

	// Create devices table. device_id has no uniqueness constraint:
	// repeat installations from the same device create new rows.
	devicesTableSQL := `
	CREATE TABLE IF NOT EXISTS devices(
		id INT NOT NULL AUTO_INCREMENT,
		device_id VARCHAR(255) NOT NULL DEFAULT '',
		details JSON,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id)
	)`

	if _, err := db.Exec(devicesTableSQL); err != nil {
		return fmt.Errorf("failed to create devices table: %w", err)
	}
	log.Info("Devices table created/verified")

	return nil
}
