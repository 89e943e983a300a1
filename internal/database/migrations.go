package database

import (
	"fmt"

	"brokercrm/server/internal/models"
)

func (d *Database) RunMigrations() error {
	if err := d.db.AutoMigrate(&models.Client{}, &models.Property{}, &models.Task{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	// Occurrence lookups filter on the chain root and the due date.
	if err := d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_tasks_chain
		ON tasks(parent_uuid, due_date);
	`).Error; err != nil {
		return fmt.Errorf("failed to create chain index: %w", err)
	}

	return nil
}
