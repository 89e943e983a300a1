package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"brokercrm/server/internal/followup"
	"brokercrm/server/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("database: record not found")

type Database struct {
	db *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer; one connection also keeps :memory: databases shared.
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, err
	}

	return &Database{db: db}, nil
}

// DB exposes the underlying gorm handle.
func (d *Database) DB() *gorm.DB {
	return d.db
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// CreateClient inserts a client and fills in its generated identifiers.
func (d *Database) CreateClient(ctx context.Context, client *models.Client) error {
	if err := d.db.WithContext(ctx).Create(client).Error; err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

// GetClient looks a client up by its public identifier.
func (d *Database) GetClient(ctx context.Context, id string) (*models.Client, error) {
	var client models.Client
	if err := d.db.WithContext(ctx).Where("uuid = ?", id).First(&client).Error; err != nil {
		return nil, notFound(err)
	}
	return &client, nil
}

// PlanUpdate computes a client's new follow-up plan from the stored one.
type PlanUpdate func(followup.Plan) followup.Plan

// SaveFollowUp reads the client's plan, applies update and persists the
// priority and contact timestamps in one transaction, so concurrent updates
// to the same client see each other's writes.
func (d *Database) SaveFollowUp(ctx context.Context, id string, update PlanUpdate) (*models.Client, error) {
	var client models.Client
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("uuid = ?", id).First(&client).Error; err != nil {
			return notFound(err)
		}

		client.ApplyPlan(update(client.Plan()))
		client.LastContactedAt = utc(client.LastContactedAt)
		client.NextFollowUpAt = utc(client.NextFollowUpAt)

		return tx.Model(&client).
			Select("priority", "last_contacted_at", "next_follow_up_at").
			Updates(&client).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to save follow-up: %w", err)
	}
	return &client, nil
}

// UpdateClientStatus moves a client to another pipeline status.
func (d *Database) UpdateClientStatus(ctx context.Context, id string, status models.ClientStatus) error {
	result := d.db.WithContext(ctx).Model(&models.Client{}).
		Where("uuid = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update client status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ClientsNeedingFollowUp returns contactable clients whose next follow-up is
// due at now or earlier, oldest first. An empty agentID selects every agent.
func (d *Database) ClientsNeedingFollowUp(ctx context.Context, now time.Time, agentID string) ([]models.Client, error) {
	query := d.db.WithContext(ctx).
		Where("next_follow_up_at IS NOT NULL AND next_follow_up_at <= ?", now.UTC()).
		Where("status IN ?", models.ContactableStatuses())
	if agentID != "" {
		query = query.Where("assigned_agent_id = ?", agentID)
	}

	var clients []models.Client
	if err := query.Order("next_follow_up_at ASC").Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("failed to query clients needing follow-up: %w", err)
	}
	return clients, nil
}

// propertyUpsertColumns are overwritten when a listing is upserted again.
// created_at keeps the first time the listing was seen.
var propertyUpsertColumns = []string{
	"title", "property_type", "status", "price", "bedrooms", "built_area",
	"city", "district", "street", "listing_date", "updated_at", "deleted_at",
}

// UpsertProperties inserts or replaces listings keyed by their public
// identifier. It is meant to run inside a transaction.
func UpsertProperties(tx *gorm.DB, batch []*models.Property) error {
	if len(batch) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uuid"}},
		DoUpdates: clause.AssignmentColumns(propertyUpsertColumns),
	}).Create(batch).Error
}

// UpsertProperties stores a batch of listings atomically.
func (d *Database) UpsertProperties(ctx context.Context, batch []*models.Property) error {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return UpsertProperties(tx, batch)
	})
	if err != nil {
		return fmt.Errorf("failed to upsert properties batch: %w", err)
	}
	return nil
}

// ListAvailableProperties returns the listings that may be offered to clients.
func (d *Database) ListAvailableProperties(ctx context.Context) ([]models.Property, error) {
	var properties []models.Property
	err := d.db.WithContext(ctx).
		Where("status = ?", models.PropertyStatusAvailable).
		Order("id ASC").
		Find(&properties).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list available properties: %w", err)
	}
	return properties, nil
}
