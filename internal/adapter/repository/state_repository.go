package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// stateRow is one durable reviewer setting
type stateRow struct {
	Key       string    `gorm:"column:state_key;primaryKey"`
	Value     string    `gorm:"column:value"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (stateRow) TableName() string { return "reviewer_state" }

// StateRepository stores reviewer state in a SQL table
type StateRepository struct {
	db *gorm.DB
}

// NewStateRepository creates a new state repository
func NewStateRepository(db *gorm.DB) *StateRepository {
	return &StateRepository{db: db}
}

// Get returns the stored value for key
func (r *StateRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var row stateRow
	if err := r.db.WithContext(ctx).Where("state_key = ?", key).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return row.Value, true, nil
}

// Set upserts key; the last write wins
func (r *StateRepository) Set(ctx context.Context, key, value string) error {
	row := stateRow{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "state_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}

// Delete removes key
func (r *StateRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("state_key = ?", key).Delete(&stateRow{}).Error
}
