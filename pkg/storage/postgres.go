package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Snapshot is the persisted row for one store namespace.
type Snapshot struct {
	Namespace string    `json:"namespace" gorm:"primaryKey"`
	Payload   []byte    `json:"payload" gorm:"type:bytea;not null"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Snapshot) TableName() string {
	return "snapshots"
}

// GormStore persists snapshots in PostgreSQL, one row per namespace.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a postgres-backed snapshot store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// AutoMigrate creates the snapshots table.
func (s *GormStore) AutoMigrate() error {
	return s.db.AutoMigrate(&Snapshot{})
}

func (s *GormStore) Load(ctx context.Context, namespace string) ([]byte, bool, error) {
	var snapshot Snapshot
	err := s.db.WithContext(ctx).First(&snapshot, "namespace = ?", namespace).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load snapshot %s: %w", namespace, err)
	}
	return snapshot.Payload, true, nil
}

func (s *GormStore) Save(ctx context.Context, namespace string, payload []byte) error {
	snapshot := Snapshot{
		Namespace: namespace,
		Payload:   payload,
		UpdatedAt: time.Now(),
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "namespace"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&snapshot).Error
	if err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", namespace, err)
	}
	return nil
}
