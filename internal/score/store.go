// Package score persists a single best-score counter per player id. This is
// the only durable state the server keeps.
package score

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// BestScore is the persisted row. One per player id, monotonically
// increasing score.
type BestScore struct {
	PlayerID  string `gorm:"primaryKey;size:32"`
	Score     int
	UpdatedAt time.Time
}

// Store wraps the database. A nil *Store is valid and makes every operation
// a no-op, so the server can run without a DATABASE_URL.
type Store struct {
	db *gorm.DB
}

// Open connects and migrates the best_scores table.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open score store: %w", err)
	}
	if err := db.AutoMigrate(&BestScore{}); err != nil {
		return nil, fmt.Errorf("migrate score store: %w", err)
	}
	return &Store{db: db}, nil
}

// Record keeps the maximum of the stored and reported score.
func (s *Store) Record(playerID string, score int) error {
	if s == nil {
		return nil
	}
	var cur BestScore
	err := s.db.First(&cur, "player_id = ?", playerID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.db.Create(&BestScore{PlayerID: playerID, Score: score}).Error
	case err != nil:
		return err
	}
	if score <= cur.Score {
		return nil
	}
	cur.Score = score
	return s.db.Save(&cur).Error
}

// Get returns the best score for a player, zero if none recorded.
func (s *Store) Get(playerID string) (int, error) {
	if s == nil {
		return 0, nil
	}
	var cur BestScore
	err := s.db.First(&cur, "player_id = ?", playerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return cur.Score, nil
}
