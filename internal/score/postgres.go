package score

import (
	"context"
	"errors"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type bestScore struct {
	Name      string `gorm:"primaryKey;size:64"`
	Score     int    `gorm:"not null"`
	UpdatedAt time.Time
}

func (bestScore) TableName() string { return "best_scores" }

type PostgresStore struct {
	db *gorm.DB
}

// OpenPostgres connects via the given DSN and migrates the best_scores table.
func OpenPostgres(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&bestScore{}); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) BestScore(ctx context.Context, name string) (int, error) {
	var row bestScore
	err := s.db.WithContext(ctx).First(&row, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.Score, nil
}

func (s *PostgresStore) SetBestScore(ctx context.Context, name string, score int) error {
	row := bestScore{Name: name, Score: score, UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"score":      gorm.Expr("GREATEST(best_scores.score, EXCLUDED.score)"),
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row).Error
}

func (s *PostgresStore) Leaderboard(ctx context.Context, n int) ([]Entry, error) {
	var rows []bestScore
	err := s.db.WithContext(ctx).
		Order("score DESC").
		Order("updated_at ASC").
		Limit(n).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]Entry, len(rows))
	for i, r := range rows {
		out[i] = Entry{Name: r.Name, Score: r.Score}
	}
	return out, nil
}
