package services

import (
	"context"
	"errors"
	"fmt"

	"answerly/models"

	"gorm.io/gorm"
)

// SQLQuestionStore keeps questions in a SQL database through gorm.
type SQLQuestionStore struct {
	db *gorm.DB
}

func NewSQLQuestionStore(db *gorm.DB) (*SQLQuestionStore, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	if err := db.AutoMigrate(&models.Question{}); err != nil {
		return nil, fmt.Errorf("failed to migrate questions: %w", err)
	}
	return &SQLQuestionStore{db: db}, nil
}

func (s *SQLQuestionStore) List(ctx context.Context, guildID string) ([]models.Question, error) {
	questions := []models.Question{}
	err := s.db.WithContext(ctx).
		Where("guild_id = ?", guildID).
		Order("id").
		Find(&questions).Error
	return questions, err
}

func (s *SQLQuestionStore) Count(ctx context.Context, guildID string) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("guild_id = ?", guildID).
		Count(&count).Error
	return int(count), err
}

func (s *SQLQuestionStore) Insert(ctx context.Context, question *models.Question) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return insertQuestion(tx, question)
	})
}

// InsertCapped counts and inserts inside one transaction. On postgres a
// transaction-scoped advisory lock per guild serializes concurrent creates.
func (s *SQLQuestionStore) InsertCapped(ctx context.Context, question *models.Question, max int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", question.GuildID).Error; err != nil {
				return fmt.Errorf("failed to lock guild %s: %w", question.GuildID, err)
			}
		}

		var count int64
		if err := tx.Model(&models.Question{}).Where("guild_id = ?", question.GuildID).Count(&count).Error; err != nil {
			return err
		}
		if int(count) >= max {
			return ErrQuestionLimitReached
		}

		return insertQuestion(tx, question)
	})
}

func insertQuestion(tx *gorm.DB, question *models.Question) error {
	var existing int64
	if err := tx.Model(&models.Question{}).Where("id = ?", question.ID).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return fmt.Errorf("%w: %s", ErrQuestionIDConflict, question.ID)
	}

	if err := tx.Create(question).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", ErrQuestionIDConflict, question.ID)
		}
		return err
	}
	return nil
}

func (s *SQLQuestionStore) Update(ctx context.Context, guildID, id string, update models.QuestionUpdate) error {
	return s.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("id = ? AND guild_id = ?", id, guildID).
		Updates(map[string]interface{}{
			"question": update.Question,
			"answer":   update.Answer,
		}).Error
}

func (s *SQLQuestionStore) Delete(ctx context.Context, guildID, id string) error {
	return s.db.WithContext(ctx).
		Where("id = ? AND guild_id = ?", id, guildID).
		Delete(&models.Question{}).Error
}
