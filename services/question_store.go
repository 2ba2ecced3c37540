package services

import (
	"context"

	"answerly/models"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_question_store.go answerly/services QuestionStore

// QuestionStore is the remote source of truth for question records.
type QuestionStore interface {
	List(ctx context.Context, guildID string) ([]models.Question, error)
	Count(ctx context.Context, guildID string) (int, error)
	Insert(ctx context.Context, question *models.Question) error
	Update(ctx context.Context, guildID, id string, update models.QuestionUpdate) error
	Delete(ctx context.Context, guildID, id string) error
}

// CappedInserter is implemented by stores that can enforce the per-guild
// limit and the insert in one atomic step.
type CappedInserter interface {
	InsertCapped(ctx context.Context, question *models.Question, max int) error
}
