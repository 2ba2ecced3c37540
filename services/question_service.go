package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"answerly/models"
)

const (
	DefaultMaxQuestionsPerGuild = 30
	WebDashboardAuthor          = "Web Dashboard"

	maxIDAttempts = 3
)

const (
	EventQuestionCreated = "question_created"
	EventQuestionUpdated = "question_updated"
	EventQuestionDeleted = "question_deleted"
)

// Publisher receives question changes after the store accepted them.
type Publisher interface {
	Publish(guildID, eventType string, payload interface{})
}

type QuestionService struct {
	store       QuestionStore
	ids         IDGenerator
	publisher   Publisher
	maxPerGuild int
}

type QuestionServiceConfig struct {
	Store       QuestionStore
	IDs         IDGenerator
	Publisher   Publisher
	MaxPerGuild int
}

func NewQuestionService(cfg QuestionServiceConfig) (*QuestionService, error) {
	if cfg.Store == nil {
		return nil, errors.New("question store cannot be nil")
	}
	if cfg.IDs == nil {
		cfg.IDs = NewDigitIDGenerator()
	}
	if cfg.MaxPerGuild <= 0 {
		cfg.MaxPerGuild = DefaultMaxQuestionsPerGuild
	}
	return &QuestionService{
		store:       cfg.Store,
		ids:         cfg.IDs,
		publisher:   cfg.Publisher,
		maxPerGuild: cfg.MaxPerGuild,
	}, nil
}

func (s *QuestionService) MaxPerGuild() int {
	return s.maxPerGuild
}

// SaveQuestionRequest is the form posted by the server page. An empty ID
// means create.
type SaveQuestionRequest struct {
	ID       string `form:"id"`
	Question string `form:"question"`
	Answer   string `form:"answer"`
}

// ListQuestions never fails: a store error is logged and yields an empty list.
func (s *QuestionService) ListQuestions(ctx context.Context, guildID string) []models.Question {
	questions, err := s.store.List(ctx, guildID)
	if err != nil {
		slog.Error("failed to list questions", slog.String("guild_id", guildID), slog.Any("err", err))
		return []models.Question{}
	}
	return questions
}

// Save dispatches to update when req.ID is non-empty and to create
// otherwise. The id is passed through as posted, whitespace included.
// It reports whether the request created a record.
func (s *QuestionService) Save(ctx context.Context, guildID string, req SaveQuestionRequest) (created bool, err error) {
	if req.Question == "" || req.Answer == "" {
		return req.ID == "", ErrEmptyQuestion
	}
	if req.ID != "" {
		return false, s.UpdateQuestion(ctx, guildID, req.ID, req.Question, req.Answer)
	}
	_, err = s.CreateQuestion(ctx, guildID, req.Question, req.Answer)
	return true, err
}

func (s *QuestionService) CreateQuestion(ctx context.Context, guildID, question, answer string) (*models.Question, error) {
	if question == "" || answer == "" {
		return nil, ErrEmptyQuestion
	}

	capped, atomic := s.store.(CappedInserter)
	if !atomic {
		count, err := s.store.Count(ctx, guildID)
		if err != nil {
			return nil, fmt.Errorf("failed to count questions: %w", err)
		}
		if count >= s.maxPerGuild {
			return nil, ErrQuestionLimitReached
		}
	}

	record := &models.Question{
		GuildID:   guildID,
		Question:  question,
		Answer:    answer,
		Author:    WebDashboardAuthor,
		TimesSent: 0,
	}

	var err error
	for attempt := 1; attempt <= maxIDAttempts; attempt++ {
		id, idErr := s.ids.NewID()
		if idErr != nil {
			return nil, fmt.Errorf("failed to generate question id: %w", idErr)
		}
		record.ID = id
		if atomic {
			err = capped.InsertCapped(ctx, record, s.maxPerGuild)
		} else {
			err = s.store.Insert(ctx, record)
		}
		if !errors.Is(err, ErrQuestionIDConflict) {
			break
		}
		slog.Warn("question id collision", slog.String("guild_id", guildID), slog.String("id", record.ID), slog.Int("attempt", attempt))
	}
	if err != nil {
		return nil, err
	}

	slog.Info("question created", slog.String("guild_id", guildID), slog.String("id", record.ID))
	s.publish(guildID, EventQuestionCreated, record)
	return record, nil
}

func (s *QuestionService) UpdateQuestion(ctx context.Context, guildID, id, question, answer string) error {
	if question == "" || answer == "" {
		return ErrEmptyQuestion
	}
	if id == "" {
		return ErrMissingQuestionID
	}

	update := models.QuestionUpdate{Question: question, Answer: answer}
	if err := s.store.Update(ctx, guildID, id, update); err != nil {
		return err
	}

	slog.Info("question updated", slog.String("guild_id", guildID), slog.String("id", id))
	s.publish(guildID, EventQuestionUpdated, map[string]string{
		"id":       id,
		"question": question,
		"answer":   answer,
	})
	return nil
}

func (s *QuestionService) DeleteQuestion(ctx context.Context, guildID, id string) error {
	if id == "" {
		return ErrMissingQuestionID
	}

	if err := s.store.Delete(ctx, guildID, id); err != nil {
		return err
	}

	slog.Info("question deleted", slog.String("guild_id", guildID), slog.String("id", id))
	s.publish(guildID, EventQuestionDeleted, map[string]string{"id": id})
	return nil
}

func (s *QuestionService) publish(guildID, eventType string, payload interface{}) {
	if s.publisher != nil {
		s.publisher.Publish(guildID, eventType, payload)
	}
}
