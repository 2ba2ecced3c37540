package services_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"answerly/models"
	"answerly/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSQLStore(t *testing.T) (*services.SQLQuestionStore, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "questions.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	store, err := services.NewSQLQuestionStore(db)
	require.NoError(t, err)
	return store, db
}

func seedQuestions(t *testing.T, store *services.SQLQuestionStore, guildID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, store.Insert(context.Background(), &models.Question{
			ID:       fmt.Sprintf("%s%06d", guildID, i),
			GuildID:  guildID,
			Question: fmt.Sprintf("q%d", i),
			Answer:   fmt.Sprintf("a%d", i),
			Author:   services.WebDashboardAuthor,
		}))
	}
}

func TestSQLStore_CRUD(t *testing.T) {
	store, _ := newSQLStore(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, &models.Question{ID: "00000001", GuildID: "42", Question: "q", Answer: "a", Author: "Web Dashboard"}))
	require.NoError(t, store.Insert(ctx, &models.Question{ID: "00000002", GuildID: "7", Question: "other", Answer: "tenant"}))

	questions, err := store.List(ctx, "42")
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, 0, questions[0].TimesSent)

	require.NoError(t, store.Update(ctx, "42", "00000001", models.QuestionUpdate{Question: "q2", Answer: "a2"}))
	questions, err = store.List(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, models.Question{ID: "00000001", GuildID: "42", Question: "q2", Answer: "a2", Author: "Web Dashboard"}, questions[0])

	// update and delete never cross tenants
	require.NoError(t, store.Update(ctx, "42", "00000002", models.QuestionUpdate{Question: "x", Answer: "y"}))
	require.NoError(t, store.Delete(ctx, "42", "00000002"))
	others, err := store.List(ctx, "7")
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.Equal(t, "other", others[0].Question)

	require.NoError(t, store.Delete(ctx, "42", "00000001"))
	count, err := store.Count(ctx, "42")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSQLStore_DuplicateIDConflicts(t *testing.T) {
	store, _ := newSQLStore(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, &models.Question{ID: "12345678", GuildID: "42", Question: "q", Answer: "a"}))
	err := store.Insert(ctx, &models.Question{ID: "12345678", GuildID: "7", Question: "q", Answer: "a"})
	require.ErrorIs(t, err, services.ErrQuestionIDConflict)
}

func TestSQLStore_InsertCappedStopsAtMax(t *testing.T) {
	store, _ := newSQLStore(t)
	ctx := context.Background()
	seedQuestions(t, store, "42", 29)

	require.NoError(t, store.InsertCapped(ctx, &models.Question{ID: "99999999", GuildID: "42", Question: "q", Answer: "a"}, 30))

	err := store.InsertCapped(ctx, &models.Question{ID: "88888888", GuildID: "42", Question: "q", Answer: "a"}, 30)
	require.ErrorIs(t, err, services.ErrQuestionLimitReached)

	count, err := store.Count(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, 30, count)
}

func TestQuestionService_TenantAtCapStaysAtCap(t *testing.T) {
	store, _ := newSQLStore(t)
	ctx := context.Background()
	seedQuestions(t, store, "42", 30)

	svc, err := services.NewQuestionService(services.QuestionServiceConfig{Store: store})
	require.NoError(t, err)

	created, err := svc.Save(ctx, "42", services.SaveQuestionRequest{Question: "one more", Answer: "no"})
	assert.True(t, created)
	require.ErrorIs(t, err, services.ErrQuestionLimitReached)

	count, err := store.Count(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, 30, count)
}

func TestQuestionService_CreateAgainstSQL(t *testing.T) {
	store, _ := newSQLStore(t)
	ctx := context.Background()

	svc, err := services.NewQuestionService(services.QuestionServiceConfig{Store: store})
	require.NoError(t, err)

	question, err := svc.CreateQuestion(ctx, "42", "q", "a")
	require.NoError(t, err)

	questions := svc.ListQuestions(ctx, "42")
	require.Len(t, questions, 1)
	assert.Equal(t, question.ID, questions[0].ID)
	assert.Len(t, questions[0].ID, 8)
	assert.Equal(t, services.WebDashboardAuthor, questions[0].Author)
}
