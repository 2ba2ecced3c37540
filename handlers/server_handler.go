package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"answerly/middleware"
	"answerly/models"
	"answerly/services"

	"github.com/gin-gonic/gin"
)

const (
	msgCreated      = "Question created successfully!"
	msgUpdated      = "Question updated successfully!"
	msgDeleted      = "Question deleted successfully!"
	msgEmptyFields  = "Question and Answer cannot be empty."
	msgLimitReached = "Limit reached: Maximum %d questions per server."
)

type ServerHandler struct {
	questions *services.QuestionService
	sessions  *middleware.SessionManager
}

func NewServerHandler(questions *services.QuestionService, sessions *middleware.SessionManager) *ServerHandler {
	return &ServerHandler{
		questions: questions,
		sessions:  sessions,
	}
}

func (h *ServerHandler) Show(c *gin.Context) {
	guildID := c.Param("guild_id")
	guild := middleware.CurrentGuild(c)
	if guild == nil {
		guild = &models.Guild{ID: guildID}
	}

	c.HTML(http.StatusOK, "server.html", gin.H{
		"guild":     guild,
		"guild_id":  guildID,
		"questions": h.questions.ListQuestions(c.Request.Context(), guildID),
		"max":       h.questions.MaxPerGuild(),
		"flashes":   h.sessions.PopFlashes(c),
	})
}

func (h *ServerHandler) Save(c *gin.Context) {
	guildID := c.Param("guild_id")

	var req services.SaveQuestionRequest
	if err := c.ShouldBind(&req); err != nil {
		h.sessions.AddFlash(c, models.FlashError, msgEmptyFields)
		h.redirect(c, guildID)
		return
	}

	created, err := h.questions.Save(c.Request.Context(), guildID, req)
	switch {
	case err == nil && created:
		h.sessions.AddFlash(c, models.FlashSuccess, msgCreated)
	case err == nil:
		h.sessions.AddFlash(c, models.FlashSuccess, msgUpdated)
	case errors.Is(err, services.ErrEmptyQuestion):
		h.sessions.AddFlash(c, models.FlashError, msgEmptyFields)
	case errors.Is(err, services.ErrQuestionLimitReached):
		h.sessions.AddFlash(c, models.FlashError, fmt.Sprintf(msgLimitReached, h.questions.MaxPerGuild()))
	case created:
		slog.Error("failed to create question", slog.String("guild_id", guildID), slog.Any("err", err))
		h.sessions.AddFlash(c, models.FlashError, "Error creating: "+err.Error())
	default:
		slog.Error("failed to update question", slog.String("guild_id", guildID), slog.Any("err", err))
		h.sessions.AddFlash(c, models.FlashError, "Error updating: "+err.Error())
	}
	h.redirect(c, guildID)
}

func (h *ServerHandler) Delete(c *gin.Context) {
	guildID := c.Param("guild_id")

	if err := h.questions.DeleteQuestion(c.Request.Context(), guildID, c.PostForm("id")); err != nil {
		slog.Error("failed to delete question", slog.String("guild_id", guildID), slog.Any("err", err))
		h.sessions.AddFlash(c, models.FlashError, "Error deleting question: "+err.Error())
	} else {
		h.sessions.AddFlash(c, models.FlashSuccess, msgDeleted)
	}
	h.redirect(c, guildID)
}

func (h *ServerHandler) redirect(c *gin.Context, guildID string) {
	c.Redirect(http.StatusFound, "/server/"+guildID)
}
