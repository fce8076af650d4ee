package chat

import (
	"errors"
	"net/http"

	chatService "recipe-chat/internal/core/chat"
	"recipe-chat/internal/core/corpus"
	"recipe-chat/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecipeChatRequest is one user turn.
type RecipeChatRequest struct {
	Message   string `json:"message" binding:"required"`
	TopN      int    `json:"top_n,omitempty"`      // requested recipe count, clamped server-side
	SessionID string `json:"session_id,omitempty"` // omit to start a new session
}

// RetrievedRecipe is a matched corpus recipe with its similarity score.
type RetrievedRecipe struct {
	Recipe corpus.Recipe `json:"recipe"`
	Score  float64       `json:"score"`
}

// RecipeChatResponse carries the generated text and the raw matches behind it.
type RecipeChatResponse struct {
	Generated        string            `json:"generated"`
	RetrievedRecipes []RetrievedRecipe `json:"retrieved_recipes"`
	SessionID        string            `json:"session_id"`
	Source           string            `json:"source"`
}

// Handler serves the recipe chat endpoints.
type Handler struct {
	service *chatService.Service
}

// NewHandler creates a chat handler.
func NewHandler(service *chatService.Service) *Handler {
	return &Handler{service: service}
}

// HandleRecipeChat processes one user turn through the full pipeline.
func (h *Handler) HandleRecipeChat(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}

	var req RecipeChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("Invalid chat request",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": common.ErrEmptyInput.Message,
			"code":  common.ErrCodeEmptyInput,
		})
		return
	}

	common.LogInfo("Processing chat turn",
		zap.String("request_id", requestID),
		zap.Int("top_n", req.TopN),
		zap.String("client_ip", c.ClientIP()),
	)

	result, err := h.service.Respond(c.Request.Context(), req.Message, req.TopN, req.SessionID)
	if err != nil {
		var customErr *common.CustomError
		if errors.As(err, &customErr) {
			c.JSON(customErr.Status, gin.H{
				"error": customErr.Message,
				"code":  customErr.Code,
			})
			return
		}
		common.LogError("Chat turn failed",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": common.ErrInternalError.Message,
			"code":  common.ErrCodeInternalError,
		})
		return
	}

	retrieved := make([]RetrievedRecipe, 0, len(result.Retrieved))
	for _, m := range result.Retrieved {
		retrieved = append(retrieved, RetrievedRecipe{Recipe: m.Recipe, Score: m.Score})
	}

	c.JSON(http.StatusOK, RecipeChatResponse{
		Generated:        result.Generated,
		RetrievedRecipes: retrieved,
		SessionID:        result.SessionID,
		Source:           string(result.Source),
	})
}

// HandleHistory returns the ephemeral conversation log for a session.
func (h *Handler) HandleHistory(c *gin.Context) {
	sessionID := c.Param("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": common.ErrInvalidRequest.Message,
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"turns":      h.service.History(sessionID),
	})
}
