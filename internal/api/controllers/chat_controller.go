package apicontrollers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/skchalotra/skgpt/internal/domain/errs"
	"github.com/skchalotra/skgpt/internal/domain/services"
	"github.com/skchalotra/skgpt/internal/impl/defaults"
)

type ChatController struct {
	logger      *zap.Logger
	chatService services.ChatService
}

func NewChatController(logger *zap.Logger, chatService services.ChatService) *ChatController {
	return &ChatController{
		logger:      logger,
		chatService: chatService,
	}
}

// RegisterRoutes registers all chat-related routes with Echo
func (c *ChatController) RegisterRoutes(e *echo.Echo) {
	e.GET("/", c.Welcome)
	e.POST("/chat", c.Chat)
}

// ChatRequest represents the request body for a chat turn.
type ChatRequest struct {
	Message        string `json:"message" example:"What is 2+2?"`
	ConversationID string `json:"conversationId" example:"c1"`
}

// ChatResponse carries the assistant answer or an error description.
type ChatResponse struct {
	Message string `json:"message" example:"4"`
}

// Welcome godoc
// @Summary Welcome message
// @Description Returns a plain-text greeting.
// @Tags chat
// @Produce plain
// @Success 200 {string} string "Welcome text"
// @Router / [get]
func (c *ChatController) Welcome(ctx echo.Context) error {
	return ctx.String(http.StatusOK, defaults.WelcomeMessage)
}

// Chat godoc
// @Summary Send a message
// @Description Runs one turn of the conversation identified by conversationId and returns the answer.
// @Tags chat
// @Accept json
// @Produce json
// @Param request body ChatRequest true "Message and conversation id"
// @Success 200 {object} ChatResponse "Assistant answer"
// @Failure 400 {object} ChatResponse "Missing message or conversationId"
// @Failure 500 {object} ChatResponse "Completion service failure"
// @Router /chat [post]
func (c *ChatController) Chat(ctx echo.Context) error {
	var input ChatRequest
	if err := ctx.Bind(&input); err != nil {
		return c.handleError(ctx, defaults.BadRequestMessage, http.StatusBadRequest)
	}
	if input.Message == "" || input.ConversationID == "" {
		return c.handleError(ctx, defaults.BadRequestMessage, http.StatusBadRequest)
	}

	c.logger.Info("Message", zap.String("conversation_id", input.ConversationID), zap.String("message", input.Message))

	answer, err := c.chatService.Generate(ctx.Request().Context(), input.ConversationID, input.Message)
	if err != nil {
		var validationErr *errs.ValidationError
		if errors.As(err, &validationErr) {
			return c.handleError(ctx, defaults.BadRequestMessage, http.StatusBadRequest)
		}
		return c.handleError(ctx, err.Error(), http.StatusInternalServerError)
	}

	return ctx.JSON(http.StatusOK, ChatResponse{Message: answer})
}

// handleError handles errors and returns them in a consistent format
func (c *ChatController) handleError(ctx echo.Context, message string, statusCode int) error {
	c.logger.Error("Error occurred", zap.Int("status", statusCode), zap.String("error", message))
	return ctx.JSON(statusCode, ChatResponse{Message: message})
}
