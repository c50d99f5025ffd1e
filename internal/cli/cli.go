package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skchalotra/skgpt/internal/domain/entities"
	"github.com/skchalotra/skgpt/internal/domain/services"
	"github.com/skchalotra/skgpt/internal/impl/defaults"
)

// CLI is the terminal chat loop. It keeps a single history for the lifetime
// of the process and does not use the conversation store.
type CLI struct {
	chatService services.ChatService
	in          io.Reader
	out         io.Writer
	logger      *zap.Logger
	sessionID   string

	userStyle      lipgloss.Style
	assistantStyle lipgloss.Style
	noticeStyle    lipgloss.Style
}

func NewCLI(chatService services.ChatService, in io.Reader, out io.Writer, logger *zap.Logger) *CLI {
	renderer := lipgloss.NewRenderer(out)
	c := &CLI{
		chatService:    chatService,
		in:             in,
		out:            out,
		logger:         logger,
		sessionID:      uuid.New().String(),
		userStyle:      renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		assistantStyle: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		noticeStyle:    renderer.NewStyle().Italic(true).Foreground(lipgloss.Color("8")),
	}
	chatService.OnToolCall(c.toolCallStarted)
	return c
}

// Run reads lines until "bye" or end of input. A failed completion call ends
// the loop with the error.
func (c *CLI) Run(ctx context.Context) error {
	c.logger.Debug("Console session started", zap.String("session_id", c.sessionID))
	fmt.Fprintln(c.out, "mr.sk GPT console. Type 'bye' to exit.")

	history := c.chatService.NewHistory()
	scanner := bufio.NewScanner(c.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(c.out, c.userStyle.Render("User:")+" ")
		if !scanner.Scan() {
			fmt.Fprintln(c.out)
			return scanner.Err()
		}

		userInput := scanner.Text()
		if services.IsFarewell(userInput) {
			fmt.Fprintln(c.out, defaults.FarewellMessage)
			return nil
		}

		messages, answer, err := c.chatService.Reply(ctx, history, userInput)
		if err != nil {
			c.logger.Error("Failed to get a reply", zap.String("session_id", c.sessionID), zap.Error(err))
			return fmt.Errorf("chat turn failed: %w", err)
		}
		history = messages

		fmt.Fprintln(c.out, c.assistantStyle.Render("Assistant:")+" "+answer)
	}
}

func (c *CLI) toolCallStarted(toolCall entities.ToolCall) {
	if toolCall.Function.Name == string(entities.ToolWebSearch) {
		fmt.Fprintln(c.out, c.noticeStyle.Render("Searching the web for information..."))
	}
}
