package events

import (
	"github.com/kelindar/event"
	"go.uber.org/zap"

	"github.com/skchalotra/skgpt/internal/domain/entities"
)

// Event types
const (
	ToolCallCompletedEventType uint32 = 1
)

// ToolCallCompletedData is emitted once the tool result is known
type ToolCallCompletedData struct {
	Event *entities.ToolCallEvent
}

// Type implements the Event interface
func (t ToolCallCompletedData) Type() uint32 {
	return ToolCallCompletedEventType
}

// PublishToolCallCompleted publishes a tool call completion event
func PublishToolCallCompleted(toolEvent *entities.ToolCallEvent) {
	event.Emit(ToolCallCompletedData{Event: toolEvent})
}

// SubscribeToToolCallCompleted subscribes to tool call completion events.
// Handlers run asynchronously and may see events after the turn returned.
func SubscribeToToolCallCompleted(handler func(data ToolCallCompletedData)) func() {
	return event.On(handler)
}

// LogToolCalls writes one log entry per completed tool call until the
// returned function is called.
func LogToolCalls(logger *zap.Logger) func() {
	return SubscribeToToolCallCompleted(func(data ToolCallCompletedData) {
		fields := []zap.Field{
			zap.String("tool_name", data.Event.ToolName),
			zap.String("tool_call_id", data.Event.ToolCallID),
			zap.Int("result_length", len(data.Event.Result)),
		}
		if data.Event.Error != "" {
			logger.Warn("Tool call failed", append(fields, zap.String("error", data.Event.Error))...)
			return
		}
		logger.Info("Tool call completed", fields...)
	})
}
