package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"financeiro/internal/core"
)

// ResyncMonthMessage asks a worker to rebuild one month sheet from the
// primary store.
type ResyncMonthMessage struct {
	ID          string    `json:"id"`
	Year        int       `json:"year"`
	Month       int       `json:"month"`
	RequestID   string    `json:"request_id,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewResyncMonthMessage creates a message with a fresh ID for key.
func NewResyncMonthMessage(key core.SheetKey, requestID string) *ResyncMonthMessage {
	return &ResyncMonthMessage{
		ID:          uuid.NewString(),
		Year:        key.Year,
		Month:       key.Month,
		RequestID:   requestID,
		RequestedAt: time.Now().UTC(),
	}
}

func (m *ResyncMonthMessage) Key() core.SheetKey {
	return core.SheetKey{Year: m.Year, Month: m.Month}
}

// ToJSON converts the message to JSON bytes
func (m *ResyncMonthMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ResyncMonthMessageFromJSON decodes and validates a message.
func ResyncMonthMessageFromJSON(data []byte) (*ResyncMonthMessage, error) {
	var msg ResyncMonthMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(msg.ID); err != nil {
		return nil, fmt.Errorf("message id: %w", err)
	}
	if err := msg.Key().Validate(); err != nil {
		return nil, fmt.Errorf("sheet %02d-%04d: %w", msg.Month, msg.Year, err)
	}
	return &msg, nil
}
