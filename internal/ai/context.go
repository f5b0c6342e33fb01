package ai

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/nhle/sarnrak/internal/model"
)

// ContextSummary describes the plan in one line for the advice prompt.
func ContextSummary(rec model.WeddingRecord) string {
	return fmt.Sprintf("Wedding for %s & %s, Theme: %s, Budget: %s, Guests: %d",
		rec.CoupleNames.Bride, rec.CoupleNames.Groom, rec.Theme.Name,
		strconv.FormatFloat(rec.BudgetTotal, 'f', -1, 64), len(rec.Guests))
}

// Role identifies the sender of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single entry of the advice conversation.
type Message struct {
	Role    Role
	Content string
}

// History keeps the advice conversation shown in the chat panel, trimming
// the oldest exchanges once the limit is reached. The first message is
// always kept.
type History struct {
	mu          sync.Mutex
	messages    []Message
	maxMessages int
}

// NewHistory creates a history holding at most maxMessages messages. A
// non-positive limit means 20.
func NewHistory(maxMessages int) *History {
	if maxMessages <= 0 {
		maxMessages = 20
	}
	return &History{
		messages:    make([]Message, 0, maxMessages),
		maxMessages: maxMessages,
	}
}

// Add appends a message.
func (h *History) Add(role Role, content string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.messages = append(h.messages, Message{Role: role, Content: content})

	if len(h.messages) > h.maxMessages {
		trimmed := make([]Message, 0, h.maxMessages)
		trimmed = append(trimmed, h.messages[0])
		excess := len(h.messages) - h.maxMessages
		trimmed = append(trimmed, h.messages[1+excess:]...)
		h.messages = trimmed
	}
}

// Messages returns a copy of the conversation.
func (h *History) Messages() []Message {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Reset clears the conversation.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = h.messages[:0]
}

// Len returns the number of messages held.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.messages)
}
