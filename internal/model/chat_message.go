package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

var (
	ErrInvalidChatRole  = errors.New("invalid_chat_role")
	ErrEmptyChatContent = errors.New("empty_chat_content")
)

// ChatMessage is one entry in the append-only assistant conversation log.
type ChatMessage struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

// NewChatMessage constructs a log entry stamped at now.
func NewChatMessage(role string, content string, now time.Time) (ChatMessage, error) {
	if role != ChatRoleUser && role != ChatRoleAssistant {
		return ChatMessage{}, ErrInvalidChatRole
	}
	if strings.TrimSpace(content) == "" {
		return ChatMessage{}, ErrEmptyChatContent
	}
	return ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: now.UnixMilli(),
	}, nil
}
