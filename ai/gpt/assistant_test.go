package gpt

import (
	"CalAssist/entity"
	"context"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMessageRepo struct {
	saved  []entity.Message
	stored []entity.Message
}

func (r *stubMessageRepo) SaveMessage(msg entity.Message) error {
	r.saved = append(r.saved, msg)
	return nil
}

// GetMessages mimics the store: newest first, capped at limit.
func (r *stubMessageRepo) GetMessages(userUUID string, limit int) ([]entity.Message, error) {
	var result []entity.Message
	for i := len(r.stored) - 1; i >= 0 && len(result) < limit; i-- {
		if r.stored[i].UserUUID == userUUID {
			result = append(result, r.stored[i])
		}
	}
	return result, nil
}

func TestConversationRestoresPersistedHistory(t *testing.T) {
	now := time.Now()
	repo := &stubMessageRepo{stored: []entity.Message{
		{UserUUID: "user-1", Direction: entity.DirectionIncoming, Text: "book a dentist", CreatedAt: now},
		{UserUUID: "user-1", Direction: entity.DirectionOutgoing, Text: "booked for tomorrow", CreatedAt: now},
	}}

	assistant := newTestAssistant(newStubScheduler())
	assistant.repo = repo
	user := &entity.User{UUID: "user-1"}

	messages := assistant.conversation(user, "what did I book?")

	require.Len(t, messages, 4)
	assert.Equal(t, openai.ChatMessageRoleSystem, messages[0].Role)
	assert.Equal(t, openai.ChatMessageRoleUser, messages[1].Role)
	assert.Equal(t, "book a dentist", messages[1].Content)
	assert.Equal(t, openai.ChatMessageRoleAssistant, messages[2].Role)
	assert.Equal(t, "booked for tomorrow", messages[2].Content)
	assert.Equal(t, "what did I book?", messages[3].Content)
}

func TestResetConversationSticksOverRestore(t *testing.T) {
	repo := &stubMessageRepo{stored: []entity.Message{
		{UserUUID: "user-1", Direction: entity.DirectionIncoming, Text: "old turn"},
	}}

	assistant := newTestAssistant(newStubScheduler())
	assistant.repo = repo
	user := &entity.User{UUID: "user-1"}

	assistant.ResetConversation("user-1")
	messages := assistant.conversation(user, "hello")

	require.Len(t, messages, 2, "reset must not pull the persisted transcript back in")
	assert.Equal(t, openai.ChatMessageRoleSystem, messages[0].Role)
	assert.Equal(t, "hello", messages[1].Content)
}

func TestRestoreHistoryScopedToUser(t *testing.T) {
	repo := &stubMessageRepo{stored: []entity.Message{
		{UserUUID: "user-2", Direction: entity.DirectionIncoming, Text: "someone else"},
	}}

	assistant := newTestAssistant(newStubScheduler())
	assistant.repo = repo

	assert.Empty(t, assistant.restoreHistory("user-1"))
}

func TestComposeResponseHonorsCancelledContext(t *testing.T) {
	assistant := newTestAssistant(newStubScheduler())
	assistant.client = openai.NewClient("test-key")
	user := &entity.User{UUID: "user-1"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := assistant.ComposeResponse(ctx, user, "hello")

	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second, "cancelled turns must not sit in the retry loop")
}
