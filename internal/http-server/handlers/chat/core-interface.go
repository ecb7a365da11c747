package chat

import (
	"CalAssist/entity"
	"context"
)

type Core interface {
	ComposeResponse(ctx context.Context, msg entity.HttpUserMsg) (*entity.AiAnswer, error)
	ResetConversation(email, phone string, telegramId int64) error
}
