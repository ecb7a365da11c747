package core

import (
	"CalAssist/entity"
	"context"
	"fmt"
)

func (c *Core) ComposeResponse(ctx context.Context, msg entity.HttpUserMsg) (*entity.AiAnswer, error) {
	if c.ass == nil {
		return nil, fmt.Errorf("assistant not initialized")
	}
	if c.authService == nil {
		return nil, fmt.Errorf("auth service not initialized")
	}

	user, err := c.authService.RegisterUser(msg.Email, msg.Phone, msg.TelegramId)
	if err != nil {
		return nil, err
	}

	if user.Blocked {
		return nil, fmt.Errorf("user is blocked")
	}

	answer, err := c.ass.ComposeResponse(ctx, user, msg.Message)
	if err != nil {
		return nil, err
	}

	if c.broadcaster != nil {
		for _, appointment := range answer.Appointments {
			c.broadcaster.BroadcastAppointment(user.UUID, appointment)
		}
	}

	return &answer, nil
}

func (c *Core) ResetConversation(email, phone string, telegramId int64) error {
	user, err := c.authService.GetUser(email, phone, telegramId)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user not found")
	}

	c.ass.ResetConversation(user.UUID)
	return nil
}
