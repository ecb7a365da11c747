package core

import (
	"CalAssist/entity"
	"context"
	"fmt"
)

// AuthenticateByToken resolves an API token to its owner. The configured
// master key always authenticates as admin; other keys are looked up in
// the repository.
func (c *Core) AuthenticateByToken(token string) (*entity.UserAuth, error) {
	if token == "" {
		return nil, fmt.Errorf("empty token")
	}

	if c.authKey != "" && token == c.authKey {
		return &entity.UserAuth{Username: "admin", Key: token}, nil
	}

	if c.repo == nil {
		return nil, fmt.Errorf("unknown token")
	}

	username, err := c.repo.CheckApiKey(token)
	if err != nil {
		return nil, fmt.Errorf("unknown token: %w", err)
	}

	return &entity.UserAuth{Username: username, Key: token}, nil
}

func (c *Core) GenerateApiKey(username string) (string, error) {
	if c.repo == nil {
		return "", fmt.Errorf("repository not initialized")
	}
	return c.repo.GenerateApiKey(username)
}

func (c *Core) GoogleLoginURL(email, phone string, telegramId int64) (string, error) {
	if c.calendarAuth == nil {
		return "", fmt.Errorf("calendar integration not configured")
	}

	user, err := c.lookupUser(email, phone, telegramId)
	if err != nil {
		return "", err
	}

	return c.calendarAuth.LoginURL(user.UUID)
}

func (c *Core) HandleGoogleCallback(state, code string) error {
	if c.calendarAuth == nil {
		return fmt.Errorf("calendar integration not configured")
	}
	return c.calendarAuth.HandleCallback(context.Background(), state, code)
}
