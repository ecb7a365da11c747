package core

import (
	"CalAssist/entity"
	"CalAssist/internal/lib/ticket"
	"context"
	"fmt"
	"time"
)

const wsTicketTTL = 2 * time.Minute

func (c *Core) lookupUser(email, phone string, telegramId int64) (*entity.User, error) {
	if c.authService == nil {
		return nil, fmt.Errorf("auth service not initialized")
	}

	user, err := c.authService.GetUser(email, phone, telegramId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	return user, nil
}

func (c *Core) ListAppointments(email, phone string, telegramId int64, from, to time.Time) ([]entity.Appointment, error) {
	if c.scheduler == nil {
		return nil, fmt.Errorf("scheduler not initialized")
	}

	user, err := c.lookupUser(email, phone, telegramId)
	if err != nil {
		return nil, err
	}

	return c.scheduler.List(context.Background(), user.UUID, from, to)
}

func (c *Core) CancelAppointment(email, phone string, telegramId int64, id string) (*entity.Appointment, error) {
	if c.scheduler == nil {
		return nil, fmt.Errorf("scheduler not initialized")
	}

	user, err := c.lookupUser(email, phone, telegramId)
	if err != nil {
		return nil, err
	}

	return c.scheduler.Cancel(context.Background(), user.UUID, id)
}

// WsTicket issues a signed short-lived URL for the events socket.
func (c *Core) WsTicket(email, phone string, telegramId int64) (string, error) {
	if c.ticketSecret == "" {
		return "", fmt.Errorf("ws tickets not configured")
	}

	user, err := c.lookupUser(email, phone, telegramId)
	if err != nil {
		return "", err
	}

	return ticket.Sign(user.UUID, c.ticketSecret, wsTicketTTL), nil
}

// VerifyWsTicket checks a ticket presented on a ws upgrade.
func (c *Core) VerifyWsTicket(userUUID, expires, sig string) bool {
	if c.ticketSecret == "" {
		return false
	}
	return ticket.Verify(userUUID, expires, sig, c.ticketSecret)
}
