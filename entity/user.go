package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	UUID       string    `json:"uuid" bson:"uuid"`
	Name       string    `json:"name" bson:"name" validate:"omitempty"`
	Email      string    `json:"email" bson:"email" validate:"omitempty,email"`
	Phone      string    `json:"phone" bson:"phone" validate:"omitempty"`
	TelegramId int64     `json:"telegram_id" bson:"telegram_id" validate:"omitempty"`
	Timezone   string    `json:"timezone" bson:"timezone" validate:"omitempty"`
	Blocked    bool      `json:"blocked" bson:"blocked" validate:"omitempty"`
	LastSeen   time.Time `json:"last_seen" bson:"lastSeen"`
}

func NewUser(email, phone string, telegramId int64) *User {
	return &User{
		UUID:       uuid.NewString(),
		Email:      email,
		Phone:      phone,
		TelegramId: telegramId,
		Blocked:    false,
		LastSeen:   time.Now(),
	}
}

func (u *User) SameUser(other *User) bool {
	if other == nil {
		return false
	}

	if u.TelegramId != 0 && other.TelegramId != 0 {
		return u.TelegramId == other.TelegramId
	}

	if u.Email != "" && other.Email != "" {
		return u.Email == other.Email
	}

	if u.Phone != "" && other.Phone != "" {
		return u.Phone == other.Phone
	}

	return false
}

// Location resolves the user's timezone, falling back to the given default
// and finally to UTC. Relative dates in chat are interpreted in it.
func (u *User) Location(fallback string) *time.Location {
	for _, tz := range []string{u.Timezone, fallback} {
		if tz == "" {
			continue
		}
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.UTC
}
