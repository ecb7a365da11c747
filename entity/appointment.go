package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const DefaultDuration = 30 * time.Minute

type Appointment struct {
	ID            string    `json:"id" bson:"id"`
	UserUUID      string    `json:"user_uuid" bson:"user_uuid" validate:"required"`
	Title         string    `json:"title" bson:"title" validate:"required"`
	Description   string    `json:"description" bson:"description" validate:"omitempty"`
	Location      string    `json:"location" bson:"location" validate:"omitempty"`
	StartAt       time.Time `json:"start_at" bson:"start_at" validate:"required"`
	EndAt         time.Time `json:"end_at" bson:"end_at" validate:"required"`
	GoogleEventId string    `json:"google_event_id,omitempty" bson:"google_event_id"`
	ReminderSent  bool      `json:"reminder_sent" bson:"reminder_sent"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}

// AppointmentInput is what the schedule tool and the REST API accept.
// Times are RFC 3339 strings so the LLM can emit them directly.
type AppointmentInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"omitempty"`
	Location    string `json:"location" validate:"omitempty"`
	StartAt     string `json:"start_at" validate:"required"`
	EndAt       string `json:"end_at" validate:"omitempty"`
}

func NewAppointment(userUUID string, input AppointmentInput) (*Appointment, error) {
	startAt, err := time.Parse(time.RFC3339, input.StartAt)
	if err != nil {
		return nil, fmt.Errorf("invalid start_at %q: %w", input.StartAt, err)
	}

	endAt := startAt.Add(DefaultDuration)
	if input.EndAt != "" {
		endAt, err = time.Parse(time.RFC3339, input.EndAt)
		if err != nil {
			return nil, fmt.Errorf("invalid end_at %q: %w", input.EndAt, err)
		}
	}

	return &Appointment{
		ID:          uuid.NewString(),
		UserUUID:    userUUID,
		Title:       input.Title,
		Description: input.Description,
		Location:    input.Location,
		StartAt:     startAt,
		EndAt:       endAt,
		CreatedAt:   time.Now(),
	}, nil
}

func (a *Appointment) CheckTimes(now time.Time) error {
	if !a.StartAt.Before(a.EndAt) {
		return fmt.Errorf("appointment must start before it ends")
	}
	if a.StartAt.Before(now) {
		return fmt.Errorf("appointment start is in the past")
	}
	return nil
}

// StartsWithin reports whether the appointment begins inside [now, now+lead].
// Appointments already started are not due, they are missed.
func (a *Appointment) StartsWithin(now time.Time, lead time.Duration) bool {
	if a.StartAt.Before(now) {
		return false
	}
	return !a.StartAt.After(now.Add(lead))
}

func (a *Appointment) StartsIn(now time.Time) time.Duration {
	return a.StartAt.Sub(now).Round(time.Minute)
}
