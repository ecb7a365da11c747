package appointment

import (
	"CalAssist/entity"
	"time"
)

type Core interface {
	ListAppointments(email, phone string, telegramId int64, from, to time.Time) ([]entity.Appointment, error)
	CancelAppointment(email, phone string, telegramId int64, id string) (*entity.Appointment, error)
}
