package scheduler

import (
	"CalAssist/entity"
	"CalAssist/internal/lib/clock"
	"CalAssist/internal/lib/sl"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
)

var ErrNotFound = errors.New("appointment not found")

type Repository interface {
	InsertAppointment(appointment entity.Appointment) error
	GetAppointment(userUUID, id string) (*entity.Appointment, error)
	GetAppointments(userUUID string, from, to time.Time) ([]entity.Appointment, error)
	DeleteAppointment(userUUID, id string) (*entity.Appointment, error)
	SetGoogleEventId(id, eventId string) error
}

type CalendarService interface {
	InsertEvent(ctx context.Context, userUUID string, appointment entity.Appointment) (string, error)
	DeleteEvent(ctx context.Context, userUUID, eventId string) error
}

// Service owns the three appointment operations behind the chat tools and
// the REST API. Persistence always happens first; the calendar mirror is
// best effort and never fails the local operation.
type Service struct {
	repo     Repository
	calendar CalendarService
	validate *validator.Validate
	clock    clock.Clock
	log      *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	return &Service{
		validate: validator.New(),
		clock:    clock.SystemClock{},
		log:      logger.With(sl.Module("scheduler")),
	}
}

func (s *Service) SetRepository(repo Repository) {
	s.repo = repo
}

func (s *Service) SetCalendar(calendar CalendarService) {
	s.calendar = calendar
}

func (s *Service) SetClock(c clock.Clock) {
	s.clock = c
}

func (s *Service) Schedule(ctx context.Context, userUUID string, input entity.AppointmentInput) (*entity.Appointment, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid appointment: %w", err)
	}

	appointment, err := entity.NewAppointment(userUUID, input)
	if err != nil {
		return nil, err
	}

	if err := appointment.CheckTimes(s.clock.Now()); err != nil {
		return nil, err
	}

	if err := s.repo.InsertAppointment(*appointment); err != nil {
		return nil, err
	}

	s.log.With(
		slog.String("userUUID", userUUID),
		slog.String("id", appointment.ID),
		slog.String("title", appointment.Title),
		slog.Time("start_at", appointment.StartAt),
	).Info("appointment scheduled")

	s.mirror(ctx, appointment)

	return appointment, nil
}

// mirror pushes the appointment to the external calendar. The local
// record is already persisted, so mirror failures only lose the copy.
func (s *Service) mirror(ctx context.Context, appointment *entity.Appointment) {
	if s.calendar == nil {
		return
	}

	eventId, err := s.calendar.InsertEvent(ctx, appointment.UserUUID, *appointment)
	if err != nil {
		s.log.With(
			slog.String("id", appointment.ID),
			sl.Err(err),
		).Warn("mirroring appointment to calendar")
		return
	}

	if err := s.repo.SetGoogleEventId(appointment.ID, eventId); err != nil {
		s.log.With(
			slog.String("id", appointment.ID),
			sl.Err(err),
		).Error("storing calendar event id")
		return
	}

	appointment.GoogleEventId = eventId
}

func (s *Service) List(ctx context.Context, userUUID string, from, to time.Time) ([]entity.Appointment, error) {
	return s.repo.GetAppointments(userUUID, from, to)
}

func (s *Service) Cancel(ctx context.Context, userUUID, id string) (*entity.Appointment, error) {
	deleted, err := s.repo.DeleteAppointment(userUUID, id)
	if err != nil {
		return nil, err
	}
	if deleted == nil {
		return nil, ErrNotFound
	}

	s.log.With(
		slog.String("userUUID", userUUID),
		slog.String("id", id),
		slog.String("title", deleted.Title),
	).Info("appointment cancelled")

	if s.calendar != nil && deleted.GoogleEventId != "" {
		if err := s.calendar.DeleteEvent(ctx, userUUID, deleted.GoogleEventId); err != nil {
			s.log.With(
				slog.String("id", id),
				slog.String("event_id", deleted.GoogleEventId),
				sl.Err(err),
			).Warn("deleting mirrored calendar event")
		}
	}

	return deleted, nil
}
