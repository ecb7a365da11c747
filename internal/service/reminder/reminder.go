package reminder

import (
	"CalAssist/entity"
	"CalAssist/internal/config"
	"CalAssist/internal/lib/clock"
	"CalAssist/internal/lib/sl"
	"context"
	"log/slog"
	"time"
)

type Repository interface {
	GetDueAppointments(now time.Time, lead time.Duration) ([]entity.Appointment, error)
	MarkReminderSent(id string) (bool, error)
	GetUserByUUID(uuid string) (*entity.User, error)
}

// Notifier delivers a reminder somewhere besides the console log, e.g.
// the ws hub or the Telegram bot.
type Notifier interface {
	NotifyReminder(user *entity.User, appointment entity.Appointment)
}

// Service scans stored appointments once per interval and reminds about
// those starting within the lead window. The console log line emitted at
// Info level is the primary reminder channel.
type Service struct {
	repo      Repository
	notifiers []Notifier
	lead      time.Duration
	interval  time.Duration
	clock     clock.Clock
	log       *slog.Logger
}

func NewService(conf *config.Config, logger *slog.Logger) *Service {
	return &Service{
		lead:     time.Duration(conf.Reminder.LeadMinutes) * time.Minute,
		interval: time.Duration(conf.Reminder.ScanSeconds) * time.Second,
		clock:    clock.SystemClock{},
		log:      logger.With(sl.Module("reminder")),
	}
}

func (s *Service) SetRepository(repo Repository) {
	s.repo = repo
}

func (s *Service) SetClock(c clock.Clock) {
	s.clock = c
}

func (s *Service) AddNotifier(n Notifier) {
	s.notifiers = append(s.notifiers, n)
}

// Start runs the scan loop until the context is cancelled. Call in a
// goroutine.
func (s *Service) Start(ctx context.Context) {
	s.log.With(
		slog.Duration("lead", s.lead),
		slog.Duration("interval", s.interval),
	).Info("reminder scan started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("reminder scan stopped")
			return
		case <-ticker.C:
			s.Scan()
		}
	}
}

// Scan performs one pass: find appointments starting inside
// [now, now+lead] with no reminder sent, claim each atomically and
// notify. Safe to call concurrently.
func (s *Service) Scan() {
	now := s.clock.Now()

	due, err := s.repo.GetDueAppointments(now, s.lead)
	if err != nil {
		s.log.Error("fetching due appointments", sl.Err(err))
		return
	}

	for _, appointment := range due {
		if !appointment.StartsWithin(now, s.lead) {
			continue
		}

		claimed, err := s.repo.MarkReminderSent(appointment.ID)
		if err != nil {
			s.log.With(
				slog.String("id", appointment.ID),
				sl.Err(err),
			).Error("marking reminder sent")
			continue
		}
		if !claimed {
			// another scan got there first
			continue
		}

		s.remind(appointment, now)
	}
}

func (s *Service) remind(appointment entity.Appointment, now time.Time) {
	s.log.With(
		slog.String("id", appointment.ID),
		slog.String("userUUID", appointment.UserUUID),
		slog.String("title", appointment.Title),
		slog.Time("start_at", appointment.StartAt),
		slog.Duration("starts_in", appointment.StartsIn(now)),
	).Info("appointment reminder")

	if len(s.notifiers) == 0 {
		return
	}

	user, err := s.repo.GetUserByUUID(appointment.UserUUID)
	if err != nil || user == nil {
		s.log.With(
			slog.String("userUUID", appointment.UserUUID),
		).Warn("reminder user lookup failed")
		user = &entity.User{UUID: appointment.UserUUID}
	}

	for _, n := range s.notifiers {
		n.NotifyReminder(user, appointment)
	}
}
