package core

import (
	"CalAssist/entity"
	"CalAssist/internal/lib/sl"
	"context"
	"log/slog"
	"time"
)

type Repository interface {
	CheckApiKey(key string) (string, error)
	GenerateApiKey(username string) (string, error)

	EnsureAppointmentIndexes() error
	EnsureMessageIndexes() error
}

type Assistant interface {
	ComposeResponse(ctx context.Context, user *entity.User, userMsg string) (entity.AiAnswer, error)
	ResetConversation(userUUID string)
}

type AuthService interface {
	RegisterUser(email, phone string, telegramId int64) (*entity.User, error)
	GetUser(email, phone string, telegramId int64) (*entity.User, error)
	GetUserByUUID(uuid string) (*entity.User, error)
}

type SchedulerService interface {
	List(ctx context.Context, userUUID string, from, to time.Time) ([]entity.Appointment, error)
	Cancel(ctx context.Context, userUUID, id string) (*entity.Appointment, error)
}

type CalendarAuth interface {
	LoginURL(userUUID string) (string, error)
	HandleCallback(ctx context.Context, state, code string) error
}

type Broadcaster interface {
	BroadcastAppointment(userUUID string, appointment entity.Appointment)
}

type Core struct {
	repo         Repository
	ass          Assistant
	authService  AuthService
	scheduler    SchedulerService
	calendarAuth CalendarAuth
	broadcaster  Broadcaster
	authKey      string
	ticketSecret string
	log          *slog.Logger
}

func New(log *slog.Logger) *Core {
	return &Core{
		log: log.With(sl.Module("core")),
	}
}

func (c *Core) SetRepository(repo Repository) {
	c.repo = repo
}

func (c *Core) SetAuthKey(key string) {
	c.authKey = key
}

func (c *Core) SetTicketSecret(secret string) {
	c.ticketSecret = secret
}

func (c *Core) SetAssistant(ass Assistant) {
	c.ass = ass
}

func (c *Core) SetAuthService(auth AuthService) {
	c.authService = auth
}

func (c *Core) SetScheduler(scheduler SchedulerService) {
	c.scheduler = scheduler
}

func (c *Core) SetCalendarAuth(calendarAuth CalendarAuth) {
	c.calendarAuth = calendarAuth
}

func (c *Core) SetBroadcaster(broadcaster Broadcaster) {
	c.broadcaster = broadcaster
}

// Init prepares storage. Safe to call with a nil repository (service
// degrades to in-memory auth cache and no persistence).
func (c *Core) Init() {
	if c.repo == nil {
		c.log.Warn("repository not configured, persistence disabled")
		return
	}

	if err := c.repo.EnsureAppointmentIndexes(); err != nil {
		c.log.Error("ensuring appointment indexes", sl.Err(err))
	}
	if err := c.repo.EnsureMessageIndexes(); err != nil {
		c.log.Error("ensuring message indexes", sl.Err(err))
	}
}
