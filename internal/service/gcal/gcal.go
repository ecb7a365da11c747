package gcal

import (
	"CalAssist/entity"
	"CalAssist/internal/config"
	"CalAssist/internal/lib/sl"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

var ErrUnauthenticated = fmt.Errorf("user has not connected Google Calendar")

type Repository interface {
	SaveGoogleToken(userUUID string, token *oauth2.Token) error
	GetGoogleToken(userUUID string) (*oauth2.Token, error)
	SaveAuthNonce(userUUID, nonce string) error
	GetUserByAuthNonce(nonce string) (string, error)
}

// Service mirrors appointments into the user's Google Calendar with
// OAuth-delegated credentials. Every method is best-effort from the
// caller's point of view: failures are returned, never retried here.
type Service struct {
	oauthConfig *oauth2.Config
	repo        Repository
	calendarId  string
	log         *slog.Logger
}

func NewService(conf *config.Config, logger *slog.Logger) *Service {
	oauthConfig := &oauth2.Config{
		ClientID:     conf.Google.ClientId,
		ClientSecret: conf.Google.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  conf.Google.RedirectHost + "/auth/google/callback",
		Scopes:       []string{gcal.CalendarEventsScope, gcal.CalendarReadonlyScope},
	}

	return &Service{
		oauthConfig: oauthConfig,
		calendarId:  conf.Google.CalendarId,
		log:         logger.With(sl.Module("gcal")),
	}
}

func (s *Service) SetRepository(repo Repository) {
	s.repo = repo
}

// LoginURL starts the authorization-code flow: a nonce is persisted for
// the user and returned inside the consent URL's state parameter.
func (s *Service) LoginURL(userUUID string) (string, error) {
	nonce := uuid.NewString()
	if err := s.repo.SaveAuthNonce(userUUID, nonce); err != nil {
		return "", err
	}

	return s.oauthConfig.AuthCodeURL(nonce, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// HandleCallback exchanges the authorization code and persists the token
// for the user identified by the state nonce.
func (s *Service) HandleCallback(ctx context.Context, state, code string) error {
	userUUID, err := s.repo.GetUserByAuthNonce(state)
	if err != nil {
		return fmt.Errorf("unknown oauth state: %w", err)
	}

	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchanging authorization code: %w", err)
	}

	if err := s.repo.SaveGoogleToken(userUUID, token); err != nil {
		return err
	}

	s.log.With(
		slog.String("userUUID", userUUID),
	).Info("google calendar connected")

	return nil
}

func (s *Service) clientFor(ctx context.Context, userUUID string) (*gcal.Service, error) {
	token, err := s.repo.GetGoogleToken(userUUID)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, ErrUnauthenticated
	}

	source := s.oauthConfig.TokenSource(ctx, token)

	// Persist the token again if the source refreshed it.
	fresh, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("refreshing google token: %w", err)
	}
	if fresh.AccessToken != token.AccessToken {
		if err := s.repo.SaveGoogleToken(userUUID, fresh); err != nil {
			s.log.With(
				slog.String("userUUID", userUUID),
				sl.Err(err),
			).Error("persisting refreshed token")
		}
	}

	service, err := gcal.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, fmt.Errorf("creating calendar client: %w", err)
	}

	return service, nil
}

// InsertEvent mirrors an appointment and returns the calendar event id.
func (s *Service) InsertEvent(ctx context.Context, userUUID string, appointment entity.Appointment) (string, error) {
	service, err := s.clientFor(ctx, userUUID)
	if err != nil {
		return "", err
	}

	event := &gcal.Event{
		Summary:     appointment.Title,
		Description: appointment.Description,
		Location:    appointment.Location,
		Start: &gcal.EventDateTime{
			DateTime: appointment.StartAt.Format(time.RFC3339),
		},
		End: &gcal.EventDateTime{
			DateTime: appointment.EndAt.Format(time.RFC3339),
		},
	}

	result, err := service.Events.Insert(s.calendarId, event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to insert event in Google Calendar: %w", err)
	}

	s.log.With(
		slog.String("userUUID", userUUID),
		slog.String("event_id", result.Id),
		slog.String("title", appointment.Title),
	).Debug("event mirrored")

	return result.Id, nil
}

func (s *Service) DeleteEvent(ctx context.Context, userUUID, eventId string) error {
	service, err := s.clientFor(ctx, userUUID)
	if err != nil {
		return err
	}

	err = service.Events.Delete(s.calendarId, eventId).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to delete event from Google Calendar: %w", err)
	}

	return nil
}
