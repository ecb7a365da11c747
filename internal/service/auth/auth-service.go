package auth

import (
	"CalAssist/entity"
	"CalAssist/internal/lib/sl"
	"fmt"
	"log/slog"
)

type Repository interface {
	UpsertUser(user entity.User) error
	GetUser(email, phone string, telegramId int64) (*entity.User, error)
	GetUserByUUID(uuid string) (*entity.User, error)
}

type Service struct {
	repository Repository
	users      []entity.User
	log        *slog.Logger
}

func NewAuthService(logger *slog.Logger) *Service {
	return &Service{
		repository: nil,
		users:      make([]entity.User, 0),
		log:        logger.With(sl.Module("auth-service")),
	}
}

func (s *Service) SetRepository(repository Repository) {
	s.repository = repository
}

// RegisterUser returns the existing user for the given identifiers or
// creates one on first contact.
func (s *Service) RegisterUser(email, phone string, telegramId int64) (*entity.User, error) {
	if s.repository == nil {
		return nil, fmt.Errorf("repository not initialized")
	}
	if email == "" && phone == "" && telegramId == 0 {
		return nil, fmt.Errorf("no user identifier provided")
	}

	user, _ := s.GetUser(email, phone, telegramId)

	if user == nil {
		user = entity.NewUser(email, phone, telegramId)
		err := s.repository.UpsertUser(*user)
		if err != nil {
			return nil, err
		}
		s.users = append(s.users, *user)
	}

	return user, nil
}

// GetUser rejects an empty identifier set: the $or lookup in the store
// would otherwise match any user with a blank field.
func (s *Service) GetUser(email, phone string, telegramId int64) (*entity.User, error) {
	if email == "" && phone == "" && telegramId == 0 {
		return nil, fmt.Errorf("no user identifier provided")
	}

	filterUser := entity.NewUser(email, phone, telegramId)
	for _, user := range s.users {
		if user.SameUser(filterUser) {
			return &user, nil
		}
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository not initialized")
	}

	user, err := s.repository.GetUser(email, phone, telegramId)
	if err != nil {
		return nil, err
	}
	if user != nil {
		s.users = append(s.users, *user)
	}

	return user, nil
}

func (s *Service) GetUserByUUID(uuid string) (*entity.User, error) {
	for _, user := range s.users {
		if user.UUID == uuid {
			return &user, nil
		}
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository not initialized")
	}

	user, err := s.repository.GetUserByUUID(uuid)
	if err != nil {
		return nil, err
	}
	if user != nil {
		s.users = append(s.users, *user)
	}

	return user, nil
}
