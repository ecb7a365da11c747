package gauth

type Core interface {
	GoogleLoginURL(email, phone string, telegramId int64) (string, error)
	HandleGoogleCallback(state, code string) error
}
