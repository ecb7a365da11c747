package entity

type AiAnswer struct {
	Text         string        `json:"text" bson:"text"`
	Appointments []Appointment `json:"appointments,omitempty" bson:"appointments,omitempty"`
}

type HttpUserMsg struct {
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	TelegramId int64  `json:"telegram_id"`
	Message    string `json:"message" validate:"required"`
}

// HasIdentifier reports whether the request names a user at all. An
// empty identifier set must be rejected before it reaches the store,
// where it would match any user with a blank field.
func (m *HttpUserMsg) HasIdentifier() bool {
	return m.Email != "" || m.Phone != "" || m.TelegramId != 0
}
