package reminder

import (
	"CalAssist/entity"
	"sync"
	"time"
)

// StubRepository is an in-memory Repository for tests.
type StubRepository struct {
	mu           sync.Mutex
	appointments map[string]entity.Appointment
	users        map[string]entity.User
}

func NewStubRepository() *StubRepository {
	return &StubRepository{
		appointments: map[string]entity.Appointment{},
		users:        map[string]entity.User{},
	}
}

func (r *StubRepository) Add(appointment entity.Appointment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appointments[appointment.ID] = appointment
}

func (r *StubRepository) AddUser(user entity.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.UUID] = user
}

func (r *StubRepository) GetDueAppointments(now time.Time, lead time.Duration) ([]entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var due []entity.Appointment
	for _, appointment := range r.appointments {
		if appointment.ReminderSent {
			continue
		}
		if appointment.StartsWithin(now, lead) {
			due = append(due, appointment)
		}
	}
	return due, nil
}

func (r *StubRepository) MarkReminderSent(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	appointment, ok := r.appointments[id]
	if !ok || appointment.ReminderSent {
		return false, nil
	}
	appointment.ReminderSent = true
	r.appointments[id] = appointment
	return true, nil
}

func (r *StubRepository) GetUserByUUID(uuid string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[uuid]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// RecordingNotifier collects delivered reminders for assertions.
type RecordingNotifier struct {
	mu        sync.Mutex
	delivered []entity.Appointment
}

func (n *RecordingNotifier) NotifyReminder(_ *entity.User, appointment entity.Appointment) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.delivered = append(n.delivered, appointment)
}

func (n *RecordingNotifier) Delivered() []entity.Appointment {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]entity.Appointment(nil), n.delivered...)
}
