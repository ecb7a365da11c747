package scheduler

import (
	"CalAssist/entity"
	"context"
	"fmt"
	"sort"
	"time"
)

// StubRepository is an in-memory Repository for tests.
type StubRepository struct {
	appointments map[string]entity.Appointment
}

func NewStubRepository() *StubRepository {
	return &StubRepository{appointments: map[string]entity.Appointment{}}
}

func (r *StubRepository) InsertAppointment(appointment entity.Appointment) error {
	r.appointments[appointment.ID] = appointment
	return nil
}

func (r *StubRepository) GetAppointment(userUUID, id string) (*entity.Appointment, error) {
	appointment, ok := r.appointments[id]
	if !ok || appointment.UserUUID != userUUID {
		return nil, nil
	}
	return &appointment, nil
}

func (r *StubRepository) GetAppointments(userUUID string, from, to time.Time) ([]entity.Appointment, error) {
	var result []entity.Appointment
	for _, appointment := range r.appointments {
		if appointment.UserUUID != userUUID {
			continue
		}
		if !from.IsZero() && appointment.StartAt.Before(from) {
			continue
		}
		if !to.IsZero() && !appointment.StartAt.Before(to) {
			continue
		}
		result = append(result, appointment)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].StartAt.Before(result[j].StartAt)
	})

	return result, nil
}

func (r *StubRepository) DeleteAppointment(userUUID, id string) (*entity.Appointment, error) {
	appointment, ok := r.appointments[id]
	if !ok || appointment.UserUUID != userUUID {
		return nil, nil
	}
	delete(r.appointments, id)
	return &appointment, nil
}

func (r *StubRepository) SetGoogleEventId(id, eventId string) error {
	appointment, ok := r.appointments[id]
	if !ok {
		return fmt.Errorf("appointment %s not found", id)
	}
	appointment.GoogleEventId = eventId
	r.appointments[id] = appointment
	return nil
}

// StubCalendar records mirrored events and can be told to fail.
type StubCalendar struct {
	events map[string]entity.Appointment
	nextId int
	fail   bool
}

func NewStubCalendar() *StubCalendar {
	return &StubCalendar{events: map[string]entity.Appointment{}}
}

func (c *StubCalendar) FailNext(fail bool) {
	c.fail = fail
}

func (c *StubCalendar) InsertEvent(_ context.Context, _ string, appointment entity.Appointment) (string, error) {
	if c.fail {
		return "", fmt.Errorf("calendar unavailable")
	}
	c.nextId++
	eventId := fmt.Sprintf("gcal-%d", c.nextId)
	c.events[eventId] = appointment
	return eventId, nil
}

func (c *StubCalendar) DeleteEvent(_ context.Context, _ string, eventId string) error {
	if c.fail {
		return fmt.Errorf("calendar unavailable")
	}
	if _, ok := c.events[eventId]; !ok {
		return fmt.Errorf("event %s not found", eventId)
	}
	delete(c.events, eventId)
	return nil
}
