package gpt

import (
	"CalAssist/entity"
	"CalAssist/internal/lib/sl"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubScheduler struct {
	appointments map[string]entity.Appointment
	lastWindow   [2]time.Time
}

func newStubScheduler() *stubScheduler {
	return &stubScheduler{appointments: map[string]entity.Appointment{}}
}

func (s *stubScheduler) Schedule(_ context.Context, userUUID string, input entity.AppointmentInput) (*entity.Appointment, error) {
	appointment, err := entity.NewAppointment(userUUID, input)
	if err != nil {
		return nil, err
	}
	s.appointments[appointment.ID] = *appointment
	return appointment, nil
}

func (s *stubScheduler) List(_ context.Context, userUUID string, from, to time.Time) ([]entity.Appointment, error) {
	s.lastWindow = [2]time.Time{from, to}
	var result []entity.Appointment
	for _, appointment := range s.appointments {
		if appointment.UserUUID == userUUID {
			result = append(result, appointment)
		}
	}
	return result, nil
}

func (s *stubScheduler) Cancel(_ context.Context, userUUID, id string) (*entity.Appointment, error) {
	appointment, ok := s.appointments[id]
	if !ok || appointment.UserUUID != userUUID {
		return nil, fmt.Errorf("appointment not found")
	}
	delete(s.appointments, id)
	return &appointment, nil
}

func newTestAssistant(scheduler SchedulerService) *Assistant {
	return &Assistant{
		scheduler: scheduler,
		history:   make(map[string][]openai.ChatCompletionMessage),
		locker:    &LockThreads{threads: make(map[string]*sync.Mutex)},
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)).With(sl.Module("assistant")),
	}
}

func TestHandleCommandSchedule(t *testing.T) {
	scheduler := newStubScheduler()
	assistant := newTestAssistant(scheduler)
	user := &entity.User{UUID: "user-1"}

	args := `{"title":"Dentist","start_at":"2026-09-01T10:00:00Z","end_at":"2026-09-01T11:00:00Z"}`

	output, touched, err := assistant.handleCommand(context.Background(), user, entity.ScheduleTool, args)
	require.NoError(t, err)
	require.Len(t, touched, 1)
	assert.Equal(t, "Dentist", touched[0].Title)

	var echoed entity.Appointment
	require.NoError(t, json.Unmarshal([]byte(output), &echoed))
	assert.Equal(t, touched[0].ID, echoed.ID)
}

func TestHandleCommandScheduleBadArgs(t *testing.T) {
	assistant := newTestAssistant(newStubScheduler())
	user := &entity.User{UUID: "user-1"}

	_, _, err := assistant.handleCommand(context.Background(), user, entity.ScheduleTool, `{"title":`)
	assert.Error(t, err)
}

func TestHandleCommandList(t *testing.T) {
	scheduler := newStubScheduler()
	assistant := newTestAssistant(scheduler)
	user := &entity.User{UUID: "user-1"}

	output, touched, err := assistant.handleCommand(context.Background(), user, entity.ListTool, `{}`)
	require.NoError(t, err)
	assert.Equal(t, "no appointments found", output)
	assert.Empty(t, touched)

	_, err = scheduler.Schedule(context.Background(), "user-1", entity.AppointmentInput{
		Title:   "Dentist",
		StartAt: "2026-09-01T10:00:00Z",
	})
	require.NoError(t, err)

	output, touched, err = assistant.handleCommand(context.Background(), user, entity.ListTool,
		`{"from":"2026-09-01T00:00:00Z","to":"2026-09-02T00:00:00Z"}`)
	require.NoError(t, err)
	require.Len(t, touched, 1)

	var listed []entity.Appointment
	require.NoError(t, json.Unmarshal([]byte(output), &listed))
	assert.Len(t, listed, 1)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), scheduler.lastWindow[0])
}

func TestHandleCommandListBadWindow(t *testing.T) {
	assistant := newTestAssistant(newStubScheduler())
	user := &entity.User{UUID: "user-1"}

	_, _, err := assistant.handleCommand(context.Background(), user, entity.ListTool, `{"from":"yesterday"}`)
	assert.Error(t, err)
}

func TestHandleCommandCancel(t *testing.T) {
	scheduler := newStubScheduler()
	assistant := newTestAssistant(scheduler)
	user := &entity.User{UUID: "user-1"}

	appointment, err := scheduler.Schedule(context.Background(), "user-1", entity.AppointmentInput{
		Title:   "Dentist",
		StartAt: "2026-09-01T10:00:00Z",
	})
	require.NoError(t, err)

	output, _, err := assistant.handleCommand(context.Background(), user, entity.CancelTool,
		fmt.Sprintf(`{"id":%q}`, appointment.ID))
	require.NoError(t, err)
	assert.Contains(t, output, "cancelled")
	assert.Empty(t, scheduler.appointments)
}

func TestHandleCommandCancelMissingId(t *testing.T) {
	assistant := newTestAssistant(newStubScheduler())
	user := &entity.User{UUID: "user-1"}

	_, _, err := assistant.handleCommand(context.Background(), user, entity.CancelTool, `{}`)
	assert.Error(t, err)
}

func TestHandleCommandUnknown(t *testing.T) {
	assistant := newTestAssistant(newStubScheduler())
	user := &entity.User{UUID: "user-1"}

	_, _, err := assistant.handleCommand(context.Background(), user, "send_email", `{}`)
	assert.Error(t, err)
}

func TestToolDefinitionsCoverAllCommands(t *testing.T) {
	tools := toolDefinitions()
	require.Len(t, tools, 3)

	names := map[string]bool{}
	for _, tool := range tools {
		names[tool.Function.Name] = true
	}
	assert.True(t, names[entity.ScheduleTool])
	assert.True(t, names[entity.ListTool])
	assert.True(t, names[entity.CancelTool])
}
