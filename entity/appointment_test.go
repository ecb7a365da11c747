package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppointment(t *testing.T) {
	testCases := []struct {
		name    string
		input   AppointmentInput
		wantErr bool
		wantEnd time.Time
	}{
		{
			name: "explicit end time",
			input: AppointmentInput{
				Title:   "Dentist",
				StartAt: "2026-09-01T10:00:00Z",
				EndAt:   "2026-09-01T11:00:00Z",
			},
			wantEnd: time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC),
		},
		{
			name: "end defaults to thirty minutes after start",
			input: AppointmentInput{
				Title:   "Standup",
				StartAt: "2026-09-01T10:00:00Z",
			},
			wantEnd: time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC),
		},
		{
			name: "start keeps its offset",
			input: AppointmentInput{
				Title:   "Lunch",
				StartAt: "2026-09-01T12:00:00+02:00",
			},
			wantEnd: time.Date(2026, 9, 1, 12, 30, 0, 0, time.FixedZone("", 2*3600)),
		},
		{
			name: "invalid start",
			input: AppointmentInput{
				Title:   "Broken",
				StartAt: "tomorrow at noon",
			},
			wantErr: true,
		},
		{
			name: "invalid end",
			input: AppointmentInput{
				Title:   "Broken",
				StartAt: "2026-09-01T10:00:00Z",
				EndAt:   "later",
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			appointment, err := NewAppointment("user-1", tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, appointment.ID)
			assert.Equal(t, "user-1", appointment.UserUUID)
			assert.Equal(t, tc.input.Title, appointment.Title)
			assert.True(t, appointment.EndAt.Equal(tc.wantEnd), "end %v, want %v", appointment.EndAt, tc.wantEnd)
			assert.False(t, appointment.ReminderSent)
		})
	}
}

func TestAppointmentCheckTimes(t *testing.T) {
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	testCases := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr bool
	}{
		{"valid future appointment", now.Add(time.Hour), now.Add(2 * time.Hour), false},
		{"start in the past", now.Add(-time.Minute), now.Add(time.Hour), true},
		{"end before start", now.Add(2 * time.Hour), now.Add(time.Hour), true},
		{"zero duration", now.Add(time.Hour), now.Add(time.Hour), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			appointment := Appointment{StartAt: tc.start, EndAt: tc.end}
			err := appointment.CheckTimes(now)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAppointmentStartsWithin(t *testing.T) {
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	lead := 15 * time.Minute

	testCases := []struct {
		name  string
		start time.Time
		want  bool
	}{
		{"starts right now", now, true},
		{"starts inside the window", now.Add(10 * time.Minute), true},
		{"starts exactly at the window edge", now.Add(lead), true},
		{"starts just past the window", now.Add(lead + time.Second), false},
		{"already started", now.Add(-time.Minute), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			appointment := Appointment{StartAt: tc.start}
			assert.Equal(t, tc.want, appointment.StartsWithin(now, lead))
		})
	}
}
