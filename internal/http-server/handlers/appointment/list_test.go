package appointment

import (
	"CalAssist/entity"
	"CalAssist/internal/lib/api/response"
	"CalAssist/internal/service/scheduler"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCore struct {
	appointments []entity.Appointment
	lastEmail    string
	lastFrom     time.Time
	lastTo       time.Time
	cancelErr    error
}

func (c *stubCore) ListAppointments(email, _ string, _ int64, from, to time.Time) ([]entity.Appointment, error) {
	c.lastEmail = email
	c.lastFrom = from
	c.lastTo = to
	return c.appointments, nil
}

func (c *stubCore) CancelAppointment(_, _ string, _ int64, id string) (*entity.Appointment, error) {
	if c.cancelErr != nil {
		return nil, c.cancelErr
	}
	for i, appointment := range c.appointments {
		if appointment.ID == id {
			c.appointments = append(c.appointments[:i], c.appointments[i+1:]...)
			return &appointment, nil
		}
	}
	return nil, scheduler.ErrNotFound
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestListHandler(t *testing.T) {
	core := &stubCore{appointments: []entity.Appointment{
		{ID: "apt-1", UserUUID: "user-1", Title: "Dentist"},
	}}

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/appointments?email=jo%40example.com&from=2026-09-01T00:00:00Z", nil)
	rec := httptest.NewRecorder()

	List(testLogger(), core)(rec, req)

	resp := decodeResponse(t, rec)
	assert.Equal(t, response.StatusOk, resp.Status)
	assert.Equal(t, "jo@example.com", core.lastEmail)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), core.lastFrom)
	assert.True(t, core.lastTo.IsZero())

	listed, ok := resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, listed, 1)
}

func TestListHandlerBadWindow(t *testing.T) {
	core := &stubCore{}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments?from=tomorrow", nil)
	rec := httptest.NewRecorder()

	List(testLogger(), core)(rec, req)

	resp := decodeResponse(t, rec)
	assert.Equal(t, response.StatusError, resp.Status)
	assert.Contains(t, resp.Err, "Invalid from")
}

func TestDeleteHandler(t *testing.T) {
	core := &stubCore{appointments: []entity.Appointment{
		{ID: "apt-1", UserUUID: "user-1", Title: "Dentist"},
	}}

	router := chi.NewRouter()
	router.Delete("/api/v1/appointments/{id}", Delete(testLogger(), core))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/appointments/apt-1?email=jo%40example.com", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	resp := decodeResponse(t, rec)
	assert.Equal(t, response.StatusOk, resp.Status)
	assert.Empty(t, core.appointments)
}

func TestDeleteHandlerNotFound(t *testing.T) {
	core := &stubCore{}

	router := chi.NewRouter()
	router.Delete("/api/v1/appointments/{id}", Delete(testLogger(), core))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/appointments/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, response.StatusError, resp.Status)
}
