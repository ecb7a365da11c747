package chat

import (
	"CalAssist/entity"
	"CalAssist/internal/lib/api/response"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCore struct {
	composed *entity.HttpUserMsg
	reset    bool
}

func (c *stubCore) ComposeResponse(_ context.Context, msg entity.HttpUserMsg) (*entity.AiAnswer, error) {
	c.composed = &msg
	return &entity.AiAnswer{Text: "done"}, nil
}

func (c *stubCore) ResetConversation(_, _ string, _ int64) error {
	c.reset = true
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func postChat(t *testing.T, handler http.HandlerFunc, body string) response.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)

	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestComposeResponseHandler(t *testing.T) {
	core := &stubCore{}

	resp := postChat(t, ComposeResponse(testLogger(), core),
		`{"email":"jo@example.com","message":"book a dentist tomorrow"}`)

	assert.Equal(t, response.StatusOk, resp.Status)
	require.NotNil(t, core.composed)
	assert.Equal(t, "jo@example.com", core.composed.Email)
}

func TestComposeResponseRejectsMissingMessage(t *testing.T) {
	core := &stubCore{}

	resp := postChat(t, ComposeResponse(testLogger(), core), `{"email":"jo@example.com"}`)

	assert.Equal(t, response.StatusError, resp.Status)
	assert.Nil(t, core.composed)
}

// A request naming no user at all must be rejected before any lookup,
// never attributed to whichever stored user has a blank field.
func TestComposeResponseRejectsMissingIdentifier(t *testing.T) {
	core := &stubCore{}

	resp := postChat(t, ComposeResponse(testLogger(), core), `{"message":"hello"}`)

	assert.Equal(t, response.StatusError, resp.Status)
	assert.Contains(t, resp.Err, "identifier")
	assert.Nil(t, core.composed)
}

func TestResetConversationRejectsMissingIdentifier(t *testing.T) {
	core := &stubCore{}

	resp := postChat(t, ResetConversation(testLogger(), core), `{}`)

	assert.Equal(t, response.StatusError, resp.Status)
	assert.False(t, core.reset)
}

func TestResetConversationHandler(t *testing.T) {
	core := &stubCore{}

	resp := postChat(t, ResetConversation(testLogger(), core), `{"telegram_id":42}`)

	assert.Equal(t, response.StatusOk, resp.Status)
	assert.True(t, core.reset)
}
