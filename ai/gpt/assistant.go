package gpt

import (
	"CalAssist/entity"
	"CalAssist/internal/config"
	"CalAssist/internal/lib/sl"
	"context"
	"fmt"
	"github.com/sashabaranov/go-openai"
	"log/slog"
	"sync"
	"time"
)

const (
	maxRetries    = 3
	maxToolRounds = 5
	historyLimit  = 40
)

type SchedulerService interface {
	Schedule(ctx context.Context, userUUID string, input entity.AppointmentInput) (*entity.Appointment, error)
	List(ctx context.Context, userUUID string, from, to time.Time) ([]entity.Appointment, error)
	Cancel(ctx context.Context, userUUID, id string) (*entity.Appointment, error)
}

type Repository interface {
	SaveMessage(msg entity.Message) error
	GetMessages(userUUID string, limit int) ([]entity.Message, error)
}

type Assistant struct {
	client    *openai.Client
	model     string
	scheduler SchedulerService
	repo      Repository
	timezone  string
	history   map[string][]openai.ChatCompletionMessage
	locker    *LockThreads
	log       *slog.Logger
}

type LockThreads struct {
	mutex   sync.Mutex
	threads map[string]*sync.Mutex
}

func NewAssistant(conf *config.Config, logger *slog.Logger) *Assistant {
	client := openai.NewClient(conf.OpenAI.ApiKey)
	return &Assistant{
		client:   client,
		model:    conf.OpenAI.Model,
		timezone: conf.Timezone,
		history:  make(map[string][]openai.ChatCompletionMessage),
		locker:   &LockThreads{threads: make(map[string]*sync.Mutex)},
		log:      logger.With(sl.Module("assistant")),
	}
}

func (a *Assistant) SetScheduler(scheduler SchedulerService) {
	a.scheduler = scheduler
}

func (a *Assistant) SetRepository(repo Repository) {
	a.repo = repo
}

func (l *LockThreads) Lock(userId string) {
	l.mutex.Lock()

	mutex, exists := l.threads[userId]
	if !exists {
		mutex = &sync.Mutex{}
		l.threads[userId] = mutex
	}

	l.mutex.Unlock()

	mutex.Lock()
}

func (l *LockThreads) Unlock(userId string) {
	l.mutex.Lock()

	mutex, exists := l.threads[userId]
	if !exists {
		l.mutex.Unlock()
		return
	}
	l.mutex.Unlock()

	mutex.Unlock()
}

// ComposeResponse runs one chat turn: the user message plus accumulated
// history goes to the model with the three scheduling tools attached;
// tool calls are executed locally and fed back until the model answers
// in plain text.
func (a *Assistant) ComposeResponse(ctx context.Context, user *entity.User, userMsg string) (entity.AiAnswer, error) {
	answer := entity.AiAnswer{}

	a.locker.Lock(user.UUID)
	defer a.locker.Unlock(user.UUID)

	messages := a.conversation(user, userMsg)

	text, touched, err := a.handleRun(ctx, user, messages)
	if err != nil {
		a.log.With(
			slog.String("userUUID", user.UUID),
			slog.String("user_msg", userMsg),
		).Error("running assistant", sl.Err(err))
		return answer, err
	}

	answer.Text = text
	answer.Appointments = touched

	a.saveTurn(user, userMsg, text)

	return answer, nil
}

// ResetConversation drops a user's history. The entry stays in the map
// as an empty slice so the next turn starts clean instead of restoring
// the persisted transcript.
func (a *Assistant) ResetConversation(userUUID string) {
	a.locker.Lock(userUUID)
	defer a.locker.Unlock(userUUID)
	a.history[userUUID] = []openai.ChatCompletionMessage{}
}

func (a *Assistant) conversation(user *entity.User, userMsg string) []openai.ChatCompletionMessage {
	history, cached := a.history[user.UUID]
	if !cached {
		history = a.restoreHistory(user.UUID)
	}

	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
		// never start history on a dangling tool result
		for len(history) > 0 && history[0].Role == openai.ChatMessageRoleTool {
			history = history[1:]
		}
	}

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: a.systemPrompt(user),
		},
	}
	messages = append(messages, history...)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userMsg,
	})

	return messages
}

// restoreHistory rebuilds a user's conversation memory from the persisted
// transcript after a restart. Tool traffic is not persisted, only the
// plain turns come back.
func (a *Assistant) restoreHistory(userUUID string) []openai.ChatCompletionMessage {
	if a.repo == nil {
		return nil
	}

	stored, err := a.repo.GetMessages(userUUID, historyLimit)
	if err != nil {
		a.log.With(
			slog.String("userUUID", userUUID),
			sl.Err(err),
		).Warn("restoring conversation history")
		return nil
	}

	// newest first in storage, chronological in the conversation
	history := make([]openai.ChatCompletionMessage, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		role := openai.ChatMessageRoleUser
		if stored[i].Direction == entity.DirectionOutgoing {
			role = openai.ChatMessageRoleAssistant
		}
		history = append(history, openai.ChatCompletionMessage{
			Role:    role,
			Content: stored[i].Text,
		})
	}

	a.history[userUUID] = history

	return history
}

func (a *Assistant) systemPrompt(user *entity.User) string {
	loc := user.Location(a.timezone)
	now := time.Now().In(loc)

	return fmt.Sprintf(
		"You are a scheduling assistant. You manage the user's appointments with the "+
			"provided tools: %s, %s and %s. Current time is %s (%s). Resolve relative "+
			"dates like 'tomorrow' against that time and always pass timestamps in "+
			"RFC 3339 format with the user's offset. Confirm what you did in one or "+
			"two sentences, never invent appointments.",
		entity.ScheduleTool, entity.ListTool, entity.CancelTool,
		now.Format(time.RFC3339), loc.String(),
	)
}

func (a *Assistant) handleRun(ctx context.Context, user *entity.User, messages []openai.ChatCompletionMessage) (string, []entity.Appointment, error) {
	var touched []entity.Appointment

	for round := 0; round < maxToolRounds; round++ {
		resp, err := a.createCompletion(ctx, messages)
		if err != nil {
			return "", nil, err
		}

		msg := resp.Choices[0].Message
		messages = append(messages, msg)

		if len(msg.ToolCalls) == 0 {
			if msg.Content == "" {
				return "", nil, fmt.Errorf("empty response from model")
			}
			a.rememberTurn(user.UUID, messages)
			return msg.Content, touched, nil
		}

		for _, toolCall := range msg.ToolCalls {
			cmdName := toolCall.Function.Name
			cmdArgs := toolCall.Function.Arguments

			output, appointments, err := a.handleCommand(ctx, user, cmdName, cmdArgs)
			if err != nil {
				a.log.With(
					slog.String("command", cmdName),
					slog.Any("args", cmdArgs),
					sl.Err(err),
				).Error("handling command")
				output = fmt.Sprintf("Error handling command %s: %v", cmdName, err)
			}
			touched = append(touched, appointments...)

			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    output,
				ToolCallID: toolCall.ID,
			})
		}
	}

	return "", nil, fmt.Errorf("max tool rounds reached, unable to complete run")
}

func (a *Assistant) createCompletion(ctx context.Context, messages []openai.ChatCompletionMessage) (openai.ChatCompletionResponse, error) {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    a.model,
			Messages: messages,
			Tools:    toolDefinitions(),
		})
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return openai.ChatCompletionResponse{}, fmt.Errorf("completion cancelled: %w", err)
			}
			a.log.Error(fmt.Sprintf("error creating completion: %v", err))
			time.Sleep(2 * time.Second)
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("no choices in completion response")
			continue
		}
		return resp, nil
	}

	return openai.ChatCompletionResponse{}, fmt.Errorf("max retries reached: %w", lastErr)
}

// rememberTurn stores everything after the system message as the user's
// conversation memory for the next turn.
func (a *Assistant) rememberTurn(userUUID string, messages []openai.ChatCompletionMessage) {
	if len(messages) > 1 {
		a.history[userUUID] = messages[1:]
	}
}

func (a *Assistant) saveTurn(user *entity.User, userMsg, answer string) {
	if a.repo == nil {
		return
	}

	now := time.Now()
	for _, msg := range []entity.Message{
		{UserUUID: user.UUID, Direction: entity.DirectionIncoming, Text: userMsg, CreatedAt: now},
		{UserUUID: user.UUID, Direction: entity.DirectionOutgoing, Text: answer, CreatedAt: now},
	} {
		if err := a.repo.SaveMessage(msg); err != nil {
			a.log.With(
				slog.String("userUUID", user.UUID),
				sl.Err(err),
			).Error("saving chat message")
		}
	}
}
