package gpt

import (
	"CalAssist/entity"
	"CalAssist/internal/lib/sl"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

func (a *Assistant) handleCommand(ctx context.Context, user *entity.User, name, args string) (string, []entity.Appointment, error) {
	a.log.With(
		slog.String("command", name),
		slog.String("args", args),
	).Debug("handling command")

	if a.scheduler == nil {
		return "", nil, fmt.Errorf("scheduler not initialized")
	}

	switch name {
	case entity.ScheduleTool:
		return a.handleSchedule(ctx, user, args)
	case entity.ListTool:
		return a.handleList(ctx, user, args)
	case entity.CancelTool:
		return a.handleCancel(ctx, user, args)
	default:
		return "", nil, fmt.Errorf("unknown command %q", name)
	}
}

type listArgs struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type cancelArgs struct {
	ID string `json:"id"`
}

func (a *Assistant) handleSchedule(ctx context.Context, user *entity.User, args string) (string, []entity.Appointment, error) {
	var input entity.AppointmentInput
	if err := json.Unmarshal([]byte(args), &input); err != nil {
		a.log.With(
			slog.String("args", args),
			sl.Err(err),
		).Error("unmarshalling schedule args")
		return "", nil, fmt.Errorf("invalid arguments: %w", err)
	}

	appointment, err := a.scheduler.Schedule(ctx, user.UUID, input)
	if err != nil {
		return "", nil, err
	}

	out, err := json.Marshal(appointment)
	if err != nil {
		return "", nil, err
	}

	return string(out), []entity.Appointment{*appointment}, nil
}

func (a *Assistant) handleList(ctx context.Context, user *entity.User, args string) (string, []entity.Appointment, error) {
	var window listArgs
	if err := json.Unmarshal([]byte(args), &window); err != nil {
		a.log.With(
			slog.String("args", args),
			sl.Err(err),
		).Error("unmarshalling list args")
		return "", nil, fmt.Errorf("invalid arguments: %w", err)
	}

	from, to, err := parseWindow(window.From, window.To)
	if err != nil {
		return "", nil, err
	}

	appointments, err := a.scheduler.List(ctx, user.UUID, from, to)
	if err != nil {
		return "", nil, err
	}

	if len(appointments) == 0 {
		return "no appointments found", nil, nil
	}

	out, err := json.Marshal(appointments)
	if err != nil {
		return "", nil, err
	}

	return string(out), appointments, nil
}

func (a *Assistant) handleCancel(ctx context.Context, user *entity.User, args string) (string, []entity.Appointment, error) {
	var resp cancelArgs
	if err := json.Unmarshal([]byte(args), &resp); err != nil {
		a.log.With(
			slog.String("args", args),
			sl.Err(err),
		).Error("unmarshalling cancel args")
		return "", nil, fmt.Errorf("invalid arguments: %w", err)
	}

	if resp.ID == "" {
		return "", nil, fmt.Errorf("id is required")
	}

	cancelled, err := a.scheduler.Cancel(ctx, user.UUID, resp.ID)
	if err != nil {
		return "", nil, err
	}

	return fmt.Sprintf("appointment %q cancelled", cancelled.Title), nil, nil
}

func parseWindow(fromStr, toStr string) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error

	if fromStr != "" {
		from, err = time.Parse(time.RFC3339, fromStr)
		if err != nil {
			return from, to, fmt.Errorf("invalid from %q: %w", fromStr, err)
		}
	}
	if toStr != "" {
		to, err = time.Parse(time.RFC3339, toStr)
		if err != nil {
			return from, to, fmt.Errorf("invalid to %q: %w", toStr, err)
		}
	}

	return from, to, nil
}
