package gpt

import (
	"CalAssist/entity"

	"github.com/sashabaranov/go-openai"
)

func toolDefinitions() []openai.Tool {
	return []openai.Tool{
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        entity.ScheduleTool,
				Description: "Schedules a new appointment for the user and mirrors it into their calendar",
				Parameters: map[string]interface{}{
					"type":     "object",
					"required": []string{"title", "start_at"},
					"properties": map[string]interface{}{
						"title": map[string]interface{}{
							"type":        "string",
							"description": "Short title of the appointment",
						},
						"description": map[string]interface{}{
							"type":        "string",
							"description": "Optional longer description",
						},
						"location": map[string]interface{}{
							"type":        "string",
							"description": "Optional location",
						},
						"start_at": map[string]interface{}{
							"type":        "string",
							"description": "Start time, RFC 3339 with timezone offset",
						},
						"end_at": map[string]interface{}{
							"type":        "string",
							"description": "End time, RFC 3339; defaults to 30 minutes after start",
						},
					},
				},
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        entity.ListTool,
				Description: "Lists the user's appointments, optionally restricted to a time window",
				Parameters: map[string]interface{}{
					"type":     "object",
					"required": []string{},
					"properties": map[string]interface{}{
						"from": map[string]interface{}{
							"type":        "string",
							"description": "Window start, RFC 3339; omit for no lower bound",
						},
						"to": map[string]interface{}{
							"type":        "string",
							"description": "Window end, RFC 3339; omit for no upper bound",
						},
					},
				},
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        entity.CancelTool,
				Description: "Cancels an appointment by its id; use list_appointments first to find the id",
				Parameters: map[string]interface{}{
					"type":     "object",
					"required": []string{"id"},
					"properties": map[string]interface{}{
						"id": map[string]interface{}{
							"type":        "string",
							"description": "Appointment id",
						},
					},
				},
			},
		},
	}
}
