package entity

// Tool names exposed to the model. The dispatch in ai/gpt switches on
// these, so they must match the function definitions exactly.
const (
	ScheduleTool = "schedule_appointment"
	ListTool     = "list_appointments"
	CancelTool   = "cancel_appointment"
)
