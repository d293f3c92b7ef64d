package models

// Task pipeline columns, in board order.
const (
	TaskStatusInbox      = "inbox"
	TaskStatusAssigned   = "assigned"
	TaskStatusInProgress = "in_progress"
	TaskStatusReview     = "review"
	TaskStatusDone       = "done"
)

func ValidTaskStatus(status string) bool {
	switch status {
	case TaskStatusInbox, TaskStatusAssigned, TaskStatusInProgress, TaskStatusReview, TaskStatusDone:
		return true
	}
	return false
}

type Agent struct {
	ID        string `json:"id"`
	TenantID  string `json:"tenant_id,omitempty"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Level     string `json:"level,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

type Task struct {
	ID          string `json:"id"`
	TenantID    string `json:"tenant_id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	AssigneeID  string `json:"assignee_id,omitempty"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

type Activity struct {
	ID        string `json:"id"`
	TenantID  string `json:"tenant_id,omitempty"`
	Type      string `json:"type"`
	AgentID   string `json:"agent_id"`
	Message   string `json:"message"`
	TargetID  string `json:"target_id,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// RateLimitWindow is the fixed-window admission record for one tenant key.
type RateLimitWindow struct {
	TenantKey     string `json:"tenant_key"`
	WindowStartMs int64  `json:"window_start_ms"`
	Count         int    `json:"count"`
}
