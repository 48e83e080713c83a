package domain

// Defaults applied to task fields missing from stored documents.
const (
	DefaultTaskStatus   = "To Do"
	DefaultTaskPriority = 5
	DefaultTaskTitle    = "Task"
)

// Task is a unit of work read from the document store. The deadline engine
// only reads tasks; creation and editing happen elsewhere.
type Task struct {
	ID          string `json:"task_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	// DueDate is the raw stored value. It may be empty or malformed and
	// is interpreted by the deadline package.
	DueDate    string     `json:"due_date,omitempty"`
	Status     string     `json:"status"`
	Priority   int        `json:"priority"`
	CreatedBy  Assignment `json:"created_by"`
	AssignedTo Assignment `json:"assigned_to"`
	ProjectID  string     `json:"project_id,omitempty"`
	Labels     []string   `json:"labels"`
	Archived   bool       `json:"archived"`
	CreatedAt  string     `json:"created_at,omitempty"`
}

// DisplayTitle returns the title used in notification text.
func (t *Task) DisplayTitle() string {
	if t.Title == "" {
		return DefaultTaskTitle
	}
	return t.Title
}

// HasDueDate reports whether a due date value is stored at all.
func (t *Task) HasDueDate() bool {
	return t.DueDate != ""
}

// ApplyDefaults fills in the status and priority defaults.
func (t *Task) ApplyDefaults() {
	if t.Status == "" {
		t.Status = DefaultTaskStatus
	}
	if t.Priority == 0 {
		t.Priority = DefaultTaskPriority
	}
	if t.Labels == nil {
		t.Labels = []string{}
	}
}

// Validate checks the fields the deadline engine relies on.
func (t *Task) Validate() error {
	if t.ID == "" {
		return NewValidationError("task_id", "cannot be empty", ErrInvalidID)
	}
	return nil
}
