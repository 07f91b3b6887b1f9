package model

import "time"

// Task is a single task row as the engine holds it in memory.
//
// ID is the server-assigned identifier; it is zero while the task exists
// only locally. LocalID is a UUID minted at creation so that rapid
// successive creates never collide and server confirmations can be matched
// back to the right optimistic entity.
type Task struct {
	ID      int64  `json:"id,omitempty"`
	LocalID string `json:"local_id,omitempty"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    int    `json:"priority"` // 1 (highest) .. 4

	// DueTime is either a date ("2006-01-02") or a date-time
	// ("2006-01-02T15:04"). Empty means no due date.
	DueTime string `json:"due_time,omitempty"`

	// Project is a soft reference: the owning project's name, not its id.
	// Renaming a project cascades over this field.
	Project string `json:"project,omitempty"`

	// ParentID marks this task as a subtask of the referenced task.
	ParentID *int64 `json:"parent_task,omitempty"`

	Completed bool   `json:"completed"`
	Subtasks  []Task `json:"subtasks,omitempty"`

	// Revision increments on every local edit; server merges tagged with
	// an older revision must not clobber newer local state.
	Revision  int64     `json:"revision,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Key returns the identifier used to address this task locally: the server
// id when confirmed, the local UUID otherwise.
func (t Task) Key() string {
	if t.ID != 0 {
		return formatID(t.ID)
	}
	return t.LocalID
}

// Confirmed reports whether the server has assigned a canonical id.
func (t Task) Confirmed() bool { return t.ID != 0 }
