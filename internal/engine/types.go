package engine

// CreateTaskInput carries the user-editable fields for a new task.
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    int
	DueTime     string
	Project     string
}

// CreateProjectInput carries the user-editable fields for a new project.
type CreateProjectInput struct {
	Name   string
	Color  string
	TeamID *int64
}

// CreateTeamInput carries the user-editable fields for a new team.
type CreateTeamInput struct {
	Name    string
	Color   string
	Members []string
}
