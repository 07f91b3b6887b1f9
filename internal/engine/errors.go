package engine

import "errors"

var (
	ErrEmptyTitle       = errors.New("task title is empty")
	ErrInvalidDueTime   = errors.New("invalid due time")
	ErrTaskNotFound     = errors.New("task not found")
	ErrEmptyName        = errors.New("name is empty")
	ErrDuplicateProject = errors.New("project name already exists")
	ErrProjectNotFound  = errors.New("project not found")
	ErrTeamNotFound     = errors.New("team not found")
)
