package gateway

import (
	"context"

	"todofast/internal/model"
)

// Gateway is the network interface the engine reconciles against. All calls
// are blocking; callers that must not block run them in goroutines.
type Gateway interface {
	// Tasks
	ListTasks(ctx context.Context) ([]TaskRecord, error)
	CreateTask(ctx context.Context, p TaskPayload) (TaskRecord, error)
	UpdateTask(ctx context.Context, id int64, p TaskPayload) (TaskRecord, error)
	SetTaskCompletion(ctx context.Context, id int64, completed bool) (TaskRecord, error)
	DeleteTask(ctx context.Context, id int64) error
	CreateSubtask(ctx context.Context, parentID int64, p TaskPayload) (TaskRecord, error)

	// Projects
	ListProjects(ctx context.Context) ([]ProjectRecord, error)
	CreateProject(ctx context.Context, p ProjectPayload) (ProjectRecord, error)
	UpdateProject(ctx context.Context, id int64, p ProjectPayload) (ProjectRecord, error)
	DeleteProject(ctx context.Context, id int64) error
	ShareProject(ctx context.Context, id int64, friendIDs []int64) error
	LeaveProject(ctx context.Context, id int64) error

	// Teams
	ListTeams(ctx context.Context) ([]TeamRecord, error)
	CreateTeam(ctx context.Context, p TeamPayload) (TeamRecord, error)
	UpdateTeam(ctx context.Context, id int64, p TeamPayload) (TeamRecord, error)
	DeleteTeam(ctx context.Context, id int64) error
	AddTeamMember(ctx context.Context, id int64, email string) error
	RemoveTeamMember(ctx context.Context, id int64, userID int64) error

	// Account
	Login(ctx context.Context, email, password string) (LoginResult, error)
	LoginFederated(ctx context.Context, credential string) (LoginResult, error)
	Register(ctx context.Context, email, password, name string) (LoginResult, error)
	VerifyEmail(ctx context.Context, token string) (VerifyResult, error)
	ResendVerification(ctx context.Context, email string) error
	CompleteOnboarding(ctx context.Context, skipped bool) error
	LookupUser(ctx context.Context, email string) (UserLookup, error)
	GetProfile(ctx context.Context) (Profile, error)
	UpdateProfile(ctx context.Context, p Profile) (Profile, error)

	// Social
	ListFriends(ctx context.Context) ([]Friend, error)
	SendFriendRequest(ctx context.Context, email string) error
	AcceptFriendRequest(ctx context.Context, requestID int64) error
	DeclineFriendRequest(ctx context.Context, requestID int64) error
	ListNotifications(ctx context.Context) ([]Notification, error)
	UnreadNotificationCount(ctx context.Context) (int, error)
	MarkNotificationRead(ctx context.Context, id int64) error

	// Calendar
	ListEvents(ctx context.Context, startDate, endDate string) ([]model.CalendarEvent, error)
}
