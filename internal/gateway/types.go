package gateway

// TaskPayload is the outbound task shape the backend accepts. Empty due
// values are omitted rather than sent blank to avoid validation rejections.
type TaskPayload struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    int    `json:"priority"`
	DueTime     string `json:"due_time,omitempty"`
	ProjectName string `json:"project_name,omitempty"`
	ParentTask  *int64 `json:"parent_task,omitempty"`
	Completed   bool   `json:"completed"`
}

// TaskRecord is the server's task representation.
type TaskRecord struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	DueTime     string `json:"due_time"`
	Project     string `json:"project"`
	ParentTask  *int64 `json:"parent_task"`
	IsCompleted bool   `json:"is_completed"`
	UpdatedAt   string `json:"updated_at"`
}

// ProjectPayload is the outbound project shape.
type ProjectPayload struct {
	Name   string `json:"name"`
	Color  string `json:"color,omitempty"`
	TeamID *int64 `json:"team,omitempty"`
}

// ProjectRecord is the server's project representation.
type ProjectRecord struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	TeamID   *int64 `json:"team"`
	IsShared bool   `json:"is_shared"`
}

// TeamPayload is the outbound team shape.
type TeamPayload struct {
	Name    string   `json:"name"`
	Color   string   `json:"color,omitempty"`
	Members []string `json:"members,omitempty"`
}

// TeamRecord is the server's team representation.
type TeamRecord struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Color   string   `json:"color"`
	Members []string `json:"members"`
}

// Profile is the account profile exposed at /users/profile/.
type Profile struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// UserLookup is the response of the user existence probe
// GET /users/?email=. Used by session revalidation.
type UserLookup struct {
	Exists bool `json:"exists"`
	User   struct {
		Email   string `json:"email"`
		Profile struct {
			Name           string `json:"name"`
			FirstTimeLogin bool   `json:"first_time_login"`
		} `json:"profile"`
	} `json:"user"`
}

// LoginResult is the response of POST /auth/login/.
type LoginResult struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	EmailVerified  bool   `json:"email_verified"`
	FirstTimeLogin bool   `json:"first_time_login"`
	User           struct {
		Email   string `json:"email"`
		Profile struct {
			Name      string `json:"name"`
			AvatarURL string `json:"avatar_url"`
		} `json:"profile"`
	} `json:"user"`
}

// VerifyResult is the response of the email verification endpoint.
type VerifyResult struct {
	Success     bool   `json:"success"`
	AlreadyUsed bool   `json:"already_used"`
	Message     string `json:"message"`
	User        *struct {
		Email string `json:"email"`
	} `json:"user"`
}

// Friend is an accepted friendship entry.
type Friend struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Notification is an inbox entry (shares, invitations).
type Notification struct {
	ID      int64  `json:"id"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Read    bool   `json:"read"`
}

// eventsResponse is the calendar endpoint envelope.
type eventsResponse struct {
	Success bool          `json:"success"`
	Events  []eventRecord `json:"events"`
}

// eventRecord is a provider event as the backend relays it. Start/End are
// either dates or RFC 3339 date-times.
type eventRecord struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Start string `json:"start"`
	End   string `json:"end"`
}
