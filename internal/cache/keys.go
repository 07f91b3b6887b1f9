package cache

import "strings"

// Per-user data types. Persisted keys are "{userID}_{dataType}".
const (
	DataTasks          = "tasks"
	DataProjects       = "projects"
	DataTeams          = "teams"
	DataSidebarVisible = "sidebar_visible"
	DataInitialized    = "user_initialized"
	DataEmailVerified  = "email_verified"
	DataAvatarURL      = "avatar_url"
)

// Global session keys, deliberately un-namespaced. They are cleared in full
// on logout alongside the departing user's namespaced keys.
const (
	KeyAuthenticated = "user_authenticated"
	KeyUsername      = "username"
	KeyDisplayName   = "user_display_name"
)

// GlobalKeys lists every un-namespaced session key.
var GlobalKeys = []string{KeyAuthenticated, KeyUsername, KeyDisplayName}

// UserKey builds the namespaced key for a user's data type. An empty user
// falls back to the bare data type.
func UserKey(userID, dataType string) string {
	if userID == "" {
		return dataType
	}
	return userID + "_" + dataType
}

// IsUserKey reports whether key belongs to userID's namespace.
func IsUserKey(key, userID string) bool {
	return userID != "" && strings.HasPrefix(key, userID+"_")
}
