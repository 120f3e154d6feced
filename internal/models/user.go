package models

import "time"

// User is a registered account. Stored in memory, keyed by email.
type User struct {
	ID        string                 `json:"id"`
	Email     string                 `json:"email"`
	Password  string                 `json:"-"`
	Name      string                 `json:"name"`
	Roles     []string               `json:"roles"`
	IsActive  bool                   `json:"is_active"`
	CreatedAt time.Time              `json:"created_at"`
	LastLogin time.Time              `json:"last_login"`
	Settings  map[string]interface{} `json:"settings"`
	Profile   map[string]interface{} `json:"profile"`
}

// Clone returns a deep copy safe to hand outside the store's lock.
func (u *User) Clone() *User {
	out := *u
	out.Roles = append([]string(nil), u.Roles...)
	out.Settings = cloneMap(u.Settings)
	out.Profile = cloneMap(u.Profile)
	return &out
}

func cloneMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// DefaultSettings returns the settings a freshly registered account starts with.
func DefaultSettings() map[string]interface{} {
	return map[string]interface{}{
		"notifications": true,
		"theme":         "light",
		"language":      "en",
	}
}

// DefaultProfile returns the empty profile of a freshly registered account.
func DefaultProfile() map[string]interface{} {
	return map[string]interface{}{
		"avatar": nil,
		"title":  "",
		"bio":    "",
	}
}
