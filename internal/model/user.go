package model

import "time"

// User is the profile record rendered after a successful lookup.
type User struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	AvatarURL   string `json:"avatar_url"`
	ProfileURL  string `json:"profile_url"`
	Bio         string `json:"bio"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Followers   int    `json:"followers"`
	PublicRepos int    `json:"public_repos"`
}

// Session is the per-chat lookup state kept in Redis.
type Session struct {
	Query      string    `json:"query"`
	LastResult *User     `json:"last_result,omitempty"`
	LookedUpAt time.Time `json:"looked_up_at"`
}
