package models

import "time"

const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Session is either anonymous (no access token) or authenticated.
type Session struct {
	ID          string    `json:"-"`
	AccessToken string    `json:"access_token,omitempty"`
	ObtainedAt  time.Time `json:"obtained_at,omitempty"`
	Flashes     []Flash   `json:"flashes,omitempty"`
}

func (s *Session) Authenticated() bool {
	return s != nil && s.AccessToken != ""
}

// Authenticate promotes the session with a freshly obtained token.
func (s *Session) Authenticate(token string, obtainedAt time.Time) {
	s.AccessToken = token
	s.ObtainedAt = obtainedAt
}

// Demote drops the token but keeps pending flashes.
func (s *Session) Demote() {
	s.AccessToken = ""
	s.ObtainedAt = time.Time{}
}
