package session

import (
	"net/url"
	"strings"

	"github.com/finboard-dev/finboard/internal/cli/client"
)

// Handoff is the session delivered by the browser after a backend-hosted
// Google login.
type Handoff struct {
	AccessToken string
	User        client.User
}

// ParseHandoff reads a hand-off from the redirect query
func ParseHandoff(query url.Values) (Handoff, error) {
	token := query.Get("access_token")
	if token == "" {
		return Handoff{}, ErrNoHandoffToken
	}

	return Handoff{
		AccessToken: token,
		User: client.User{
			ID:     query.Get("user_id"),
			Name:   cleanName(query.Get("user_name")),
			Email:  query.Get("user_email"),
			Avatar: query.Get("user_avatar"),
		},
	}, nil
}

// cleanName undoes a second round of URL encoding and drops the
// "undefined" placeholder some backends emit for a missing name part.
func cleanName(raw string) string {
	name, err := url.PathUnescape(raw)
	if err != nil {
		name = raw
	}
	name = strings.Replace(name, "undefined", "", 1)
	return strings.TrimSpace(name)
}

// AdoptHandoff stores the hand-off token and sets the user
func (m *Manager) AdoptHandoff(h Handoff) error {
	if h.AccessToken == "" {
		return ErrNoHandoffToken
	}
	if err := m.tokens.SaveAccessToken(h.AccessToken); err != nil {
		return err
	}

	m.SetUserDirectly(h.User)
	return nil
}
