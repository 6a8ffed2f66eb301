package discogs

import "strings"

// AuthMode names which credential set signs outgoing requests.
type AuthMode string

const (
	AuthNone      AuthMode = "none"
	AuthToken     AuthMode = "token"
	AuthKeySecret AuthMode = "key_secret"
)

// Credentials holds either a personal user token or a consumer key/secret
// pair. The zero value sends unauthenticated requests.
type Credentials struct {
	UserToken      string
	ConsumerKey    string
	ConsumerSecret string
}

// Mode returns the active auth mode. A user token takes precedence over a
// consumer key/secret pair when both are configured; a key without its
// secret (or the reverse) counts as absent.
func (c Credentials) Mode() AuthMode {
	if strings.TrimSpace(c.UserToken) != "" {
		return AuthToken
	}
	if strings.TrimSpace(c.ConsumerKey) != "" && strings.TrimSpace(c.ConsumerSecret) != "" {
		return AuthKeySecret
	}
	return AuthNone
}

// Header renders the Authorization header value, or "" in AuthNone mode.
func (c Credentials) Header() string {
	switch c.Mode() {
	case AuthToken:
		return "Discogs token=" + strings.TrimSpace(c.UserToken)
	case AuthKeySecret:
		return "Discogs key=" + strings.TrimSpace(c.ConsumerKey) + ", secret=" + strings.TrimSpace(c.ConsumerSecret)
	}
	return ""
}
