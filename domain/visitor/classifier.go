// Package visitor provides anonymous visitor identification and
// automated-traffic classification. All functions are pure - no side effects.
package visitor

import "strings"

// DefaultBotTokens are the user-agent substrings that mark automated clients.
// The list is a cheap heuristic, not a security control: an undetected bot
// only inflates analytics, it never gains access to anything.
var DefaultBotTokens = []string{
	"bot", "crawler", "spider", "scraper",
	"slurp", "curl", "wget", "python-requests",
	"facebookexternalhit", "headless", "lighthouse",
	"ahrefsbot", "semrushbot", "yandex", "baiduspider",
}

// Classifier decides whether a request agent is automated traffic.
type Classifier struct {
	tokens []string
}

// NewClassifier creates a classifier matching the given user-agent tokens.
// Tokens are matched case-insensitively as substrings. An empty list falls
// back to DefaultBotTokens.
func NewClassifier(tokens []string) *Classifier {
	if len(tokens) == 0 {
		tokens = DefaultBotTokens
	}
	lowered := make([]string, len(tokens))
	for i, t := range tokens {
		lowered[i] = strings.ToLower(t)
	}
	return &Classifier{tokens: lowered}
}

// IsBot reports whether the user-agent belongs to an automated client.
// A missing user-agent is classified as a bot: the verdict only suppresses
// tracking, so failing closed costs nothing.
func (c *Classifier) IsBot(userAgent string) bool {
	if strings.TrimSpace(userAgent) == "" {
		return true
	}
	ua := strings.ToLower(userAgent)
	for _, token := range c.tokens {
		if strings.Contains(ua, token) {
			return true
		}
	}
	return false
}
