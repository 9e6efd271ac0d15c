package util

import "strings"

// RateLimitedMessage is shown when the upstream provider rate-limits an
// add-destination request.
const RateLimitedMessage = "Rate limit reached. Wait a few seconds and try again."

// InterpretAddDestError maps an add-destination failure to a user-facing
// message. Rate-limit errors from the provider get a friendly message;
// everything else is wrapped verbatim. Never panics, nil-safe.
func InterpretAddDestError(err error) (message string, redirect bool) {
	raw := ""
	if err != nil {
		raw = strings.TrimSpace(err.Error())
	}
	if strings.Contains(strings.ToLower(raw), "rate limited") {
		return RateLimitedMessage, false
	}
	if raw == "" {
		raw = "Unknown"
	}
	return "Error: " + raw, false
}
