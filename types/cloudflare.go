package types

import "encoding/json"

// Envelope is the provider's standard v4 API response wrapper.
type Envelope struct {
	Success    bool              `json:"success"`
	Result     json.RawMessage   `json:"result"`
	ResultInfo *ResultInfo       `json:"result_info,omitempty"`
	Errors     []EnvelopeMessage `json:"errors,omitempty"`
	Messages   []EnvelopeMessage `json:"messages,omitempty"`
}

// ResultInfo carries the provider's pagination metadata.
type ResultInfo struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Count      int `json:"count"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

type EnvelopeMessage struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message"`
}

// DestinationAddress is a destination mailbox owned by the upstream
// provider. Verified is relayed as received; its shape varies between
// provider endpoints and versions.
type DestinationAddress struct {
	ID       string             `json:"id"`
	Email    string             `json:"email"`
	Verified VerificationSignal `json:"verified"`
}

// ForwardingRule is an alias rule owned by the upstream provider. Name holds
// the full alias address (e.g. "jobs@example.com").
type ForwardingRule struct {
	ID       string        `json:"id,omitempty"`
	Name     string        `json:"name"`
	Enabled  bool          `json:"enabled"`
	Priority int           `json:"priority,omitempty"`
	Matchers []RuleMatcher `json:"matchers"`
	Actions  []RuleAction  `json:"actions"`
}

type RuleMatcher struct {
	Type  string `json:"type"`
	Field string `json:"field,omitempty"`
	Value string `json:"value,omitempty"`
}

type RuleAction struct {
	Type  string   `json:"type"`
	Value []string `json:"value,omitempty"`
}

// Zone is the subset of the provider's zone record consumed during
// auto-configuration.
type Zone struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Account ZoneAccount `json:"account"`
}

type ZoneAccount struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}
