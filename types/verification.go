package types

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"
)

// Provider endpoints report verification in several shapes: booleans,
// numeric flags, status strings, verification timestamps or nested status
// objects. Any string found in this set counts as verified.
var positiveVerificationStrings = map[string]bool{
	"true": true, "1": true, "yes": true, "y": true, "active": true,
	"enabled": true, "verified": true, "verificado": true, "si": true,
	"sí": true, "on": true, "ok": true, "okay": true, "approved": true,
	"success": true, "successful": true, "complete": true, "completed": true,
	"confirmado": true, "confirmed": true, "valid": true, "validado": true,
}

// Known negative statuses. Informative only: any string outside the
// positive set already classifies as unverified.
var negativeVerificationStrings = map[string]bool{
	"false": true, "0": true, "no": true, "n": true, "inactive": true,
	"disabled": true, "pending": true, "awaiting": true, "processing": true,
	"verifying": true, "requested": true, "rejected": true, "failed": true,
	"error": true, "denied": true, "blocked": true, "unverified": true,
}

var isoTimestampRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d{1,9})?(?:Z|[+-]\d{2}:\d{2})$`)

// VerificationSignal wraps the provider's opaque "verified" field. The raw
// JSON is kept and relayed unchanged; Verified interprets it.
type VerificationSignal struct {
	raw json.RawMessage
}

// NewVerificationSignal builds a signal from any JSON-encodable value.
// Intended for tests and for constructing responses by hand.
func NewVerificationSignal(value interface{}) VerificationSignal {
	raw, err := json.Marshal(value)
	if err != nil {
		return VerificationSignal{}
	}
	return VerificationSignal{raw: raw}
}

func (v *VerificationSignal) UnmarshalJSON(data []byte) error {
	v.raw = append(v.raw[0:0], data...)
	return nil
}

func (v VerificationSignal) MarshalJSON() ([]byte, error) {
	if len(v.raw) == 0 {
		return []byte("null"), nil
	}
	return v.raw, nil
}

// Verified classifies the signal into a usable-as-forward-target boolean.
// Pure and total: malformed input classifies as unverified, never fails.
//   - true or numeric 1 are verified
//   - strings are lower-cased, trimmed and looked up in the positive
//     vocabulary; strict ISO-8601 timestamps are verified regardless of
//     vocabulary (presence of a verification date implies verified)
//   - objects are verified when status == "verified" or
//     verification_status == "active"
//   - anything else is unverified
func (v VerificationSignal) Verified() bool {
	if len(v.raw) == 0 {
		return false
	}
	var b bool
	if err := json.Unmarshal(v.raw, &b); err == nil {
		return b
	}
	var n float64
	if err := json.Unmarshal(v.raw, &n); err == nil {
		return n == 1
	}
	var s string
	if err := json.Unmarshal(v.raw, &s); err == nil {
		normalized := strings.ToLower(strings.TrimSpace(s))
		if positiveVerificationStrings[normalized] {
			return true
		}
		return isISOTimestamp(s)
	}
	var status struct {
		Status             string `json:"status"`
		VerificationStatus string `json:"verification_status"`
	}
	if err := json.Unmarshal(v.raw, &status); err == nil {
		return status.Status == "verified" || status.VerificationStatus == "active"
	}
	return false
}

// isISOTimestamp requires strict ISO-8601 syntax that also parses to a
// valid date (the regex alone admits month 13 and friends).
func isISOTimestamp(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || !isoTimestampRegex.MatchString(trimmed) {
		return false
	}
	_, err := time.Parse(time.RFC3339Nano, trimmed)
	return err == nil
}
