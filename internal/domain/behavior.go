package domain

import (
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// BehaviorEvent is one raw behavior record reported by the player or page.
// Only "action", "timestamp" and "duration" are interpreted; every other key
// is carried through untouched.
type BehaviorEvent map[string]any

// Action returns the event's action name, or "" if absent or not a string.
func (e BehaviorEvent) Action() string {
	s, _ := e["action"].(string)
	return s
}

// Timestamp returns the event's epoch-seconds timestamp. The second return
// value is false when the key is missing, null, empty, not numeric or not
// finite. Numeric strings are always read as base 10.
func (e BehaviorEvent) Timestamp() (int64, bool) {
	v, ok := e["timestamp"]
	if !ok || !isNumeric(v) {
		return 0, false
	}
	switch t := v.(type) {
	case string:
		return parseTimestamp(strings.TrimSpace(t))
	case float64:
		return finiteToInt64(t)
	case float32:
		return finiteToInt64(float64(t))
	}
	ts, err := cast.ToInt64E(v)
	if err != nil {
		return 0, false
	}
	return ts, true
}

func parseTimestamp(s string) (int64, bool) {
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ts, true
	}
	// ParseFloat would accept hex mantissas.
	if strings.ContainsAny(s, "xXpP") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return finiteToInt64(f)
}

func finiteToInt64(f float64) (int64, bool) {
	if !isFinite(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// Duration returns the event's duration in seconds. Missing, malformed,
// negative and non-finite values report false.
func (e BehaviorEvent) Duration() (float64, bool) {
	v, ok := e["duration"]
	if !ok || !isNumeric(v) {
		return 0, false
	}
	d, err := cast.ToFloat64E(v)
	if err != nil || !isFinite(d) || d < 0 {
		return 0, false
	}
	return d, true
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func isNumeric(v any) bool {
	switch t := v.(type) {
	case nil, bool:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	}
	return true
}

// EvidenceData summarizes a behavior stream for audit.
type EvidenceData struct {
	EventCount           int             `json:"event_count"`
	Actions              []string        `json:"actions"`
	TimestampRange       *TimestampRange `json:"timestamp_range"`
	InteractionFrequency float64         `json:"interaction_frequency"`
}

// TimestampRange is the earliest and latest event timestamp in epoch seconds.
type TimestampRange struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}
