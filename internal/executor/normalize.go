package executor

import (
	"strings"

	"github.com/RomeoThePickleTec/jaivier-agent/internal/logging"
	"github.com/RomeoThePickleTec/jaivier-agent/internal/types"
)

// Status and priority are stored as integer codes; the assistant speaks in
// strings. These normalizers are the single conversion point.

var projectStatusCodes = map[string]int64{
	"active":    1,
	"completed": 2,
	"paused":    3,
}

var taskStatusCodes = map[string]int64{
	"todo":        1,
	"in_progress": 2,
	"completed":   3,
}

var priorityCodes = map[string]int64{
	"low":      1,
	"medium":   2,
	"high":     3,
	"critical": 4,
}

// normalizeStatus converts a status value to its integer code. Integers
// pass through. Unknown strings become 0 with a warning rather than an
// error, matching the permissive intake of assistant output.
func normalizeStatus(v any, entity string) int64 {
	s, isString := v.(string)
	if !isString {
		if n, ok := types.ExtractInt64(v); ok {
			return n
		}
		return 0
	}

	codes := projectStatusCodes
	if entity == "task" {
		codes = taskStatusCodes
	}
	if code, ok := codes[strings.ToLower(s)]; ok {
		return code
	}
	logging.ExecutorWarn("Unknown %s status %q, defaulting to 0", entity, s)
	return 0
}

// normalizePriority converts a priority value to its integer code.
// Unrecognized strings default to medium.
func normalizePriority(v any) int64 {
	s, isString := v.(string)
	if !isString {
		if n, ok := types.ExtractInt64(v); ok {
			return n
		}
		return 2
	}
	if code, ok := priorityCodes[strings.ToLower(s)]; ok {
		return code
	}
	return 2
}

// normalizeDate completes bare dates to full UTC timestamps. Nil and
// non-string values come back empty, timestamps with a time component
// pass through unchanged.
func normalizeDate(v any) string {
	s, ok := v.(string)
	if !ok || s == "" {
		return ""
	}
	if strings.Contains(s, "T") {
		return s
	}
	return s + "T00:00:00Z"
}

// Decoders are the inverse of the normalizers, for display.

func decodeProjectStatus(code int64) string {
	switch code {
	case 1:
		return "Active"
	case 2:
		return "Completed"
	case 3:
		return "Paused"
	default:
		return "Unknown"
	}
}

func decodeTaskStatus(code int64) string {
	switch code {
	case 1:
		return "Todo"
	case 2:
		return "In Progress"
	case 3:
		return "Completed"
	default:
		return "Unknown"
	}
}

func decodePriority(code int64) string {
	switch code {
	case 1:
		return "Low"
	case 2:
		return "Medium"
	case 3:
		return "High"
	case 4:
		return "Critical"
	default:
		return "Unknown"
	}
}
