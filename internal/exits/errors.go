package exits

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Severity classifies an error tag's operational impact.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// severityByTag is the fixed tag->severity map (spec §7, mined from the
// Python original's ERROR_HANDLING dict): the manager never infers
// severity dynamically, every tag it can raise is enumerated up front.
var severityByTag = map[string]Severity{
	"order_execution_fails":   SeverityCritical,
	"exit_order_fails":        SeverityCritical,
	"broker_disconnect":       SeverityCritical,
	"state_save_fails":        SeverityCritical,
	"data_quality_fallback":   SeverityWarning,
	"range_invalidation_race": SeverityWarning,
	"config_hash_mismatch":    SeverityWarning,
	"reentry_blocked":         SeverityInfo,
}

// SeverityFor returns the configured severity for tag, defaulting to
// SeverityWarning for any tag not in the fixed map — an unrecognized tag
// is a programming error the rest of the system should still treat
// cautiously, not silently ignore.
func SeverityFor(tag string) Severity {
	if s, ok := severityByTag[tag]; ok {
		return s
	}
	return SeverityWarning
}

// ErrorEvent is one recorded error occurrence.
type ErrorEvent struct {
	Tag           string
	Severity      Severity
	At            time.Time
	Detail        string
	CorrelationID uuid.UUID
}

const ringCapacity = 256
const rollingWindow = time.Hour
const criticalAutoDisableThreshold = 3

// ErrorHandler is a bounded, time-windowed error ledger: it records events,
// evicts anything older than rollingWindow on every call, and flips
// disabled once the rolling-hour CRITICAL count reaches
// criticalAutoDisableThreshold (spec §7, mined from the Python original's
// ErrorHandler class).
type ErrorHandler struct {
	mu       sync.Mutex
	events   []ErrorEvent
	disabled bool
}

// NewErrorHandler returns an empty, enabled ErrorHandler.
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Record appends a new event for tag at now, evicts anything older than
// rollingWindow, and returns the event plus whether this call tripped
// auto-disable (so callers can log/alert on the transition specifically).
func (h *ErrorHandler) Record(tag, detail string, now time.Time) (ErrorEvent, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	event := ErrorEvent{
		Tag:           tag,
		Severity:      SeverityFor(tag),
		At:            now,
		Detail:        detail,
		CorrelationID: uuid.New(),
	}
	h.events = append(h.events, event)
	if len(h.events) > ringCapacity {
		h.events = h.events[len(h.events)-ringCapacity:]
	}
	h.evictOlderThan(now)

	wasDisabled := h.disabled
	if h.criticalCountLocked() >= criticalAutoDisableThreshold {
		h.disabled = true
	}
	return event, h.disabled && !wasDisabled
}

// evictOlderThan drops every event older than rollingWindow relative to
// now. Caller must hold h.mu.
func (h *ErrorHandler) evictOlderThan(now time.Time) {
	cutoff := now.Add(-rollingWindow)
	i := 0
	for ; i < len(h.events); i++ {
		if h.events[i].At.After(cutoff) {
			break
		}
	}
	h.events = h.events[i:]
}

func (h *ErrorHandler) criticalCountLocked() int {
	n := 0
	for _, e := range h.events {
		if e.Severity == SeverityCritical {
			n++
		}
	}
	return n
}

// Disabled reports whether trading has been auto-disabled by the rolling
// critical-error threshold.
func (h *ErrorHandler) Disabled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.disabled
}

// Reset clears the disabled flag (an operator override, not automatic) —
// it does not clear recorded events, so a repeat offense within the same
// rolling hour can immediately re-trip auto-disable.
func (h *ErrorHandler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.disabled = false
}

// Events returns a copy of the currently retained events, most-recent
// last.
func (h *ErrorHandler) Events() []ErrorEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]ErrorEvent, len(h.events))
	copy(out, h.events)
	return out
}
