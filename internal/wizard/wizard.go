// Package wizard models the "lesson was not held" dialog flow as an explicit
// finite state machine.
//
// The flow has three interactive states: the teacher first explains why the
// lesson did not happen (StateReason), then chooses whether to make it up
// later this week (StateConfirm), and when making up picks the replacement
// slot (StateDatepicker). Transitions are methods; calling one from the wrong
// state is an error rather than silent corruption.
package wizard

import (
	"strings"

	"github.com/mentra-app/mentra-cli/internal/api"
	"github.com/mentra-app/mentra-cli/internal/apperror"
	"github.com/mentra-app/mentra-cli/internal/calendar"
)

// State is the wizard's current step.
type State int

const (
	// StateReason collects the excuse text.
	StateReason State = iota
	// StateConfirm asks whether to reschedule within the week.
	StateConfirm
	// StateDatepicker collects the replacement date and times.
	StateDatepicker
	// StateDone holds a complete request ready to submit.
	StateDone
)

// MaxReasonLen matches the backend's limit on the excuse field.
const MaxReasonLen = 500

// Wizard walks one missed lesson occurrence through the flow.
type Wizard struct {
	state        State
	lessonID     string
	originalDate string

	reason   string
	newDate  string
	newStart string
	newEnd   string
	remake   bool
}

// Start opens the wizard for one lesson occurrence. originalDate is the
// missed date (YYYY-MM-DD), the anchor for the same-week rule.
func Start(lessonID, originalDate string) (*Wizard, error) {
	if _, err := calendar.ParseDate(originalDate); err != nil {
		return nil, apperror.ValidationFailed("original date must be YYYY-MM-DD")
	}
	return &Wizard{state: StateReason, lessonID: lessonID, originalDate: originalDate}, nil
}

// State returns the current step.
func (w *Wizard) State() State { return w.state }

// LessonID returns the lesson this wizard is about.
func (w *Wizard) LessonID() string { return w.lessonID }

// WeekDays returns the selectable dates for the datepicker: the ISO week of
// the missed occurrence, Monday first.
func (w *Wizard) WeekDays() ([]string, error) {
	return calendar.WeekDays(w.originalDate)
}

// SubmitReason records the excuse and advances to the reschedule question.
func (w *Wizard) SubmitReason(reason string) error {
	if w.state != StateReason {
		return stateError(w.state, "submit reason")
	}
	trimmed := strings.TrimSpace(reason)
	if trimmed == "" {
		return apperror.ValidationFailed("a reason is required")
	}
	if len(trimmed) > MaxReasonLen {
		return apperror.ValidationFailed("reason exceeds 500 characters")
	}
	w.reason = trimmed
	w.state = StateConfirm
	return nil
}

// Decline records that the lesson will not be made up and completes the flow.
func (w *Wizard) Decline() error {
	if w.state != StateConfirm {
		return stateError(w.state, "decline reschedule")
	}
	w.remake = false
	w.state = StateDone
	return nil
}

// AcceptReschedule advances to the datepicker.
func (w *Wizard) AcceptReschedule() error {
	if w.state != StateConfirm {
		return stateError(w.state, "accept reschedule")
	}
	w.state = StateDatepicker
	return nil
}

// PickSlot records the replacement slot and completes the flow. The date must
// fall in the same ISO week as the missed occurrence; the backend enforces the
// same rule, this check just fails before the network does.
func (w *Wizard) PickSlot(date, start, end string) error {
	if w.state != StateDatepicker {
		return stateError(w.state, "pick slot")
	}
	same, err := calendar.SameISOWeek(w.originalDate, date)
	if err != nil {
		return apperror.ValidationFailed("replacement date must be YYYY-MM-DD")
	}
	if !same {
		return apperror.ValidationFailed("replacement must stay in the same week")
	}
	if !calendar.TimeRangeValid(start, end) {
		return apperror.ValidationFailed("start time must be before end time (HH:MM)")
	}
	w.newDate, w.newStart, w.newEnd = date, start, end
	w.remake = true
	w.state = StateDone
	return nil
}

// Back returns to the previous interactive step. From StateConfirm the reason
// can be re-edited; from StateDatepicker the reschedule question reopens.
func (w *Wizard) Back() error {
	switch w.state {
	case StateConfirm:
		w.state = StateReason
	case StateDatepicker:
		w.state = StateConfirm
	default:
		return stateError(w.state, "go back")
	}
	return nil
}

// Request produces the submission payload. Only valid in StateDone.
func (w *Wizard) Request() (api.NotAttendedRequest, error) {
	if w.state != StateDone {
		return api.NotAttendedRequest{}, stateError(w.state, "build request")
	}
	return api.NotAttendedRequest{
		OriginalDate: w.originalDate,
		Reason:       w.reason,
		Reschedule:   w.remake,
		NewDate:      w.newDate,
		NewStartTime: w.newStart,
		NewEndTime:   w.newEnd,
	}, nil
}

func stateError(s State, action string) error {
	return apperror.ValidationFailed("cannot " + action + " in step " + s.String())
}

func (s State) String() string {
	switch s {
	case StateReason:
		return "reason"
	case StateConfirm:
		return "confirm"
	case StateDatepicker:
		return "datepicker"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}
