package wizard

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentra-app/mentra-cli/internal/api"
	"github.com/mentra-app/mentra-cli/internal/apperror"
)

func started(t *testing.T) *Wizard {
	t.Helper()
	w, err := Start("l1", "2026-08-28")
	require.NoError(t, err)
	return w
}

func TestStart_RejectsBadDate(t *testing.T) {
	_, err := Start("l1", "28/08/2026")
	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

func TestFlow_DeclineReschedule(t *testing.T) {
	w := started(t)
	assert.Equal(t, StateReason, w.State())

	require.NoError(t, w.SubmitReason("öğrenci hastaydı"))
	assert.Equal(t, StateConfirm, w.State())

	require.NoError(t, w.Decline())
	assert.Equal(t, StateDone, w.State())

	req, err := w.Request()
	require.NoError(t, err)
	assert.Equal(t, "2026-08-28", req.OriginalDate)
	assert.Equal(t, "öğrenci hastaydı", req.Reason)
	assert.False(t, req.Reschedule)
	assert.Empty(t, req.NewDate)
}

func TestFlow_WithReschedule(t *testing.T) {
	w := started(t)
	require.NoError(t, w.SubmitReason("veli aradı, gelemiyorlar"))
	require.NoError(t, w.AcceptReschedule())
	assert.Equal(t, StateDatepicker, w.State())

	require.NoError(t, w.PickSlot("2026-08-30", "14:00", "15:30"))
	assert.Equal(t, StateDone, w.State())

	req, err := w.Request()
	require.NoError(t, err)
	assert.True(t, req.Reschedule)
	assert.Equal(t, "2026-08-30", req.NewDate)
	assert.Equal(t, "14:00", req.NewStartTime)
	assert.Equal(t, "15:30", req.NewEndTime)
}

func TestSubmitReason_Validation(t *testing.T) {
	w := started(t)

	err := w.SubmitReason("   ")
	assert.True(t, errors.Is(err, apperror.ErrValidation))
	assert.Equal(t, StateReason, w.State())

	err = w.SubmitReason(strings.Repeat("a", 501))
	assert.True(t, errors.Is(err, apperror.ErrValidation))
	assert.Equal(t, StateReason, w.State())

	require.NoError(t, w.SubmitReason("  geçerli mazeret  "))
	req := mustFinishDeclined(t, w)
	assert.Equal(t, "geçerli mazeret", req.Reason)
}

func TestPickSlot_EnforcesSameISOWeek(t *testing.T) {
	w := started(t) // 2026-08-28 is in the week of Aug 24-30
	require.NoError(t, w.SubmitReason("mazeret"))
	require.NoError(t, w.AcceptReschedule())

	err := w.PickSlot("2026-08-31", "10:00", "11:00") // next Monday
	assert.True(t, errors.Is(err, apperror.ErrValidation))
	assert.Equal(t, StateDatepicker, w.State())

	require.NoError(t, w.PickSlot("2026-08-24", "10:00", "11:00")) // same week's Monday
	assert.Equal(t, StateDone, w.State())
}

func TestPickSlot_RejectsInvertedTimes(t *testing.T) {
	w := started(t)
	require.NoError(t, w.SubmitReason("mazeret"))
	require.NoError(t, w.AcceptReschedule())

	err := w.PickSlot("2026-08-29", "16:00", "15:00")
	assert.True(t, errors.Is(err, apperror.ErrValidation))
	assert.Equal(t, StateDatepicker, w.State())
}

func TestIllegalTransitions(t *testing.T) {
	w := started(t)

	// Nothing but SubmitReason works from the first step.
	assert.Error(t, w.Decline())
	assert.Error(t, w.AcceptReschedule())
	assert.Error(t, w.PickSlot("2026-08-29", "10:00", "11:00"))
	assert.Error(t, w.Back())
	_, err := w.Request()
	assert.Error(t, err)

	require.NoError(t, w.SubmitReason("mazeret"))

	// From confirm, picking a slot or re-submitting the reason is illegal.
	assert.Error(t, w.PickSlot("2026-08-29", "10:00", "11:00"))
	assert.Error(t, w.SubmitReason("başka mazeret"))

	require.NoError(t, w.Decline())

	// Done is terminal.
	assert.Error(t, w.Decline())
	assert.Error(t, w.AcceptReschedule())
	assert.Error(t, w.Back())
}

func TestBack_WalksOneStep(t *testing.T) {
	w := started(t)
	require.NoError(t, w.SubmitReason("mazeret"))
	require.NoError(t, w.AcceptReschedule())

	require.NoError(t, w.Back())
	assert.Equal(t, StateConfirm, w.State())

	require.NoError(t, w.Back())
	assert.Equal(t, StateReason, w.State())

	// The reason can be replaced after going back.
	require.NoError(t, w.SubmitReason("güncellenmiş mazeret"))
	req := mustFinishDeclined(t, w)
	assert.Equal(t, "güncellenmiş mazeret", req.Reason)
}

func TestWeekDays_BoundsDatepicker(t *testing.T) {
	w := started(t)
	days, err := w.WeekDays()
	require.NoError(t, err)
	require.Len(t, days, 7)
	assert.Equal(t, "2026-08-24", days[0])
	assert.Equal(t, "2026-08-30", days[6])
}

func mustFinishDeclined(t *testing.T, w *Wizard) api.NotAttendedRequest {
	t.Helper()
	require.NoError(t, w.Decline())
	req, err := w.Request()
	require.NoError(t, err)
	return req
}
