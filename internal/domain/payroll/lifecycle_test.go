package payroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStatus_HappyPath(t *testing.T) {
	steps := []struct {
		action Action
		want   Status
	}{
		{ActionValidate, StatusValidated},
		{ActionSubmit, StatusSubmitted},
		{ActionApprove, StatusApproved},
		{ActionMarkPaid, StatusPaid},
	}

	current := StatusCalculated
	for _, step := range steps {
		next, err := NextStatus(current, step.action)
		require.NoError(t, err, "action %s from %s", step.action, current)
		assert.Equal(t, step.want, next)
		current = next
	}
}

func TestNextStatus_RejectFromSubmitted(t *testing.T) {
	next, err := NextStatus(StatusSubmitted, ActionReject)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, next)
}

func TestNextStatus_InvalidMoves(t *testing.T) {
	tests := []struct {
		name    string
		current Status
		action  Action
	}{
		{name: "skip validation", current: StatusCalculated, action: ActionSubmit},
		{name: "approve unsubmitted", current: StatusValidated, action: ActionApprove},
		{name: "pay unapproved", current: StatusSubmitted, action: ActionMarkPaid},
		{name: "reject before submission", current: StatusCalculated, action: ActionReject},
		{name: "rejected is terminal for actions", current: StatusRejected, action: ActionValidate},
		{name: "draft has no actions", current: StatusDraft, action: ActionValidate},
		{name: "re-validate", current: StatusValidated, action: ActionValidate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NextStatus(tt.current, tt.action)
			assert.ErrorIs(t, err, ErrInvalidTransition)
		})
	}
}

func TestNextStatus_PaidIsImmutable(t *testing.T) {
	for _, action := range []Action{ActionValidate, ActionSubmit, ActionApprove, ActionReject, ActionMarkPaid} {
		_, err := NextStatus(StatusPaid, action)
		assert.ErrorIs(t, err, ErrPayrollRecordPaid, "action %s", action)
	}
}

func TestCanRecalculate(t *testing.T) {
	assert.True(t, CanRecalculate(StatusDraft))
	assert.True(t, CanRecalculate(StatusCalculated))
	assert.True(t, CanRecalculate(StatusRejected))

	assert.False(t, CanRecalculate(StatusValidated))
	assert.False(t, CanRecalculate(StatusSubmitted))
	assert.False(t, CanRecalculate(StatusApproved))
	assert.False(t, CanRecalculate(StatusPaid))
}
