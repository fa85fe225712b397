package payroll

// Action enum for lifecycle transitions.
type Action string

const (
	ActionValidate Action = "validate"
	ActionSubmit   Action = "submit"
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionMarkPaid Action = "mark_paid"
)

var transitions = map[Status]map[Action]Status{
	StatusCalculated: {
		ActionValidate: StatusValidated,
	},
	StatusValidated: {
		ActionSubmit: StatusSubmitted,
	},
	StatusSubmitted: {
		ActionApprove: StatusApproved,
		ActionReject:  StatusRejected,
	},
	StatusApproved: {
		ActionMarkPaid: StatusPaid,
	},
}

// NextStatus resolves a lifecycle action against the current status.
// Returns ErrInvalidTransition when the guard is violated; a paid record is
// permanently immutable.
func NextStatus(current Status, action Action) (Status, error) {
	if current == StatusPaid {
		return "", ErrPayrollRecordPaid
	}
	next, ok := transitions[current][action]
	if !ok {
		return "", ErrInvalidTransition
	}
	return next, nil
}

// CanRecalculate reports whether the record may be recomputed. A rejected
// record re-enters the draft flow through recalculation.
func CanRecalculate(current Status) bool {
	switch current {
	case StatusDraft, StatusCalculated, StatusRejected:
		return true
	}
	return false
}
