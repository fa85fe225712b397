package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrNoBasicSalary      = errors.New("employee has no basic salary configured")
	ErrEmployeeNotActive  = errors.New("employee is not active")
	ErrOutsideEmployment  = errors.New("period is outside the employment window")
)
