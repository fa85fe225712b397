package tax

import "errors"

// Configuration errors halt a calculation; the engine never approximates a
// missing table with zero tax.
var (
	ErrPTKPNotFound       = errors.New("no PTKP record for status")
	ErrTaxTableIncomplete = errors.New("tax table is incomplete or non-contiguous")
	ErrTERCategoryUnknown = errors.New("no TER category mapping for PTKP status")
)
