package converters

import (
	"time"

	"github.com/Station-Manager/errors"
)

// StringToDate returns a converter parsing strings with layout (DateLayout when empty) into time.Time.
func StringToDate(layout string) func(any) (any, error) {
	if layout == "" {
		layout = DateLayout
	}
	return func(src any) (any, error) {
		const op errors.Op = "converters.StringToDate"
		srcVal, err := CheckString(op, src)
		if err != nil {
			return time.Time{}, errors.New(op).Err(err)
		}
		retVal, err := time.Parse(layout, srcVal)
		if err != nil {
			return time.Time{}, errors.New(op).Err(err)
		}
		return retVal, nil
	}
}

// DateToString returns a converter formatting time.Time with layout (DateLayout when empty).
// The zero time formats as "".
func DateToString(layout string) func(any) (any, error) {
	if layout == "" {
		layout = DateLayout
	}
	return func(src any) (any, error) {
		const op errors.Op = "converters.DateToString"
		srcVal, err := CheckTime(op, src)
		if err != nil {
			return "", errors.New(op).Err(err)
		}
		if srcVal.IsZero() {
			return "", nil
		}
		return srcVal.Format(layout), nil
	}
}
