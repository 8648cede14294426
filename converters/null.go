package converters

import (
	"time"

	"github.com/Station-Manager/errors"
	"github.com/aarondl/null/v8"
)

// ToNullString converts a string to a null.String. The empty string becomes null.
func ToNullString(src any) (any, error) {
	const op errors.Op = "converters.ToNullString"
	srcVal, ok := src.(string)
	if !ok {
		return null.String{}, errors.New(op).Errorf("Given parameter not a string, got %T", src)
	}
	if srcVal == "" {
		return null.String{}, nil
	}
	return null.StringFrom(srcVal), nil
}

// FromNullString converts a null.String to a string; null becomes "".
func FromNullString(src any) (any, error) {
	const op errors.Op = "converters.FromNullString"
	if ns, ok := src.(null.String); ok {
		if !ns.Valid {
			return "", nil
		}
		return ns.String, nil
	}
	if s, ok := src.(string); ok {
		return s, nil
	}
	return "", errors.New(op).Errorf("Given parameter not a string or null.String, got %T", src)
}

// ToNullInt64 converts an int64 to a valid null.Int64.
func ToNullInt64(src any) (any, error) {
	const op errors.Op = "converters.ToNullInt64"
	srcVal, err := CheckInt64(op, src)
	if err != nil {
		return null.Int64{}, errors.New(op).Err(err)
	}
	return null.Int64From(srcVal), nil
}

// FromNullInt64 converts a null.Int64 to an int64; null becomes 0.
func FromNullInt64(src any) (any, error) {
	const op errors.Op = "converters.FromNullInt64"
	if ni, ok := src.(null.Int64); ok {
		if !ni.Valid {
			return int64(0), nil
		}
		return ni.Int64, nil
	}
	srcVal, err := CheckInt64(op, src)
	if err != nil {
		return int64(0), errors.New(op).Err(err)
	}
	return srcVal, nil
}

// ToNullBool converts a bool to a valid null.Bool.
func ToNullBool(src any) (any, error) {
	const op errors.Op = "converters.ToNullBool"
	srcVal, err := CheckBool(op, src)
	if err != nil {
		return null.Bool{}, errors.New(op).Err(err)
	}
	return null.BoolFrom(srcVal), nil
}

// FromNullBool converts a null.Bool to a bool; null becomes false.
func FromNullBool(src any) (any, error) {
	const op errors.Op = "converters.FromNullBool"
	if nb, ok := src.(null.Bool); ok {
		if !nb.Valid {
			return false, nil
		}
		return nb.Bool, nil
	}
	srcVal, err := CheckBool(op, src)
	if err != nil {
		return false, errors.New(op).Err(err)
	}
	return srcVal, nil
}

// ToNullTime converts a time.Time to a null.Time. The zero time becomes null.
func ToNullTime(src any) (any, error) {
	const op errors.Op = "converters.ToNullTime"
	srcVal, err := CheckTime(op, src)
	if err != nil {
		return null.Time{}, errors.New(op).Err(err)
	}
	if srcVal.IsZero() {
		return null.Time{}, nil
	}
	return null.TimeFrom(srcVal), nil
}

// FromNullTime converts a null.Time to a time.Time; null becomes the zero time.
func FromNullTime(src any) (any, error) {
	const op errors.Op = "converters.FromNullTime"
	if nt, ok := src.(null.Time); ok {
		if !nt.Valid {
			return time.Time{}, nil
		}
		return nt.Time, nil
	}
	srcVal, err := CheckTime(op, src)
	if err != nil {
		return time.Time{}, errors.New(op).Err(err)
	}
	return srcVal, nil
}
