package converters

import (
	"time"

	"github.com/Station-Manager/errors"
)

func CheckString(op errors.Op, src any) (string, error) {
	srcVal, ok := src.(string)
	if !ok {
		return "", errors.New(op).Errorf("Given parameter not a string, got %T", src)
	}
	if srcVal == "" {
		return "", errors.New(op).Msg(ErrMsgParamEmpty)
	}
	return srcVal, nil
}

func CheckInt64(op errors.Op, src any) (int64, error) {
	srcVal, ok := src.(int64)
	if !ok {
		return -1, errors.New(op).Errorf("Given parameter not a int64, got %T", src)
	}
	return srcVal, nil
}

func CheckBool(op errors.Op, src any) (bool, error) {
	srcVal, ok := src.(bool)
	if !ok {
		return false, errors.New(op).Errorf("Given parameter not a bool, got %T", src)
	}
	return srcVal, nil
}

func CheckTime(op errors.Op, src any) (time.Time, error) {
	srcVal, ok := src.(time.Time)
	if !ok {
		return time.Time{}, errors.New(op).Errorf("Given parameter not a time.Time, got %T", src)
	}
	return srcVal, nil
}
