package converters

import (
	"github.com/Station-Manager/errors"
	"github.com/aarondl/null/v8"
	boilertypes "github.com/aarondl/sqlboiler/v4/types"
)

// NullJSONToJSON converts a null.JSON to a sqlboiler types.JSON; null becomes a nil types.JSON.
func NullJSONToJSON(src any) (any, error) {
	const op errors.Op = "converters.NullJSONToJSON"
	nj, ok := src.(null.JSON)
	if !ok {
		return boilertypes.JSON(nil), errors.New(op).Errorf("Given parameter not a null.JSON, got %T", src)
	}
	if !nj.Valid {
		return boilertypes.JSON(nil), nil
	}
	return boilertypes.JSON(append([]byte(nil), nj.JSON...)), nil
}

// JSONToNullJSON converts a sqlboiler types.JSON to a null.JSON; an empty document becomes null.
func JSONToNullJSON(src any) (any, error) {
	const op errors.Op = "converters.JSONToNullJSON"
	bj, ok := src.(boilertypes.JSON)
	if !ok {
		return null.JSON{}, errors.New(op).Errorf("Given parameter not a types.JSON, got %T", src)
	}
	if len(bj) == 0 {
		return null.JSON{}, nil
	}
	return null.JSONFrom(append([]byte(nil), bj...)), nil
}
