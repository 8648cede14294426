package converters

const (
	ErrMsgParamEmpty    = "Parameter cannot be empty."
	ErrMsgBadDateFormat = "Bad date format"
)

// DateLayout is the compact date layout used when none is given.
const DateLayout = "20060102"
