package dispatch

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

var errNotCoercible = errors.New("value cannot be coerced")

// laxInt accepts a JSON integer, an integral float such as 500.0, or a
// string holding either.
type laxInt int

func (n *laxInt) UnmarshalJSON(b []byte) error {
	text, err := scalarText(b)
	if err != nil {
		return err
	}

	if i, err := strconv.ParseInt(text, 10, strconv.IntSize); err == nil {
		*n = laxInt(i)
		return nil
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f != math.Trunc(f) || f < math.MinInt || f >= math.MaxInt {
		return errNotCoercible
	}
	*n = laxInt(f)
	return nil
}

// laxBool accepts a JSON boolean, the numbers 0 and 1, or one of the usual
// textual spellings of true and false.
type laxBool bool

func (v *laxBool) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch string(b) {
	case "true":
		*v = true
		return nil
	case "false":
		*v = false
		return nil
	}

	text, err := scalarText(b)
	if err != nil {
		return err
	}

	switch strings.ToLower(text) {
	case "1", "1.0", "t", "true", "y", "yes", "on":
		*v = true
	case "0", "0.0", "f", "false", "n", "no", "off":
		*v = false
	default:
		return errNotCoercible
	}
	return nil
}

// scalarText returns the text of a JSON number or string.
func scalarText(b []byte) (string, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return "", errNotCoercible
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", errNotCoercible
		}
		return strings.TrimSpace(s), nil
	}

	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return "", errNotCoercible
	}
	return num.String(), nil
}

func optionalInt(n *laxInt) *int {
	if n == nil {
		return nil
	}
	i := int(*n)
	return &i
}

func flag(b *laxBool) bool {
	return b != nil && bool(*b)
}
