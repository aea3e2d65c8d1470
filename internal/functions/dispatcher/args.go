package dispatcher

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Args is the argument bag the model sent. Values are not validated against
// the declared schema; a missing argument reads as the empty string.
type Args map[string]any

// String returns the argument as text. Numbers and booleans are formatted.
func (a Args) String(key string) string {
	switch v := a[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// Int parses the argument as a base-10 integer.
func (a Args) Int(key string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(a.String(key)))
	if err != nil {
		return 0, false
	}
	return n, true
}
