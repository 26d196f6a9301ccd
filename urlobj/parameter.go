package urlobj

import (
	"fmt"
	"strconv"

	"github.com/urlkit/urlobject/query"
)

// Parameter is a single query parameter, a key with an optional value.
type Parameter struct {
	key   string
	value any
}

// ParamFrom creates a parameter from the key and value.
// See [query.FormatValue] for the supported value kinds.
// A nested *query.Map value is copied.
func ParamFrom(key string, value any) Parameter {
	return Parameter{key: key, value: cloneValue(value)}
}

// Key returns the parameter key.
func (p Parameter) Key() string { return p.key }

// Value returns the parameter value, nil when absent.
// A nested *query.Map is returned as a copy.
func (p Parameter) Value() any { return cloneValue(p.value) }

// WithValue returns a copy of the parameter with the value replaced.
func (p Parameter) WithValue(value any) Parameter {
	p.value = cloneValue(value)
	return p
}

func cloneValue(v any) any {
	if m, ok := v.(*query.Map); ok && m != nil {
		return m.Clone()
	}
	return v
}

// IsValid reports whether the parameter has a non-empty key.
func (p Parameter) IsValid() bool { return p.key != "" }

// String returns the parameter encoded as a query string fragment, like "key=value".
// Parameters with a nil value render as an empty string.
func (p Parameter) String() string {
	return query.BuildPairs(func(yield func(string, any) bool) { yield(p.key, p.value) })
}

// Format implements fmt.Formatter for custom formatting of the parameter.
func (p Parameter) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, p.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(p.String()))
		return
	default:
		if !f.Flag('+') && !f.Flag('#') {
			fmt.Fprint(f, p.String())
			return
		}

		type hideMethods Parameter
		type Parameter hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), Parameter(p))
		return
	}
}

// Equal reports whether val is a parameter with the same key that encodes to the same value.
func (p Parameter) Equal(val any) bool {
	var other Parameter
	switch v := val.(type) {
	case Parameter:
		other = v
	case *Parameter:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}
	return p.key == other.key && p.String() == other.String()
}
