package query

import (
	"fmt"
	"iter"
	"net/url"
	"strconv"
	"strings"
)

// Build encodes m into a query string, see [BuildPairs].
func Build(m *Map) string { return BuildPairs(m.All()) }

// BuildPairs encodes the key/value sequence into a query string.
//
// Pairs are joined with "&" in sequence order. Nil values are skipped,
// nested maps are flattened into bracketed keys like "a[0]" and "a[b][c]".
func BuildPairs(kvs iter.Seq2[string, any]) string {
	var sb strings.Builder
	for k, v := range kvs {
		writePair(&sb, k, v)
	}
	return sb.String()
}

func writePair(sb *strings.Builder, key string, val any) {
	if nested, ok := val.(*Map); ok {
		for k, v := range nested.All() {
			writePair(sb, key+"["+k+"]", v)
		}
		return
	}

	s, ok := FormatValue(val)
	if !ok {
		return
	}
	if sb.Len() > 0 {
		sb.WriteByte('&')
	}
	sb.WriteString(url.QueryEscape(key))
	sb.WriteByte('=')
	sb.WriteString(url.QueryEscape(s))
}

// FormatValue returns the unescaped textual form of a scalar value.
// It returns false for nil and for nested maps, which have no scalar form.
func FormatValue(val any) (string, bool) {
	switch v := val.(type) {
	case nil, *Map:
		return "", false
	case string:
		return v, true
	case bool:
		if v {
			return "1", true
		}
		return "0", true
	case int:
		return strconv.Itoa(v), true
	case int8:
		return strconv.FormatInt(int64(v), 10), true
	case int16:
		return strconv.FormatInt(int64(v), 10), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint8:
		return strconv.FormatUint(uint64(v), 10), true
	case uint16:
		return strconv.FormatUint(uint64(v), 10), true
	case uint32:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return fmt.Sprint(v), true
	}
}
