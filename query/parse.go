package query

import (
	"strings"
)

// Parse decodes a query string into a [Map].
//
// Parsing never fails: malformed percent escapes are kept literally,
// pairs with an empty key are skipped and a pair without "=" gets an empty value.
// Dots and spaces in the top-level key name are replaced with underscores.
func Parse(s string) *Map {
	m := &Map{}
	for pair := range strings.SplitSeq(s, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		m.assign(Unescape(k), Unescape(v))
	}
	return m
}

func (m *Map) assign(key, val string) {
	key = strings.TrimLeft(key, " ")
	base, path := splitKey(key)
	if base == "" {
		return
	}
	if len(path) == 0 {
		m.set(base, val)
		return
	}

	cur := m.child(base)
	for i, seg := range path {
		if i == len(path)-1 {
			if seg == "" {
				cur.push(val)
			} else {
				cur.set(seg, val)
			}
			return
		}
		if seg == "" {
			next := &Map{}
			cur.push(next)
			cur = next
			continue
		}
		cur = cur.child(seg)
	}
}

// child returns the nested map stored under key, replacing any scalar value.
// Nested maps reached here were created by the ongoing Parse call, so they are mutated in place.
func (m *Map) child(key string) *Map {
	if v, ok := m.Get(key); ok {
		if c, ok := v.(*Map); ok {
			return c
		}
	}
	c := &Map{}
	m.set(key, c)
	return c
}

var baseKeyRpl = strings.NewReplacer(".", "_", " ", "_")

// splitKey splits "a[b][]" into base "a" and path ["b", ""].
// An opening bracket without a closing one is kept literally as an underscore.
// Anything after the last well-formed bracket group is dropped.
func splitKey(key string) (string, []string) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return baseKeyRpl.Replace(key), nil
	}
	if strings.IndexByte(key[open:], ']') < 0 {
		return baseKeyRpl.Replace(key[:open]) + "_" + key[open+1:], nil
	}

	base := baseKeyRpl.Replace(key[:open])
	var path []string
	rest := key[open:]
	for len(rest) > 0 && rest[0] == '[' {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			break
		}
		path = append(path, rest[1:end])
		rest = rest[end+1:]
	}
	return base, path
}

// Unescape decodes a form-encoded string leniently:
// "+" becomes a space and "%XX" sequences are decoded,
// while invalid escapes are kept as is.
func Unescape(s string) string {
	if !strings.ContainsAny(s, "%+") {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '+':
			sb.WriteByte(' ')
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			sb.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
