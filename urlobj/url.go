package urlobj

//go:generate go tool errtrace -w .

import (
	"fmt"
	"io"
	"iter"
	"log/slog"
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/urlkit/urlobject/internal/errorutil"
	"github.com/urlkit/urlobject/internal/grammar"
	"github.com/urlkit/urlobject/internal/ioutil"
	"github.com/urlkit/urlobject/internal/util"
	"github.com/urlkit/urlobject/query"
)

// URL is an immutable URL value.
// The zero value is an empty URL with every part absent.
// Empty strings denote absent parts.
type URL struct {
	scheme   string
	user     string
	pass     string
	host     string
	port     uint16
	hasPort  bool
	path     string
	fragment string
	params   []Parameter
	index    map[string]int // param key -> position in params
}

// Create returns an empty URL.
func Create() URL { return URL{} }

// partSetters maps parts produced by [grammar.Split] to the URL builders.
var partSetters = map[grammar.Part]func(URL, string) URL{
	grammar.PartScheme:   URL.WithScheme,
	grammar.PartHost:     URL.WithHost,
	grammar.PartPort:     URL.withPortString,
	grammar.PartUser:     URL.WithUser,
	grammar.PartPass:     URL.WithPass,
	grammar.PartPath:     URL.WithPath,
	grammar.PartQuery:    URL.WithQuery,
	grammar.PartFragment: URL.WithFragment,
}

// FromString parses raw into a URL.
//
// The input must be an absolute, syntactically valid URL, otherwise an error
// wrapping [ErrInvalidURL] is returned. Path and fragment are kept escaped,
// the query is decoded into parameters with [query.Parse].
func FromString(raw string) (URL, error) {
	if err := grammar.Validate(raw); err != nil {
		return URL{}, errtrace.Wrap(newInvalidURLErr(raw, err))
	}
	u, err := fromComponents(raw)
	if err != nil {
		return URL{}, errtrace.Wrap(newInvalidURLErr(raw, err))
	}
	return u, nil
}

// Parse is like [FromString] but accepts a string or a byte slice.
func Parse[T ~string | ~[]byte](s T) (URL, error) {
	return errtrace.Wrap2(FromString(string(s)))
}

// MustParse is like [FromString] but panics on error.
// It is intended for static URLs in tests and variable initialization.
func MustParse(raw string) URL {
	u, err := FromString(raw)
	if err != nil {
		panic(err)
	}
	return u
}

// FromNetURL converts an already parsed [net/url.URL] into a URL.
// A nil input yields an empty URL.
// The generic URL syntax check of [FromString] is not applied,
// only the decomposition, so relative references are accepted.
func FromNetURL(nu *url.URL) (URL, error) {
	if nu == nil {
		return URL{}, nil
	}
	s := nu.String()
	if s == "" {
		return URL{}, nil
	}
	u, err := fromComponents(s)
	if err != nil {
		return URL{}, errtrace.Wrap(newInvalidURLErr(s, err))
	}
	return u, nil
}

func fromComponents(s string) (URL, error) {
	comps, err := grammar.Split(s)
	if err != nil {
		return URL{}, errtrace.Wrap(err)
	}

	var u URL
	for _, c := range comps {
		if set, ok := partSetters[c.Part]; ok {
			u = set(u, c.Value)
		}
	}
	return u, nil
}

func newInvalidURLErr(raw string, err error) error {
	return errorutil.NewWrapperError(ErrInvalidURL, fmt.Errorf("%q: %w", raw, err)) //errtrace:skip
}

// WithScheme returns a copy of the URL with the scheme replaced.
func (u URL) WithScheme(scheme string) URL {
	u.scheme = scheme
	return u
}

// WithUser returns a copy of the URL with the user name replaced.
func (u URL) WithUser(user string) URL {
	u.user = user
	return u
}

// WithPass returns a copy of the URL with the password replaced.
// The password is rendered only together with a user name.
func (u URL) WithPass(pass string) URL {
	u.pass = pass
	return u
}

// WithHost returns a copy of the URL with the host replaced.
func (u URL) WithHost(host string) URL {
	u.host = host
	return u
}

// WithPort returns a copy of the URL with the port set.
func (u URL) WithPort(port uint16) URL {
	u.port, u.hasPort = port, true
	return u
}

// WithoutPort returns a copy of the URL with the port removed.
func (u URL) WithoutPort() URL {
	u.port, u.hasPort = 0, false
	return u
}

// withPortString applies a port produced by [grammar.Split], which already
// rejects ports that are not decimal or exceed 65535.
func (u URL) withPortString(s string) URL {
	port, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return u
	}
	return u.WithPort(uint16(port))
}

// WithPath returns a copy of the URL with the path replaced.
func (u URL) WithPath(path string) URL {
	u.path = path
	return u
}

// WithFragment returns a copy of the URL with the fragment replaced.
func (u URL) WithFragment(fragment string) URL {
	u.fragment = fragment
	return u
}

// WithQuery decodes the query string with [query.Parse] and
// applies the resulting parameters with [URL.WithParameters].
// A leading "?" is ignored.
func (u URL) WithQuery(q string) URL {
	return u.WithParameters(query.Parse(strings.TrimPrefix(q, "?")))
}

// WithParameter returns a copy of the URL with the parameter key set to value.
// An existing key keeps its position, a new key is appended.
// An empty key leaves the URL unchanged.
func (u URL) WithParameter(key string, value any) URL {
	return u.withParams(func(yield func(string, any) bool) { yield(key, value) })
}

// WithParameters applies [URL.WithParameter] for every entry of m in its order.
func (u URL) WithParameters(m *query.Map) URL {
	if m.Len() == 0 {
		return u
	}
	return u.withParams(m.All())
}

// WithParameterMap applies [URL.WithParameter] for every entry of m in
// ascending key order, since Go maps carry no order of their own.
func (u URL) WithParameterMap(m map[string]any) URL {
	if len(m) == 0 {
		return u
	}
	return u.withParams(func(yield func(string, any) bool) {
		for _, k := range slices.Sorted(maps.Keys(m)) {
			if !yield(k, m[k]) {
				return
			}
		}
	})
}

// WithoutParameter returns a copy of the URL with the parameter key removed.
func (u URL) WithoutParameter(key string) URL {
	i, ok := u.index[key]
	if !ok {
		return u
	}
	params := slices.Delete(slices.Clone(u.params), i, i+1)
	index := make(map[string]int, len(params))
	for j, p := range params {
		index[p.key] = j
	}
	u.params, u.index = params, index
	return u
}

// withParams copies the parameter storage once and applies kvs to the copy.
func (u URL) withParams(kvs iter.Seq2[string, any]) URL {
	params := slices.Clone(u.params)
	index := maps.Clone(u.index)
	for k, v := range kvs {
		if k == "" {
			continue
		}
		p := ParamFrom(k, v)
		if i, ok := index[k]; ok {
			params[i] = p
			continue
		}
		if index == nil {
			index = make(map[string]int)
		}
		index[k] = len(params)
		params = append(params, p)
	}
	u.params, u.index = params, index
	return u
}

// Scheme returns the scheme or an empty string.
func (u URL) Scheme() string { return u.scheme }

// User returns the user name or an empty string.
func (u URL) User() string { return u.user }

// Pass returns the password or an empty string.
func (u URL) Pass() string { return u.pass }

// Host returns the host or an empty string.
func (u URL) Host() string { return u.host }

// Port returns the port, in case it is set, and a bool flag indicating whether it is set.
func (u URL) Port() (uint16, bool) { return u.port, u.hasPort }

// Path returns the path or an empty string.
func (u URL) Path() string { return u.path }

// Fragment returns the fragment or an empty string.
func (u URL) Fragment() string { return u.fragment }

// Parameters returns a copy of the parameters in insertion order,
// or nil when there are none.
func (u URL) Parameters() []Parameter {
	if len(u.params) == 0 {
		return nil
	}
	return slices.Clone(u.params)
}

// Parameter returns the parameter with the given key.
// It returns an error wrapping [ErrUnknownParameter] if the key is not set.
func (u URL) Parameter(key string) (Parameter, error) {
	i, ok := u.index[key]
	if !ok {
		return Parameter{}, errtrace.Wrap(errorutil.NewWrapperError(ErrUnknownParameter, "%q", key))
	}
	return u.params[i], nil
}

// HasParameter reports whether the parameter key is set.
func (u URL) HasParameter(key string) bool {
	_, ok := u.index[key]
	return ok
}

// Query returns the parameters encoded as a query string in insertion order.
func (u URL) Query() string { return query.BuildPairs(u.paramPairs()) }

// SortedQuery returns the parameters encoded as a query string in ascending key order.
func (u URL) SortedQuery() string {
	params := slices.SortedFunc(slices.Values(u.params), func(a, b Parameter) int {
		return strings.Compare(a.key, b.key)
	})
	return query.BuildPairs(func(yield func(string, any) bool) {
		for _, p := range params {
			if !yield(p.key, p.value) {
				return
			}
		}
	})
}

func (u URL) paramPairs() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, p := range u.params {
			if !yield(p.key, p.value) {
				return
			}
		}
	}
}

// UserInfo returns "user" or "user:pass", or an empty string when no user is set.
func (u URL) UserInfo() string {
	if u.user == "" {
		return ""
	}
	if u.pass == "" {
		return u.user
	}
	return u.user + ":" + u.pass
}

// Authority returns "userinfo@host:port" with absent parts omitted.
func (u URL) Authority() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	u.renderAuthority(sb) //nolint:errcheck
	return sb.String()
}

func (u URL) renderAuthority(w io.Writer) (int, error) {
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	if ui := u.UserInfo(); ui != "" {
		cw.Fprint(ui, "@")
	}
	cw.Fprint(u.host)
	if u.hasPort {
		cw.Fprint(":", strconv.FormatUint(uint64(u.port), 10))
	}
	return errtrace.Wrap2(cw.Result())
}

// RenderTo writes the canonical form of the URL to w.
func (u URL) RenderTo(w io.Writer) (int, error) {
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	if u.scheme != "" {
		cw.Fprint(u.scheme, "://")
	}
	cw.Call(u.renderAuthority)
	cw.Fprint("/", strings.TrimLeft(u.path, "/"))
	if len(u.params) > 0 {
		cw.Fprint("?", u.Query())
	}
	if u.fragment != "" {
		cw.Fprint("#", u.fragment)
	}
	return errtrace.Wrap2(cw.Result())
}

// String returns the canonical form of the URL.
func (u URL) String() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	u.RenderTo(sb) //nolint:errcheck
	return sb.String()
}

// Format implements fmt.Formatter for custom formatting of the URL.
func (u URL) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		u.RenderTo(f) //nolint:errcheck
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(u.String()))
		return
	default:
		if !f.Flag('+') && !f.Flag('#') {
			u.RenderTo(f) //nolint:errcheck
			return
		}

		type hideMethods URL
		type URL hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), URL(u))
		return
	}
}

// Equal compares this URL with another component by component.
// Parameters must have the same keys in the same order and encode to the same values.
func (u URL) Equal(val any) bool {
	var other URL
	switch v := val.(type) {
	case URL:
		other = v
	case *URL:
		if v == nil {
			return false
		}
		other = *v
	default:
		return false
	}

	return u.scheme == other.scheme &&
		u.user == other.user &&
		u.pass == other.pass &&
		u.host == other.host &&
		u.port == other.port &&
		u.hasPort == other.hasPort &&
		u.path == other.path &&
		u.fragment == other.fragment &&
		slices.EqualFunc(u.params, other.params, func(p1, p2 Parameter) bool { return p1.Equal(p2) })
}

// IsValid reports whether the URL has a host and every parameter has a key.
func (u URL) IsValid() bool {
	return util.TrimSP(u.host) != "" && !slices.ContainsFunc(u.params, func(p Parameter) bool { return !p.IsValid() })
}

// IsZero reports whether every part of the URL is absent.
func (u URL) IsZero() bool {
	return u.scheme == "" && u.user == "" && u.pass == "" && u.host == "" &&
		!u.hasPort && u.path == "" && u.fragment == "" && len(u.params) == 0
}

// LogValue implements [slog.LogValuer].
func (u URL) LogValue() slog.Value { return slog.StringValue(u.String()) }

// MarshalText implements [encoding.TextMarshaler].
func (u URL) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (u *URL) UnmarshalText(text []byte) error {
	u1, err := Parse(text)
	if err != nil {
		*u = URL{}
		return errtrace.Wrap(err)
	}
	*u = u1
	return nil
}
