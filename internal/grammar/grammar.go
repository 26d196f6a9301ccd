// Package grammar validates URL syntax and splits URLs into named parts.
package grammar

//go:generate go tool errtrace -w .

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"braces.dev/errtrace"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/urlkit/urlobject/internal/errorutil"
	"github.com/urlkit/urlobject/internal/util"
)

type Error string

func (e Error) Error() string { return string(e) }

func (Error) Grammar() bool { return true }

const (
	ErrEmptyInput     Error = "empty input"
	ErrMalformedInput Error = "malformed input"
)

func newMalformedInputErr(args ...any) error {
	return errorutil.NewWrapperError(ErrMalformedInput, args...) //errtrace:skip
}

// Schemes that are valid without an authority part.
var hostlessSchemes = []string{"mailto", "news", "file"}

// Validate reports whether s is a syntactically well-formed absolute URL.
//
// The string must carry a scheme. URLs of the mailto, news and file schemes
// need a non-empty path and may omit the host, any other URL must pass the
// generic URL syntax check and carry a host.
func Validate[T ~string | ~[]byte](s T) error {
	if len(s) == 0 {
		return errtrace.Wrap(ErrEmptyInput)
	}

	str := string(s)
	u, err := url.Parse(str)
	if err != nil {
		return errtrace.Wrap(newMalformedInputErr(err))
	}
	if u.Scheme == "" {
		return errtrace.Wrap(newMalformedInputErr("missing scheme"))
	}

	if slices.Contains(hostlessSchemes, util.LCase(u.Scheme)) {
		if u.Opaque == "" && strings.Trim(u.Path, "/") == "" {
			return errtrace.Wrap(newMalformedInputErr("missing path"))
		}
		return nil
	}

	if err := validation.Validate(str, is.URL); err != nil {
		return errtrace.Wrap(newMalformedInputErr(err))
	}
	if u.Host == "" {
		return errtrace.Wrap(newMalformedInputErr("missing host"))
	}
	return nil
}

// Part names a URL component produced by [Split].
type Part string

const (
	PartScheme   Part = "scheme"
	PartHost     Part = "host"
	PartPort     Part = "port"
	PartUser     Part = "user"
	PartPass     Part = "pass"
	PartPath     Part = "path"
	PartQuery    Part = "query"
	PartFragment Part = "fragment"
)

// Component is a single non-empty URL part.
type Component struct {
	Part  Part
	Value string
}

// Split decomposes s into its components.
// Only the parts present in s are returned, in the order
// scheme, host, port, user, pass, path, query, fragment.
// Path, query and fragment are kept in their escaped form,
// user and password are unescaped.
func Split[T ~string | ~[]byte](s T) ([]Component, error) {
	if len(s) == 0 {
		return nil, errtrace.Wrap(ErrEmptyInput)
	}

	u, err := url.Parse(string(s))
	if err != nil {
		return nil, errtrace.Wrap(newMalformedInputErr(err))
	}

	host, port := u.Host, u.Port()
	if port != "" {
		n, err := strconv.ParseUint(port, 10, 16)
		if err != nil {
			return nil, errtrace.Wrap(newMalformedInputErr("invalid port %q", port))
		}
		host = strings.TrimSuffix(host, ":"+port)
		port = strconv.FormatUint(n, 10)
	}
	host = strings.TrimSuffix(host, ":")

	path := u.EscapedPath()
	if u.Opaque != "" {
		path = u.Opaque
	}

	comps := make([]Component, 0, 8)
	add := func(p Part, v string) {
		if v != "" {
			comps = append(comps, Component{p, v})
		}
	}
	add(PartScheme, u.Scheme)
	add(PartHost, host)
	add(PartPort, port)
	if u.User != nil {
		add(PartUser, u.User.Username())
		if pwd, ok := u.User.Password(); ok {
			add(PartPass, pwd)
		}
	}
	add(PartPath, path)
	add(PartQuery, u.RawQuery)
	add(PartFragment, u.EscapedFragment())
	return comps, nil
}
