package comparator

import (
	"braces.dev/errtrace"

	"github.com/urlkit/urlobject/internal/errorutil"
	"github.com/urlkit/urlobject/internal/util"
	"github.com/urlkit/urlobject/urlobj"
)

// Facet names a comparable part of a URL.
type Facet string

const (
	FacetAll        Facet = "all"
	FacetScheme     Facet = "scheme"
	FacetUser       Facet = "user"
	FacetPass       Facet = "pass"
	FacetUserInfo   Facet = "userinfo"
	FacetHost       Facet = "host"
	FacetPort       Facet = "port"
	FacetAuthority  Facet = "authority"
	FacetPath       Facet = "path"
	FacetQuery      Facet = "query"
	FacetParameters Facet = "parameters"
	FacetFragment   Facet = "fragment"
)

var facets = []Facet{
	FacetAll,
	FacetScheme,
	FacetUser,
	FacetPass,
	FacetUserInfo,
	FacetHost,
	FacetPort,
	FacetAuthority,
	FacetPath,
	FacetQuery,
	FacetParameters,
	FacetFragment,
}

var extractors = map[Facet]Extractor{
	FacetAll:       func(u urlobj.URL) any { return u.String() },
	FacetScheme:    func(u urlobj.URL) any { return u.Scheme() },
	FacetUser:      func(u urlobj.URL) any { return u.User() },
	FacetPass:      func(u urlobj.URL) any { return u.Pass() },
	FacetUserInfo:  func(u urlobj.URL) any { return u.UserInfo() },
	FacetHost:      func(u urlobj.URL) any { return u.Host() },
	FacetAuthority: func(u urlobj.URL) any { return u.Authority() },
	FacetPort: func(u urlobj.URL) any {
		if p, ok := u.Port(); ok {
			return p
		}
		return nil
	},
	FacetPath:       func(u urlobj.URL) any { return u.Path() },
	FacetQuery:      func(u urlobj.URL) any { return u.Query() },
	FacetParameters: func(u urlobj.URL) any { return u.SortedQuery() },
	FacetFragment:   func(u urlobj.URL) any { return u.Fragment() },
}

// Facets returns all known facets in their canonical order.
func Facets() []Facet {
	out := make([]Facet, len(facets))
	copy(out, facets)
	return out
}

// ParseFacet returns the facet named by s, ignoring case.
func ParseFacet(s string) (Facet, error) {
	f := Facet(util.LCase(util.TrimSP(s)))
	if _, ok := extractors[f]; !ok {
		return "", errtrace.Wrap(errorutil.NewInvalidArgumentError("unknown facet %q", s))
	}
	return f, nil
}

func (f Facet) String() string { return string(f) }

// IsValid reports whether f is a known facet.
func (f Facet) IsValid() bool {
	_, ok := extractors[f]
	return ok
}
