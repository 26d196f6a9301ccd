// Package comparator compares several URLs facet by facet.
//
//	c, err := comparator.Compare("http://x.com/p", "http://y.com/p")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	c.MatchHost() // false
//	c.MatchPath() // true
//
// Every match method reports whether all compared URLs share the same value
// for the facet. A comparator holding zero or one URL matches every facet.
package comparator

//go:generate go tool errtrace -w .

import (
	"fmt"
	"log/slog"
	"net/url"
	"reflect"
	"slices"

	"braces.dev/errtrace"

	"github.com/urlkit/urlobject/internal/errorutil"
	"github.com/urlkit/urlobject/internal/log"
	"github.com/urlkit/urlobject/urlobj"
)

// Options configure a [Comparator].
type Options struct {
	// Logger receives debug records about facet mismatches.
	// If nil, the [log.Noop] logger is used.
	Logger *slog.Logger
}

func (o *Options) log() *slog.Logger {
	if o == nil || o.Logger == nil {
		return log.Noop
	}
	return o.Logger
}

// Comparator holds an ordered list of URLs to compare.
// It is read-only after creation and safe for concurrent use.
type Comparator struct {
	urls []urlobj.URL
	log  *slog.Logger
}

// Compare creates a comparator over the given items.
//
// Items may be strings or byte slices, parsed with [urlobj.FromString],
// [urlobj.URL] values or pointers, or [*net/url.URL] values adopted with [urlobj.FromNetURL].
// Order and duplicates are kept. The first parse failure is returned,
// any other item type yields an error wrapping [errorutil.ErrInvalidArgument].
func Compare(items ...any) (*Comparator, error) {
	return errtrace.Wrap2(CompareWithOptions(nil, items...))
}

// CompareWithOptions is like [Compare] with custom options.
func CompareWithOptions(opts *Options, items ...any) (*Comparator, error) {
	urls := make([]urlobj.URL, 0, len(items))
	for i, item := range items {
		u, err := toURL(item)
		if err != nil {
			return nil, errtrace.Wrap(fmt.Errorf("item %d: %w", i, err))
		}
		urls = append(urls, u)
	}
	return &Comparator{urls: urls, log: opts.log()}, nil
}

func toURL(item any) (urlobj.URL, error) {
	switch v := item.(type) {
	case urlobj.URL:
		return v, nil
	case *urlobj.URL:
		if v == nil {
			return urlobj.URL{}, errtrace.Wrap(errorutil.NewInvalidArgumentError("nil *urlobj.URL"))
		}
		return *v, nil
	case string:
		return errtrace.Wrap2(urlobj.FromString(v))
	case []byte:
		return errtrace.Wrap2(urlobj.Parse(v))
	case *url.URL:
		if v == nil {
			return urlobj.URL{}, errtrace.Wrap(errorutil.NewInvalidArgumentError("nil *url.URL"))
		}
		return errtrace.Wrap2(urlobj.FromNetURL(v))
	default:
		return urlobj.URL{}, errtrace.Wrap(errorutil.NewInvalidArgumentError("unsupported item type %T", item))
	}
}

// Len returns the number of compared URLs.
func (c *Comparator) Len() int { return len(c.urls) }

// URLs returns a copy of the compared URLs in the original order.
func (c *Comparator) URLs() []urlobj.URL { return slices.Clone(c.urls) }

// Extractor picks a comparable value out of a URL.
type Extractor func(u urlobj.URL) any

// Equals reports whether fn yields the same value for every URL.
// Values are compared with [reflect.DeepEqual], so slices, maps and
// other non-comparable values are allowed.
func (c *Comparator) Equals(fn Extractor) bool {
	return c.equals("custom", fn)
}

func (c *Comparator) equals(facet string, fn Extractor) bool {
	if len(c.urls) < 2 {
		return true
	}

	var distinct []any
	mismatch := -1
	for i, u := range c.urls {
		v := fn(u)
		if slices.ContainsFunc(distinct, func(d any) bool { return reflect.DeepEqual(d, v) }) {
			continue
		}
		distinct = append(distinct, v)
		if len(distinct) == 2 {
			mismatch = i
		}
	}
	if len(distinct) == 1 {
		return true
	}

	c.log.Debug("URL facet mismatch",
		slog.String("facet", facet),
		slog.Int("distinct", len(distinct)),
		slog.Any("reference", c.urls[0]),
		slog.Int("mismatch_index", mismatch),
		slog.Any("mismatch", c.urls[mismatch]),
	)
	return false
}

// Match reports whether the canonical strings of all URLs are equal.
func (c *Comparator) Match() bool { return c.MatchFacet(FacetAll) }

// MatchScheme reports whether all URLs have the same scheme.
func (c *Comparator) MatchScheme() bool { return c.MatchFacet(FacetScheme) }

// MatchUser reports whether all URLs have the same user name.
func (c *Comparator) MatchUser() bool { return c.MatchFacet(FacetUser) }

// MatchPass reports whether all URLs have the same password.
func (c *Comparator) MatchPass() bool { return c.MatchFacet(FacetPass) }

// MatchUserInfo reports whether all URLs have the same "user:pass" part.
func (c *Comparator) MatchUserInfo() bool { return c.MatchFacet(FacetUserInfo) }

// MatchHost reports whether all URLs have the same host.
func (c *Comparator) MatchHost() bool { return c.MatchFacet(FacetHost) }

// MatchPort reports whether all URLs have the same port, or all have none.
func (c *Comparator) MatchPort() bool { return c.MatchFacet(FacetPort) }

// MatchAuthority reports whether all URLs have the same "userinfo@host:port" part.
func (c *Comparator) MatchAuthority() bool { return c.MatchFacet(FacetAuthority) }

// MatchPath reports whether all URLs have the same path.
func (c *Comparator) MatchPath() bool { return c.MatchFacet(FacetPath) }

// MatchQuery reports whether all URLs have the same query string,
// parameter order included.
func (c *Comparator) MatchQuery() bool { return c.MatchFacet(FacetQuery) }

// MatchParameters reports whether all URLs have the same parameters
// regardless of their order.
func (c *Comparator) MatchParameters() bool { return c.MatchFacet(FacetParameters) }

// MatchFragment reports whether all URLs have the same fragment.
func (c *Comparator) MatchFragment() bool { return c.MatchFacet(FacetFragment) }

// MatchFacet reports whether all URLs share the same value of the facet.
// An unknown facet never matches.
func (c *Comparator) MatchFacet(f Facet) bool {
	fn, ok := extractors[f]
	if !ok {
		return false
	}
	return c.equals(string(f), fn)
}

// FacetResult is the outcome of matching a single facet.
type FacetResult struct {
	Facet Facet `json:"facet" yaml:"facet"`
	Match bool  `json:"match" yaml:"match"`
}

// Report matches the given facets, or every facet from [Facets] when none are given.
func (c *Comparator) Report(facets ...Facet) []FacetResult {
	if len(facets) == 0 {
		facets = Facets()
	}
	res := make([]FacetResult, 0, len(facets))
	for _, f := range facets {
		res = append(res, FacetResult{Facet: f, Match: c.MatchFacet(f)})
	}
	return res
}
