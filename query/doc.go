// Package query decodes and encodes URL query strings.
//
// Decoding follows the widespread form-style rules: pairs are separated by "&",
// keys and values are percent-decoded with "+" meaning a space, and bracketed keys
// build nested structures:
//
//	a=1&b[]=2&b[]=3&c[x][y]=4
//
// decodes to a [Map] with keys a, b and c where b holds the nested map {0: 2, 1: 3}
// and c holds {x: {y: 4}}. A later occurrence of a key replaces the earlier value
// but keeps its original position.
//
// Encoding is the inverse: nested maps are flattened back into bracketed keys,
// every key and value is escaped with [net/url.QueryEscape] and nil values are skipped.
//
// A [Map] is persistent: [Map.With] and [Map.Append] return a new map and never
// modify the receiver, so maps can be shared freely between goroutines.
package query
