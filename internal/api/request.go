package api

import (
	"net/url"
	"strconv"
	"strings"
)

// Param is a single query parameter.
type Param struct {
	Key   string
	Value string
}

// Query is an ordered list of query parameters with unique keys.
type Query []Param

// Set adds key=value, replacing the value in place if key is already present.
func (q Query) Set(key, value string) Query {
	for i := range q {
		if q[i].Key == key {
			q[i].Value = value
			return q
		}
	}
	return append(q, Param{Key: key, Value: value})
}

// SetInt is Set for integer values.
func (q Query) SetInt(key string, value int) Query {
	return q.Set(key, strconv.Itoa(value))
}

// Get returns the value for key and whether it is present.
func (q Query) Get(key string) (string, bool) {
	for _, p := range q {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Encode renders the parameters in insertion order.
func (q Query) Encode() string {
	if len(q) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// RequestSpec describes one logical API call.
type RequestSpec struct {
	Method string
	// Path is relative to the base URL and must start with "/".
	Path  string
	Query Query
	// Body is marshalled to JSON when non-nil.
	Body any
}

// EscapeID escapes a resource identifier for use as a single path segment.
// Unlike url.PathEscape it also escapes "+".
func EscapeID(id string) string {
	return strings.ReplaceAll(url.PathEscape(id), "+", "%2B")
}
