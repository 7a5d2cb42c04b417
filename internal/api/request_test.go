package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuery_SetKeepsKeysUnique(t *testing.T) {
	var q Query
	q = q.Set("limit", "10").Set("status", "queued").Set("limit", "20")

	assert.Equal(t, Query{{"limit", "20"}, {"status", "queued"}}, q)

	v, ok := q.Get("limit")
	assert.True(t, ok)
	assert.Equal(t, "20", v)

	_, ok = q.Get("offset")
	assert.False(t, ok)
}

func TestQuery_Encode(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		want string
	}{
		{"empty", nil, ""},
		{"insertion order", Query{{"z", "1"}, {"a", "2"}}, "z=1&a=2"},
		{"escapes plus", Query{{"to", "+15551234567"}}, "to=%2B15551234567"},
		{"escapes spaces and ampersands", Query{{"search", "Jane & co"}}, "search=Jane+%26+co"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.q.Encode())
		})
	}
}

func TestEscapeID(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"msg_123", "msg_123"},
		{"batch/special+id", "batch%2Fspecial%2Bid"},
		{"sched/special+id", "sched%2Fspecial%2Bid"},
		{"a b", "a%20b"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeID(tt.id))
		})
	}
}
