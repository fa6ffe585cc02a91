// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package signature

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeCanonicalURI(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"root", "/", "/"},
		{"empty", "", "/"},
		{"plain", "/bucket/key.txt", "/bucket/key.txt"},
		{"space", "/bucket/my file.txt", "/bucket/my%20file.txt"},
		{"dollar", "/test$file.text", "/test%24file.text"},
		{"unreserved kept", "/a-b_c.d~e", "/a-b_c.d~e"},
		{"slashes preserved", "/bucket/folder/sub/key", "/bucket/folder/sub/key"},
		{"unicode", "/b/é", "/b/%C3%A9"},
		{"missing leading slash", "bucket/key", "/bucket/key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeCanonicalURI(tt.path))
		})
	}
}

func TestEncodePathSegment(t *testing.T) {
	// Segment encoding escapes slashes too; used for copy-source keys.
	assert.Equal(t, "a%2Fb", EncodePathSegment("a/b"))
	assert.Equal(t, "my%20file", EncodePathSegment("my file"))
}

func TestCanonicalQueryString(t *testing.T) {
	tests := []struct {
		name  string
		query url.Values
		want  string
	}{
		{"empty", url.Values{}, ""},
		{
			"empty value kept as name=",
			url.Values{"acl": {""}},
			"acl=",
		},
		{
			"sorted by name",
			url.Values{"prefix": {"J"}, "max-keys": {"2"}},
			"max-keys=2&prefix=J",
		},
		{
			"space encodes as percent-20 not plus",
			url.Values{"prefix": {"a b"}},
			"prefix=a%20b",
		},
		{
			"values sorted within a name",
			url.Values{"k": {"b", "a"}},
			"k=a&k=b",
		},
		{
			"reserved characters encoded",
			url.Values{"continuation-token": {"a/b=c"}},
			"continuation-token=a%2Fb%3Dc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalQueryString(tt.query))
		})
	}
}

func TestCanonicalHeaders(t *testing.T) {
	block, signed := CanonicalHeaders(map[string]string{
		"Host":           "example.com",
		"X-Amz-Date":     "20130524T000000Z",
		"Content-Type":   " text/plain ",
		"x-amz-meta-Foo": "bar",
	})

	assert.Equal(t,
		"content-type:text/plain\n"+
			"host:example.com\n"+
			"x-amz-date:20130524T000000Z\n"+
			"x-amz-meta-foo:bar\n",
		block)
	assert.Equal(t, "content-type;host;x-amz-date;x-amz-meta-foo", signed)
}

func TestBuildCanonicalRequestDeterminism(t *testing.T) {
	headers, signed := CanonicalHeaders(map[string]string{"host": "example.com"})
	query := url.Values{"acl": {""}}

	first := BuildCanonicalRequest("GET", "/b/k", CanonicalQueryString(query), headers, signed, HashedEmptyPayload)
	for i := 0; i < 10; i++ {
		again := BuildCanonicalRequest("GET", "/b/k", CanonicalQueryString(query), headers, signed, HashedEmptyPayload)
		assert.Equal(t, first, again)
	}

	// Exactly six fields: five newline-joined plus the headers block's own
	// trailing newline.
	assert.Equal(t, "GET\n/b/k\nacl=\nhost:example.com\n\nhost\n"+HashedEmptyPayload, first)
}
