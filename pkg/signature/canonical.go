// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package signature

import (
	"net/url"
	"sort"
	"strings"
)

// uriEncode percent-encodes s per the SigV4 rules: every byte outside the
// unreserved set [A-Za-z0-9-._~] becomes %XX with upper-case hex. When
// encodeSlash is false, '/' passes through so path separators survive.
// url.QueryEscape cannot be used here: it emits '+' for space, which the
// signature algorithm does not accept.
func uriEncode(s string, encodeSlash bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9',
			c == '-', c == '_', c == '.', c == '~':
			b.WriteByte(c)
		case c == '/' && !encodeSlash:
			b.WriteByte(c)
		default:
			const hex = "0123456789ABCDEF"
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0x0f])
		}
	}
	return b.String()
}

// EncodeCanonicalURI encodes a path for the canonical request. Each segment
// is encoded separately, preserving slashes as path separators. This matches
// how AWS SDKs encode paths for signature calculation.
func EncodeCanonicalURI(path string) string {
	if path == "" || path == "/" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return uriEncode(path, false)
}

// EncodePathSegment encodes a single path component, including any slashes it
// contains. Used for copy-source keys where each segment is encoded
// independently and rejoined by the caller.
func EncodePathSegment(segment string) string {
	return uriEncode(segment, true)
}

// CanonicalQueryString builds the sorted canonical query string. Parameter
// names and values are encoded independently; a parameter with an empty value
// (subresource selectors like "acl" or "uploads") is kept as "name=" rather
// than dropped.
func CanonicalQueryString(query url.Values) string {
	if len(query) == 0 {
		return ""
	}

	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		vals := append([]string(nil), query[k]...)
		sort.Strings(vals)
		ek := uriEncode(k, true)
		for _, v := range vals {
			parts = append(parts, ek+"="+uriEncode(v, true))
		}
	}

	return strings.Join(parts, "&")
}

// CanonicalHeaders lower-cases and trims the given headers, sorts them, and
// returns the canonical headers block (with its trailing newline) plus the
// semicolon-joined signed headers list.
func CanonicalHeaders(headers map[string]string) (string, string) {
	lowered := make(map[string]string, len(headers))
	names := make([]string, 0, len(headers))
	for name, val := range headers {
		n := strings.ToLower(strings.TrimSpace(name))
		lowered[n] = strings.TrimSpace(val)
		names = append(names, n)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte(':')
		b.WriteString(lowered[name])
		b.WriteByte('\n')
	}

	return b.String(), strings.Join(names, ";")
}

// BuildCanonicalRequest assembles the six-line canonical request:
//
//	HTTPMethod + "\n" +
//	CanonicalURI + "\n" +
//	CanonicalQueryString + "\n" +
//	CanonicalHeaders + "\n" +
//	SignedHeaders + "\n" +
//	HashedPayload
//
// The canonical headers block already carries its own trailing newline.
// The result is pure: identical inputs always produce identical bytes.
func BuildCanonicalRequest(method, canonicalURI, canonicalQuery, canonicalHeaders, signedHeaders, hashedPayload string) string {
	return strings.Join([]string{
		method,
		canonicalURI,
		canonicalQuery,
		canonicalHeaders,
		signedHeaders,
		hashedPayload,
	}, "\n")
}
