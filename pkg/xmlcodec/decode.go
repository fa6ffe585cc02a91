// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package xmlcodec is a minimal, schema-less XML codec for the S3 wire
// format. Documents decode into nested map[string]any values: a tag maps to
// a leaf string, a nested node, or a []any when the tag repeats as a
// sibling. Attributes are deliberately not modeled; nothing in the S3 or IAM
// response surface we consume requires them.
//
// The decoder is lenient. S3-compatible services occasionally emit malformed
// error bodies; a best-effort partial result is more useful there than a
// parse error, so unmatched tags are skipped and non-tag input is returned
// verbatim as a string.
package xmlcodec

import "strings"

// Node is the generic decoded form of an XML element's children.
type Node = map[string]any

// Decode parses an XML document into a Node. Empty or whitespace-only input
// yields an empty Node. Input containing no tags at all is returned as the
// trimmed string itself.
func Decode(input string) any {
	s := strings.TrimSpace(stripProlog(input))
	if s == "" {
		return Node{}
	}
	if !hasTag(s) {
		return unescape(s)
	}
	return parseChildren(s)
}

// stripProlog removes the <?xml ...?> declaration and any comments.
func stripProlog(s string) string {
	for {
		start := strings.Index(s, "<?")
		if start >= 0 {
			if end := strings.Index(s[start:], "?>"); end >= 0 {
				s = s[:start] + s[start+end+2:]
				continue
			}
		}
		start = strings.Index(s, "<!--")
		if start >= 0 {
			if end := strings.Index(s[start:], "-->"); end >= 0 {
				s = s[:start] + s[start+end+3:]
				continue
			}
		}
		return s
	}
}

// hasTag reports whether s contains something that looks like an opening tag.
func hasTag(s string) bool {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '<' && isNameStart(s[i+1]) {
			return true
		}
	}
	return false
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || c == '-' || c == '.' || c == ':' || (c >= '0' && c <= '9')
}

// parseChildren scans s for sibling elements and decodes each one. Repeated
// sibling tags collapse into a []any in encounter order; a single occurrence
// stays scalar. Callers that know a field is repeatable must normalize,
// since a lone element is indistinguishable from a required singleton.
func parseChildren(s string) Node {
	node := Node{}
	i := 0
	for i < len(s) {
		open := strings.IndexByte(s[i:], '<')
		if open < 0 {
			break
		}
		i += open
		if i+1 >= len(s) || !isNameStart(s[i+1]) {
			i++
			continue
		}

		// Tag name runs until whitespace, '/', or '>'.
		j := i + 1
		for j < len(s) && isNameChar(s[j]) {
			j++
		}
		name := s[i+1 : j]

		gt := strings.IndexByte(s[j:], '>')
		if gt < 0 {
			break
		}
		tagEnd := j + gt

		if tagEnd > i && s[tagEnd-1] == '/' {
			// Self-closing tag decodes to an empty leaf.
			addChild(node, name, "")
			i = tagEnd + 1
			continue
		}

		content, next, ok := findClosing(s, name, tagEnd+1)
		if !ok {
			// No matching close tag; skip past the opening tag and keep
			// whatever else parses.
			i = tagEnd + 1
			continue
		}

		if hasTag(content) {
			addChild(node, name, parseChildren(content))
		} else {
			addChild(node, name, unescape(strings.TrimSpace(content)))
		}
		i = next
	}
	return node
}

// findClosing locates the close tag matching an element named name whose
// content starts at from, tracking nesting of same-named elements. It
// returns the raw content and the offset just past the close tag.
func findClosing(s, name string, from int) (string, int, bool) {
	depth := 1
	i := from
	for i < len(s) {
		lt := strings.IndexByte(s[i:], '<')
		if lt < 0 {
			return "", 0, false
		}
		i += lt

		if strings.HasPrefix(s[i:], "</"+name) {
			rest := i + 2 + len(name)
			if rest < len(s) && s[rest] == '>' {
				depth--
				if depth == 0 {
					return s[from:i], rest + 1, true
				}
				i = rest + 1
				continue
			}
		}

		if strings.HasPrefix(s[i:], "<"+name) {
			rest := i + 1 + len(name)
			if rest < len(s) && (s[rest] == '>' || s[rest] == ' ') {
				// Same-named nested element, unless it self-closes.
				gt := strings.IndexByte(s[rest:], '>')
				if gt >= 0 && s[rest+gt-1] != '/' {
					depth++
				}
				i = rest
				continue
			}
		}

		i++
	}
	return "", 0, false
}

func addChild(node Node, name string, value any) {
	existing, found := node[name]
	if !found {
		node[name] = value
		return
	}
	if list, isList := existing.([]any); isList {
		node[name] = append(list, value)
		return
	}
	node[name] = []any{existing, value}
}

var unescaper = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&amp;", "&",
)

func unescape(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return unescaper.Replace(s)
}
