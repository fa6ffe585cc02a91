// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package xmlcodec

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/LeeDigitalWorks/s3bridge/pkg/utils"
)

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8"?>`

// Encode serializes a structure into an XML document wrapped in root.
// Serialization mirrors Decode: a []any value unwraps into repeated sibling
// tags rather than an indexed container, a nil value becomes a self-closing
// tag, and nested Nodes recurse. Node keys are emitted in sorted order so
// output is deterministic.
func Encode(root string, value any) string {
	b := utils.SyncPoolGetBuffer()
	defer utils.SyncPoolPutBuffer(b)

	b.WriteString(xmlDeclaration)
	encodeValue(b, root, value)
	return b.String()
}

func encodeValue(b *bytes.Buffer, tag string, value any) {
	switch v := value.(type) {
	case nil:
		b.WriteString("<" + tag + "/>")
	case []any:
		// Arrays unwrap to repeated sibling tags of the same name.
		for _, elem := range v {
			encodeValue(b, tag, elem)
		}
	case Node:
		b.WriteString("<" + tag + ">")
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			encodeValue(b, k, v[k])
		}
		b.WriteString("</" + tag + ">")
	case string:
		b.WriteString("<" + tag + ">")
		b.WriteString(escape(v))
		b.WriteString("</" + tag + ">")
	default:
		b.WriteString("<" + tag + ">")
		b.WriteString(escape(fmt.Sprint(v)))
		b.WriteString("</" + tag + ">")
	}
}

// escaper is the exact inverse of the decoder's unescaper, keeping
// encode/decode round-trip safe.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escape(s string) string {
	return escaper.Replace(s)
}
