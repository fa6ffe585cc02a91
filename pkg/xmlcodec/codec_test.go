// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package xmlcodec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEmptyInput(t *testing.T) {
	assert.Equal(t, Node{}, Decode(""))
	assert.Equal(t, Node{}, Decode("   \n\t  "))
	assert.Equal(t, Node{}, Decode(`<?xml version="1.0" encoding="UTF-8"?>`))
}

func TestDecodeNonTagInput(t *testing.T) {
	// Entirely non-tag input comes back verbatim as a string, not an error.
	assert.Equal(t, "plain text body", Decode("plain text body"))
	assert.Equal(t, "a < b", Decode("a &lt; b"))
}

func TestDecodeLeaf(t *testing.T) {
	got := Decode("<Name>my-bucket</Name>")
	require.IsType(t, Node{}, got)
	assert.Equal(t, "my-bucket", got.(Node)["Name"])
}

func TestDecodeNested(t *testing.T) {
	got := Decode(`<Owner><ID>abc123</ID><DisplayName>tester</DisplayName></Owner>`)
	owner, ok := got.(Node)["Owner"].(Node)
	require.True(t, ok)
	assert.Equal(t, "abc123", owner["ID"])
	assert.Equal(t, "tester", owner["DisplayName"])
}

func TestDecodeRepeatedSiblings(t *testing.T) {
	// Two siblings collapse into an ordered list; a lone occurrence stays
	// scalar. Callers own the normalization.
	got := Decode(`<Root><Item>a</Item><Item>b</Item></Root>`).(Node)
	root := got["Root"].(Node)
	assert.Equal(t, []any{"a", "b"}, root["Item"])

	single := Decode(`<Root><Item>a</Item></Root>`).(Node)
	assert.Equal(t, "a", single["Root"].(Node)["Item"])
}

func TestDecodeSelfClosing(t *testing.T) {
	got := Decode(`<Root><Empty/><Value>x</Value></Root>`).(Node)
	root := got["Root"].(Node)
	assert.Equal(t, "", root["Empty"])
	assert.Equal(t, "x", root["Value"])
}

func TestDecodeEntities(t *testing.T) {
	got := Decode(`<Message>5 &lt; 6 &amp;&amp; &quot;quoted&quot;</Message>`).(Node)
	assert.Equal(t, `5 < 6 && "quoted"`, got["Message"])
}

func TestDecodeSameNameNesting(t *testing.T) {
	// An element containing a same-named child must not close early.
	got := Decode(`<Node><Node>inner</Node></Node>`).(Node)
	outer := got["Node"].(Node)
	assert.Equal(t, "inner", outer["Node"])
}

func TestDecodeMalformedBestEffort(t *testing.T) {
	// An unclosed tag is skipped; the rest of the document still parses.
	got := Decode(`<Root><Broken><Good>yes</Good></Root>`)
	root, ok := got.(Node)["Root"]
	require.True(t, ok, "partial result expected, got %v", got)
	if node, ok := root.(Node); ok {
		assert.Equal(t, "yes", node["Good"])
	}
}

func TestDecodeErrorBody(t *testing.T) {
	body := `<?xml version="1.0" encoding="UTF-8"?>
<Error>
  <Code>NoSuchBucket</Code>
  <Message>The specified bucket does not exist</Message>
  <BucketName>missing</BucketName>
</Error>`
	got := Decode(body).(Node)
	errNode := got["Error"].(Node)
	assert.Equal(t, "NoSuchBucket", errNode["Code"])
	assert.Equal(t, "The specified bucket does not exist", errNode["Message"])
}

func TestEncodeLeafAndNil(t *testing.T) {
	out := Encode("Root", Node{"Value": "a<b", "Missing": nil})
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, "<Value>a&lt;b</Value>")
	assert.Contains(t, out, "<Missing/>")
}

func TestEncodeArrayUnwraps(t *testing.T) {
	out := Encode("Delete", Node{
		"Object": []any{
			Node{"Key": "a.txt"},
			Node{"Key": "b.txt"},
		},
	})
	// Arrays become repeated sibling tags, not an indexed container.
	assert.Equal(t,
		`<?xml version="1.0" encoding="UTF-8"?>`+
			`<Delete><Object><Key>a.txt</Key></Object><Object><Key>b.txt</Key></Object></Delete>`,
		out)
}

func TestRoundTrip(t *testing.T) {
	original := Node{
		"CompleteMultipartUpload": Node{
			"Part": []any{
				Node{"ETag": "etag-1", "PartNumber": "1"},
				Node{"ETag": "etag-2", "PartNumber": "2"},
			},
		},
	}

	encoded := Encode("Body", original)
	decoded := Decode(encoded).(Node)

	assert.Equal(t, Node{"Body": original}, decoded)
}

func TestRoundTripEscaping(t *testing.T) {
	original := Node{"Key": `a&b<c>"d"'e'`}
	decoded := Decode(Encode("Root", original)).(Node)
	assert.Equal(t, original, decoded["Root"])
}
