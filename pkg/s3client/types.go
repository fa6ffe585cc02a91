// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package s3client

import (
	"strconv"

	"github.com/LeeDigitalWorks/s3bridge/pkg/xmlcodec"
)

// Bucket is one entry of a ListBuckets result.
type Bucket struct {
	Name         string
	CreationDate string
}

// Object is one entry of a ListObjects result.
type Object struct {
	Key          string
	Size         int64
	ETag         string
	LastModified string
	StorageClass string
}

// ListBucketsOutput is the decoded ListAllMyBucketsResult.
type ListBucketsOutput struct {
	OwnerID          string
	OwnerDisplayName string
	Buckets          []Bucket
}

// ListObjectsOutput is the decoded ListBucketResult (list-type=2).
type ListObjectsOutput struct {
	Name                  string
	Prefix                string
	IsTruncated           bool
	NextContinuationToken string
	Contents              []Object
	CommonPrefixes        []string
}

// ObjectMeta holds the headers describing an object.
type ObjectMeta struct {
	ContentType   string
	ContentLength int64
	ETag          string
	LastModified  string
	Metadata      map[string]string // x-amz-meta-* values, keyed without the prefix
}

// GetObjectOutput is a downloaded object with its metadata.
type GetObjectOutput struct {
	ObjectMeta
	Body []byte
}

// DeletedObject is one entry of a batch-delete result.
type DeletedObject struct {
	Key     string
	Code    string // empty on success
	Message string
}

// DeleteObjectsOutput reports batch-delete outcomes per key.
type DeleteObjectsOutput struct {
	Deleted []DeletedObject
	Errors  []DeletedObject
}

// CompletedPart identifies one uploaded part when completing a multipart
// upload.
type CompletedPart struct {
	PartNumber int
	ETag       string
}

// ListPartsOutput is the decoded ListPartsResult.
type ListPartsOutput struct {
	UploadID    string
	IsTruncated bool
	Parts       []CompletedPart
}

// asList normalizes a decoded XML value that is known-repeatable. The
// decoder cannot tell a lone repeatable element from a required singleton,
// so every call site reading a list field goes through here.
func asList(v any) []any {
	switch val := v.(type) {
	case nil:
		return nil
	case []any:
		return val
	default:
		return []any{val}
	}
}

// nodeString returns the leaf string under key, or "" when absent or not a
// leaf.
func nodeString(n xmlcodec.Node, key string) string {
	s, _ := n[key].(string)
	return s
}

// childNode returns the nested node under key, or nil.
func childNode(n xmlcodec.Node, key string) xmlcodec.Node {
	child, _ := n[key].(xmlcodec.Node)
	return child
}

func nodeInt64(n xmlcodec.Node, key string) int64 {
	v, _ := strconv.ParseInt(nodeString(n, key), 10, 64)
	return v
}

func nodeBool(n xmlcodec.Node, key string) bool {
	return nodeString(n, key) == "true"
}
