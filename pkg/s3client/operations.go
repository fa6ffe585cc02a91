// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package s3client

import (
	"context"
	"crypto/md5"
	"encoding/base64"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/LeeDigitalWorks/s3bridge/pkg/signature"
	"github.com/LeeDigitalWorks/s3bridge/pkg/xmlcodec"
)

// ListBuckets returns all buckets owned by the credentials.
func (c *Client) ListBuckets(ctx context.Context) (*ListBucketsOutput, error) {
	resp, err := c.do(ctx, &request{
		op:     "ListBuckets",
		method: http.MethodGet,
	})
	if err != nil {
		return nil, err
	}

	out := &ListBucketsOutput{}
	root, _ := xmlcodec.Decode(string(resp.body)).(xmlcodec.Node)
	result := childNode(root, "ListAllMyBucketsResult")
	if result == nil {
		return out, nil
	}

	if owner := childNode(result, "Owner"); owner != nil {
		out.OwnerID = nodeString(owner, "ID")
		out.OwnerDisplayName = nodeString(owner, "DisplayName")
	}

	// Buckets.Bucket is known-repeatable; normalize the lone-element case.
	if buckets := childNode(result, "Buckets"); buckets != nil {
		for _, v := range asList(buckets["Bucket"]) {
			b, ok := v.(xmlcodec.Node)
			if !ok {
				continue
			}
			out.Buckets = append(out.Buckets, Bucket{
				Name:         nodeString(b, "Name"),
				CreationDate: nodeString(b, "CreationDate"),
			})
		}
	}
	return out, nil
}

// CreateBucket creates a bucket in the client's region.
func (c *Client) CreateBucket(ctx context.Context, bucket string) error {
	var body []byte
	// us-east-1 is the one region where a location constraint is invalid.
	if c.creds.Region != "us-east-1" {
		body = []byte(xmlcodec.Encode("CreateBucketConfiguration", xmlcodec.Node{
			"LocationConstraint": c.creds.Region,
		}))
	}

	_, err := c.do(ctx, &request{
		op:     "CreateBucket",
		method: http.MethodPut,
		bucket: bucket,
		body:   body,
	})
	return err
}

// DeleteBucket removes an empty bucket.
func (c *Client) DeleteBucket(ctx context.Context, bucket string) error {
	_, err := c.do(ctx, &request{
		op:     "DeleteBucket",
		method: http.MethodDelete,
		bucket: bucket,
	})
	return err
}

// ListObjectsOptions narrows a ListObjects call.
type ListObjectsOptions struct {
	Prefix            string
	Delimiter         string
	ContinuationToken string
	MaxKeys           int
}

// ListObjects lists bucket contents via the V2 API. Pagination is the
// caller's concern: pass back NextContinuationToken while IsTruncated.
func (c *Client) ListObjects(ctx context.Context, bucket string, opts ListObjectsOptions) (*ListObjectsOutput, error) {
	query := url.Values{}
	query.Set("list-type", "2")
	if opts.Prefix != "" {
		query.Set("prefix", opts.Prefix)
	}
	if opts.Delimiter != "" {
		query.Set("delimiter", opts.Delimiter)
	}
	if opts.ContinuationToken != "" {
		query.Set("continuation-token", opts.ContinuationToken)
	}
	if opts.MaxKeys > 0 {
		query.Set("max-keys", strconv.Itoa(opts.MaxKeys))
	}

	resp, err := c.do(ctx, &request{
		op:     "ListObjects",
		method: http.MethodGet,
		bucket: bucket,
		query:  query,
	})
	if err != nil {
		return nil, err
	}

	out := &ListObjectsOutput{}
	root, _ := xmlcodec.Decode(string(resp.body)).(xmlcodec.Node)
	result := childNode(root, "ListBucketResult")
	if result == nil {
		return out, nil
	}

	out.Name = nodeString(result, "Name")
	out.Prefix = nodeString(result, "Prefix")
	out.IsTruncated = nodeBool(result, "IsTruncated")
	out.NextContinuationToken = nodeString(result, "NextContinuationToken")

	for _, v := range asList(result["Contents"]) {
		obj, ok := v.(xmlcodec.Node)
		if !ok {
			continue
		}
		out.Contents = append(out.Contents, Object{
			Key:          nodeString(obj, "Key"),
			Size:         nodeInt64(obj, "Size"),
			ETag:         strings.Trim(nodeString(obj, "ETag"), `"`),
			LastModified: nodeString(obj, "LastModified"),
			StorageClass: nodeString(obj, "StorageClass"),
		})
	}
	for _, v := range asList(result["CommonPrefixes"]) {
		if cp, ok := v.(xmlcodec.Node); ok {
			out.CommonPrefixes = append(out.CommonPrefixes, nodeString(cp, "Prefix"))
		}
	}
	return out, nil
}

// HeadObject fetches object metadata without the body.
func (c *Client) HeadObject(ctx context.Context, bucket, key string) (*ObjectMeta, error) {
	resp, err := c.do(ctx, &request{
		op:     "HeadObject",
		method: http.MethodHead,
		bucket: bucket,
		key:    key,
	})
	if err != nil {
		return nil, err
	}
	meta := metaFromHeader(resp.header)
	return &meta, nil
}

// GetObjectOptions carries conditional-read headers. A matching IfNoneMatch
// surfaces as s3err.ErrNotModified; a failed IfMatch as a PreconditionFailed
// APIError.
type GetObjectOptions struct {
	IfMatch     string
	IfNoneMatch string
	Range       string
}

// GetObject downloads an object.
func (c *Client) GetObject(ctx context.Context, bucket, key string, opts GetObjectOptions) (*GetObjectOutput, error) {
	headers := map[string]string{}
	if opts.IfMatch != "" {
		headers["If-Match"] = opts.IfMatch
	}
	if opts.IfNoneMatch != "" {
		headers["If-None-Match"] = opts.IfNoneMatch
	}
	if opts.Range != "" {
		headers["Range"] = opts.Range
	}

	resp, err := c.do(ctx, &request{
		op:      "GetObject",
		method:  http.MethodGet,
		bucket:  bucket,
		key:     key,
		headers: headers,
	})
	if err != nil {
		return nil, err
	}

	return &GetObjectOutput{
		ObjectMeta: metaFromHeader(resp.header),
		Body:       resp.body,
	}, nil
}

// PutObject uploads body as bucket/key and returns the ETag.
func (c *Client) PutObject(ctx context.Context, bucket, key string, body []byte, contentType string, metadata map[string]string) (string, error) {
	headers := map[string]string{}
	if contentType != "" {
		headers["Content-Type"] = contentType
	}
	for name, val := range metadata {
		headers["x-amz-meta-"+name] = val
	}

	resp, err := c.do(ctx, &request{
		op:      "PutObject",
		method:  http.MethodPut,
		bucket:  bucket,
		key:     key,
		headers: headers,
		body:    body,
	})
	if err != nil {
		return "", err
	}
	return strings.Trim(resp.header.Get("ETag"), `"`), nil
}

// CopyObject server-side copies srcBucket/srcKey to dstBucket/dstKey. The
// copy source header encodes each key segment independently, rejoined with
// slashes.
func (c *Client) CopyObject(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	segments := strings.Split(srcKey, "/")
	encoded := make([]string, len(segments))
	for i, seg := range segments {
		encoded[i] = signature.EncodePathSegment(seg)
	}

	_, err := c.do(ctx, &request{
		op:     "CopyObject",
		method: http.MethodPut,
		bucket: dstBucket,
		key:    dstKey,
		headers: map[string]string{
			"x-amz-copy-source": "/" + srcBucket + "/" + strings.Join(encoded, "/"),
		},
	})
	return err
}

// DeleteObject removes a single object.
func (c *Client) DeleteObject(ctx context.Context, bucket, key string) error {
	_, err := c.do(ctx, &request{
		op:     "DeleteObject",
		method: http.MethodDelete,
		bucket: bucket,
		key:    key,
	})
	return err
}

// DeleteObjects batch-deletes up to 1000 keys in one call.
func (c *Client) DeleteObjects(ctx context.Context, bucket string, keys []string) (*DeleteObjectsOutput, error) {
	objects := make([]any, 0, len(keys))
	for _, key := range keys {
		objects = append(objects, xmlcodec.Node{"Key": key})
	}
	body := []byte(xmlcodec.Encode("Delete", xmlcodec.Node{
		"Object": objects,
	}))

	sum := md5.Sum(body)
	query := url.Values{}
	query.Set("delete", "")

	resp, err := c.do(ctx, &request{
		op:     "DeleteObjects",
		method: http.MethodPost,
		bucket: bucket,
		query:  query,
		headers: map[string]string{
			"Content-MD5":  base64.StdEncoding.EncodeToString(sum[:]),
			"Content-Type": "application/xml",
		},
		body: body,
	})
	if err != nil {
		return nil, err
	}

	out := &DeleteObjectsOutput{}
	root, _ := xmlcodec.Decode(string(resp.body)).(xmlcodec.Node)
	result := childNode(root, "DeleteResult")
	if result == nil {
		return out, nil
	}
	for _, v := range asList(result["Deleted"]) {
		if d, ok := v.(xmlcodec.Node); ok {
			out.Deleted = append(out.Deleted, DeletedObject{Key: nodeString(d, "Key")})
		}
	}
	for _, v := range asList(result["Error"]) {
		if e, ok := v.(xmlcodec.Node); ok {
			out.Errors = append(out.Errors, DeletedObject{
				Key:     nodeString(e, "Key"),
				Code:    nodeString(e, "Code"),
				Message: nodeString(e, "Message"),
			})
		}
	}
	return out, nil
}

// GetBucketPolicy returns the bucket policy document. Policies are JSON and
// pass through verbatim; they never touch the XML codec.
func (c *Client) GetBucketPolicy(ctx context.Context, bucket string) (string, error) {
	query := url.Values{}
	query.Set("policy", "")

	resp, err := c.do(ctx, &request{
		op:     "GetBucketPolicy",
		method: http.MethodGet,
		bucket: bucket,
		query:  query,
	})
	if err != nil {
		return "", err
	}
	return string(resp.body), nil
}

// PutBucketPolicy installs a JSON policy document on the bucket.
func (c *Client) PutBucketPolicy(ctx context.Context, bucket, policyJSON string) error {
	query := url.Values{}
	query.Set("policy", "")

	_, err := c.do(ctx, &request{
		op:     "PutBucketPolicy",
		method: http.MethodPut,
		bucket: bucket,
		query:  query,
		headers: map[string]string{
			"Content-Type": "application/json",
		},
		body: []byte(policyJSON),
	})
	return err
}

// metaFromHeader lifts object metadata out of response headers.
func metaFromHeader(h http.Header) ObjectMeta {
	meta := ObjectMeta{
		ContentType:  h.Get("Content-Type"),
		ETag:         strings.Trim(h.Get("ETag"), `"`),
		LastModified: h.Get("Last-Modified"),
	}
	if cl := h.Get("Content-Length"); cl != "" {
		meta.ContentLength, _ = strconv.ParseInt(cl, 10, 64)
	}
	for name := range h {
		lower := strings.ToLower(name)
		if rest, found := strings.CutPrefix(lower, "x-amz-meta-"); found {
			if meta.Metadata == nil {
				meta.Metadata = map[string]string{}
			}
			meta.Metadata[rest] = h.Get(name)
		}
	}
	return meta
}
