// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package s3client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/LeeDigitalWorks/s3bridge/pkg/xmlcodec"
)

var errMissingUploadID = errors.New("s3client: response missing upload id")

// Multipart upload calls are independently signed and stateless; sequencing
// parts and carrying the upload ID across calls is the caller's job.

// CreateMultipartUpload starts a multipart session and returns its upload ID.
func (c *Client) CreateMultipartUpload(ctx context.Context, bucket, key, contentType string) (string, error) {
	query := url.Values{}
	query.Set("uploads", "")

	headers := map[string]string{}
	if contentType != "" {
		headers["Content-Type"] = contentType
	}

	resp, err := c.do(ctx, &request{
		op:      "CreateMultipartUpload",
		method:  http.MethodPost,
		bucket:  bucket,
		key:     key,
		query:   query,
		headers: headers,
	})
	if err != nil {
		return "", err
	}

	root, _ := xmlcodec.Decode(string(resp.body)).(xmlcodec.Node)
	result := childNode(root, "InitiateMultipartUploadResult")
	if result == nil {
		return "", errMissingUploadID
	}
	uploadID := nodeString(result, "UploadId")
	if uploadID == "" {
		return "", errMissingUploadID
	}
	return uploadID, nil
}

// UploadPart uploads one part and returns its ETag for the completion call.
// partNumber starts at 1.
func (c *Client) UploadPart(ctx context.Context, bucket, key, uploadID string, partNumber int, body []byte) (string, error) {
	query := url.Values{}
	query.Set("partNumber", strconv.Itoa(partNumber))
	query.Set("uploadId", uploadID)

	resp, err := c.do(ctx, &request{
		op:     "UploadPart",
		method: http.MethodPut,
		bucket: bucket,
		key:    key,
		query:  query,
		body:   body,
	})
	if err != nil {
		return "", err
	}
	return strings.Trim(resp.header.Get("ETag"), `"`), nil
}

// CompleteMultipartUpload assembles the uploaded parts into the final
// object. S3 can report a failure inside a 200 response here, so the body is
// checked for an <Error> element even on success status.
func (c *Client) CompleteMultipartUpload(ctx context.Context, bucket, key, uploadID string, parts []CompletedPart) error {
	query := url.Values{}
	query.Set("uploadId", uploadID)

	partNodes := make([]any, 0, len(parts))
	for _, p := range parts {
		partNodes = append(partNodes, xmlcodec.Node{
			"PartNumber": strconv.Itoa(p.PartNumber),
			"ETag":       p.ETag,
		})
	}
	body := []byte(xmlcodec.Encode("CompleteMultipartUpload", xmlcodec.Node{
		"Part": partNodes,
	}))

	resp, err := c.do(ctx, &request{
		op:     "CompleteMultipartUpload",
		method: http.MethodPost,
		bucket: bucket,
		key:    key,
		query:  query,
		headers: map[string]string{
			"Content-Type": "application/xml",
		},
		body: body,
	})
	if err != nil {
		return err
	}

	if root, ok := xmlcodec.Decode(string(resp.body)).(xmlcodec.Node); ok {
		if _, failed := root["Error"]; failed {
			return decodeAPIError(resp.statusCode, resp.body)
		}
	}
	return nil
}

// AbortMultipartUpload discards a multipart session and its parts.
func (c *Client) AbortMultipartUpload(ctx context.Context, bucket, key, uploadID string) error {
	query := url.Values{}
	query.Set("uploadId", uploadID)

	_, err := c.do(ctx, &request{
		op:     "AbortMultipartUpload",
		method: http.MethodDelete,
		bucket: bucket,
		key:    key,
		query:  query,
	})
	return err
}

// ListParts lists the parts uploaded so far in a multipart session.
func (c *Client) ListParts(ctx context.Context, bucket, key, uploadID string) (*ListPartsOutput, error) {
	query := url.Values{}
	query.Set("uploadId", uploadID)

	resp, err := c.do(ctx, &request{
		op:     "ListParts",
		method: http.MethodGet,
		bucket: bucket,
		key:    key,
		query:  query,
	})
	if err != nil {
		return nil, err
	}

	out := &ListPartsOutput{}
	root, _ := xmlcodec.Decode(string(resp.body)).(xmlcodec.Node)
	result := childNode(root, "ListPartsResult")
	if result == nil {
		return out, nil
	}

	out.UploadID = nodeString(result, "UploadId")
	out.IsTruncated = nodeBool(result, "IsTruncated")
	for _, v := range asList(result["Part"]) {
		p, ok := v.(xmlcodec.Node)
		if !ok {
			continue
		}
		out.Parts = append(out.Parts, CompletedPart{
			PartNumber: int(nodeInt64(p, "PartNumber")),
			ETag:       strings.Trim(nodeString(p, "ETag"), `"`),
		})
	}
	return out, nil
}
