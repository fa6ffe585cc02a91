// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package s3client

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/LeeDigitalWorks/s3bridge/pkg/s3err"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMultipartUpload(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.RawQuery, "uploads")
		w.Write([]byte(`<InitiateMultipartUploadResult>
  <Bucket>b</Bucket><Key>big.bin</Key><UploadId>upload-123</UploadId>
</InitiateMultipartUploadResult>`))
	})

	id, err := c.CreateMultipartUpload(context.Background(), "b", "big.bin", "application/octet-stream")
	require.NoError(t, err)
	assert.Equal(t, "upload-123", id)
}

func TestCreateMultipartUploadMissingID(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<InitiateMultipartUploadResult></InitiateMultipartUploadResult>`))
	})

	_, err := c.CreateMultipartUpload(context.Background(), "b", "big.bin", "")
	assert.ErrorIs(t, err, errMissingUploadID)
}

func TestUploadPart(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "3", q.Get("partNumber"))
		assert.Equal(t, "upload-123", q.Get("uploadId"))
		w.Header().Set("ETag", `"part-etag"`)
	})

	etag, err := c.UploadPart(context.Background(), "b", "big.bin", "upload-123", 3, []byte("chunk"))
	require.NoError(t, err)
	assert.Equal(t, "part-etag", etag)
}

func TestCompleteMultipartUpload(t *testing.T) {
	var gotBody string
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Write([]byte(`<CompleteMultipartUploadResult><ETag>"final"</ETag></CompleteMultipartUploadResult>`))
	})

	err := c.CompleteMultipartUpload(context.Background(), "b", "big.bin", "upload-123", []CompletedPart{
		{PartNumber: 1, ETag: "etag-1"},
		{PartNumber: 2, ETag: "etag-2"},
	})
	require.NoError(t, err)

	// Parts serialize as repeated <Part> siblings in order.
	assert.Contains(t, gotBody,
		"<Part><ETag>etag-1</ETag><PartNumber>1</PartNumber></Part>"+
			"<Part><ETag>etag-2</ETag><PartNumber>2</PartNumber></Part>")
}

func TestCompleteMultipartUploadErrorInOKResponse(t *testing.T) {
	// S3 can fail a completion inside a 200 response; the body decides.
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<Error><Code>InternalError</Code><Message>please retry</Message></Error>`))
	})

	err := c.CompleteMultipartUpload(context.Background(), "b", "big.bin", "upload-123", nil)
	var apiErr *s3err.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "InternalError", apiErr.Code)
}

func TestListParts(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<ListPartsResult>
  <UploadId>upload-123</UploadId>
  <IsTruncated>false</IsTruncated>
  <Part><PartNumber>1</PartNumber><ETag>"e1"</ETag></Part>
  <Part><PartNumber>2</PartNumber><ETag>"e2"</ETag></Part>
</ListPartsResult>`))
	})

	out, err := c.ListParts(context.Background(), "b", "big.bin", "upload-123")
	require.NoError(t, err)
	assert.Equal(t, "upload-123", out.UploadID)
	require.Len(t, out.Parts, 2)
	assert.Equal(t, CompletedPart{PartNumber: 1, ETag: "e1"}, out.Parts[0])
	assert.Equal(t, CompletedPart{PartNumber: 2, ETag: "e2"}, out.Parts[1])
}

func TestAbortMultipartUpload(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "upload-123", r.URL.Query().Get("uploadId"))
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.AbortMultipartUpload(context.Background(), "b", "big.bin", "upload-123"))
}
