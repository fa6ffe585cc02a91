// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package s3client

import (
	"net/http"
	"time"

	"github.com/LeeDigitalWorks/s3bridge/pkg/signature"
)

// PresignGetObject returns a time-limited URL for downloading bucket/key
// without credentials. expires must be between 1 second and 7 days.
func (c *Client) PresignGetObject(bucket, key string, expires time.Duration) (string, error) {
	return c.presign(http.MethodGet, bucket, key, expires)
}

// PresignPutObject returns a time-limited URL for uploading to bucket/key.
func (c *Client) PresignPutObject(bucket, key string, expires time.Duration) (string, error) {
	return c.presign(http.MethodPut, bucket, key, expires)
}

func (c *Client) presign(method, bucket, key string, expires time.Duration) (string, error) {
	u, err := c.endpointURL(bucket, key)
	if err != nil {
		return "", err
	}
	return signature.PresignURL(method, u, c.creds, expires)
}
