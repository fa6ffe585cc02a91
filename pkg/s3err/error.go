// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package s3err carries structured errors returned by S3-compatible and IAM
// endpoints. The shapes mirror the wire-level <Error> body so callers can
// decide retry-ability from Code and StatusCode alone.
package s3err

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Well-known error codes returned by S3 and IAM services.
// See: https://docs.aws.amazon.com/AmazonS3/latest/API/ErrorResponses.html#ErrorCodeList
const (
	CodeAccessDenied        = "AccessDenied"
	CodeNoSuchBucket        = "NoSuchBucket"
	CodeNoSuchKey           = "NoSuchKey"
	CodeNoSuchUpload        = "NoSuchUpload"
	CodeNoSuchEntity        = "NoSuchEntity"
	CodeBucketNotEmpty      = "BucketNotEmpty"
	CodeEntityAlreadyExists = "EntityAlreadyExists"
	CodePreconditionFailed  = "PreconditionFailed"
	CodeSignatureMismatch   = "SignatureDoesNotMatch"
	CodeInvalidAccessKeyID  = "InvalidAccessKeyId"
)

// APIError is the structured outcome of a non-2xx response. StatusCode is
// zero when the error was synthesized without an HTTP exchange.
type APIError struct {
	Code       string
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Code)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (http %d)", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// FromStatus builds a generic APIError when the response body carried no
// parseable <Error> element.
func FromStatus(statusCode int, body string) *APIError {
	msg := strings.TrimSpace(body)
	if msg == "" {
		msg = http.StatusText(statusCode)
	}
	return &APIError{
		Code:       fmt.Sprintf("HTTP%d", statusCode),
		Message:    msg,
		StatusCode: statusCode,
	}
}

// TransportError wraps a network-level failure (DNS, dial, timeout). It is
// distinguishable from an APIError by the absence of a status code.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ErrNotModified is the non-error outcome of a conditional read that hit the
// cache (HTTP 304).
var ErrNotModified = errors.New("not modified")

// IsNotFound reports whether err is an API error for a missing bucket, key,
// upload, or IAM entity.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Code {
	case CodeNoSuchBucket, CodeNoSuchKey, CodeNoSuchUpload, CodeNoSuchEntity:
		return true
	}
	return apiErr.StatusCode == http.StatusNotFound
}

// IsCode reports whether err is an APIError with the given code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}
