// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package s3client is a zero-SDK client for S3-compatible object storage.
// It builds request descriptors, signs them with SigV4, and classifies the
// outcome; network I/O goes through an injectable *http.Client. The client
// never retries: every failure carries enough structure (code, message,
// status) for the caller to decide retry-ability.
package s3client

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/LeeDigitalWorks/s3bridge/pkg/credentials"
	"github.com/LeeDigitalWorks/s3bridge/pkg/logger"
	"github.com/LeeDigitalWorks/s3bridge/pkg/s3err"
	"github.com/LeeDigitalWorks/s3bridge/pkg/signature"
	"github.com/LeeDigitalWorks/s3bridge/pkg/xmlcodec"

	"github.com/google/uuid"
)

// Client talks to one S3-compatible endpoint with one credential tuple.
// All methods are safe for concurrent use; signing derives everything fresh
// per call.
type Client struct {
	creds      credentials.Credentials
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New validates the credentials and returns a client. Validation failures
// here are the precondition errors that must never reach the signer.
func New(creds credentials.Credentials, opts ...Option) (*Client, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		creds: creds,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// request describes one S3 call before signing.
type request struct {
	op      string
	method  string
	bucket  string
	key     string
	query   url.Values
	headers map[string]string
	body    []byte
}

// response is the classified outcome of a request.
type response struct {
	statusCode int
	header     http.Header
	body       []byte
}

// endpointURL resolves the region-derived (or overridden) endpoint plus the
// bucket/key path. Virtual-host addressing moves the bucket into the host
// unless path style is forced; a custom endpoint implies path style since
// self-hosted services rarely resolve bucket subdomains.
func (c *Client) endpointURL(bucket, key string) (*url.URL, error) {
	base := c.creds.Endpoint
	if base == "" {
		base = "https://s3." + c.creds.Region + ".amazonaws.com"
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}

	pathStyle := c.creds.ForcePathStyle || c.creds.Endpoint != ""

	var p strings.Builder
	if bucket != "" {
		if pathStyle {
			p.WriteString("/")
			p.WriteString(bucket)
		} else {
			u.Host = bucket + "." + u.Host
		}
	}
	if key != "" {
		p.WriteString("/")
		p.WriteString(key)
	}
	if p.Len() == 0 {
		p.WriteString("/")
	}

	u.Path = p.String()
	// RawPath carries the canonical encoding (slashes preserved, everything
	// else percent-encoded) so the signer and the wire agree byte for byte.
	u.RawPath = signature.EncodeCanonicalURI(u.Path)
	return u, nil
}

// do signs and executes one request, classifying the result. A 304 comes
// back as s3err.ErrNotModified; any status >= 400 becomes an APIError;
// network failures become TransportErrors with no status code.
func (c *Client) do(ctx context.Context, r *request) (*response, error) {
	u, err := c.endpointURL(r.bucket, r.key)
	if err != nil {
		return nil, err
	}
	if len(r.query) > 0 {
		u.RawQuery = signature.CanonicalQueryString(r.query)
	}

	var bodyReader io.Reader
	if len(r.body) > 0 {
		bodyReader = bytes.NewReader(r.body)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), bodyReader)
	if err != nil {
		return nil, err
	}
	for name, val := range r.headers {
		req.Header.Set(name, val)
	}

	if err := signature.SignRequest(req, signature.HashPayload(r.body), c.creds, signature.ServiceS3); err != nil {
		return nil, err
	}

	callID := uuid.NewString()
	start := time.Now()

	logger.Ctx(ctx).Debug().
		Str("call_id", callID).
		Str("op", r.op).
		Str("bucket", r.bucket).
		Str("key", r.key).
		Str("method", r.method).
		Msg("s3 request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observeRequest(r.op, "transport_error", time.Since(start))
		return nil, &s3err.TransportError{Op: r.op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		observeRequest(r.op, "transport_error", time.Since(start))
		return nil, &s3err.TransportError{Op: r.op, Err: err}
	}

	observeRequest(r.op, statusLabel(resp.StatusCode), time.Since(start))

	if resp.StatusCode == http.StatusNotModified {
		return nil, s3err.ErrNotModified
	}
	if resp.StatusCode >= 400 {
		apiErr := decodeAPIError(resp.StatusCode, body)
		logger.Ctx(ctx).Debug().
			Str("call_id", callID).
			Str("op", r.op).
			Str("code", apiErr.Code).
			Int("status", apiErr.StatusCode).
			Msg("s3 request failed")
		return nil, apiErr
	}

	return &response{
		statusCode: resp.StatusCode,
		header:     resp.Header,
		body:       body,
	}, nil
}

// decodeAPIError extracts the structured <Error> element from an error
// body, falling back to a status-derived error when the body has none.
func decodeAPIError(statusCode int, body []byte) *s3err.APIError {
	parsed := xmlcodec.Decode(string(body))
	if node, ok := parsed.(xmlcodec.Node); ok {
		if errNode, ok := node["Error"].(xmlcodec.Node); ok {
			return &s3err.APIError{
				Code:       nodeString(errNode, "Code"),
				Message:    nodeString(errNode, "Message"),
				StatusCode: statusCode,
			}
		}
	}
	return s3err.FromStatus(statusCode, string(body))
}

func statusLabel(statusCode int) string {
	switch {
	case statusCode < 300:
		return "ok"
	case statusCode < 400:
		return "redirect"
	case statusCode < 500:
		return "client_error"
	default:
		return "server_error"
	}
}
