// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package iamclient speaks the form-POST identity and policy API. Every
// call is a POST of Action/Version parameters to the service root, signed
// with service name "iam"; responses come back as XML.
package iamclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/LeeDigitalWorks/s3bridge/pkg/credentials"
	"github.com/LeeDigitalWorks/s3bridge/pkg/logger"
	"github.com/LeeDigitalWorks/s3bridge/pkg/s3err"
	"github.com/LeeDigitalWorks/s3bridge/pkg/signature"
	"github.com/LeeDigitalWorks/s3bridge/pkg/xmlcodec"
)

// APIVersion is the IAM API version sent with every request.
const APIVersion = "2010-05-08"

// Client talks to one IAM-compatible endpoint.
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

// New validates the credentials and returns a client.
func New(creds credentials.Credentials, opts ...Option) (*Client, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		creds: creds,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) endpoint() string {
	if c.creds.Endpoint != "" {
		return c.creds.Endpoint
	}
	// IAM is a global service; the signing scope still uses the region.
	return "https://iam.amazonaws.com"
}

// do executes one Action against the service root and returns the decoded
// response document.
func (c *Client) do(ctx context.Context, action string, params map[string]string) (xmlcodec.Node, error) {
	form := url.Values{}
	form.Set("Action", action)
	form.Set("Version", APIVersion)
	for name, val := range params {
		form.Set(name, val)
	}
	body := []byte(form.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint()+"/", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if err := signature.SignRequest(req, signature.HashPayload(body), c.creds, signature.ServiceIAM); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observeRequest(action, "transport_error", time.Since(start))
		return nil, &s3err.TransportError{Op: action, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		observeRequest(action, "transport_error", time.Since(start))
		return nil, &s3err.TransportError{Op: action, Err: err}
	}

	observeRequest(action, statusLabel(resp.StatusCode), time.Since(start))

	if resp.StatusCode >= 400 {
		apiErr := decodeAPIError(resp.StatusCode, respBody)
		logger.Ctx(ctx).Debug().
			Str("action", action).
			Str("code", apiErr.Code).
			Int("status", apiErr.StatusCode).
			Msg("iam request failed")
		return nil, apiErr
	}

	root, _ := xmlcodec.Decode(string(respBody)).(xmlcodec.Node)
	if root == nil {
		root = xmlcodec.Node{}
	}
	return root, nil
}

// decodeAPIError handles the IAM error envelope, which wraps <Error> inside
// <ErrorResponse>.
func decodeAPIError(statusCode int, body []byte) *s3err.APIError {
	parsed := xmlcodec.Decode(string(body))
	if node, ok := parsed.(xmlcodec.Node); ok {
		errNode, _ := node["Error"].(xmlcodec.Node)
		if errNode == nil {
			if wrapper, ok := node["ErrorResponse"].(xmlcodec.Node); ok {
				errNode, _ = wrapper["Error"].(xmlcodec.Node)
			}
		}
		if errNode != nil {
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
	case statusCode < 500:
		return "client_error"
	default:
		return "server_error"
	}
}

func nodeString(n xmlcodec.Node, key string) string {
	s, _ := n[key].(string)
	return s
}

func childNode(n xmlcodec.Node, key string) xmlcodec.Node {
	child, _ := n[key].(xmlcodec.Node)
	return child
}

// asList normalizes known-repeatable decoded fields (IAM lists use repeated
// <member> elements).
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
