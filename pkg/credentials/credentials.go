// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package credentials

import (
	"errors"

	"github.com/rs/zerolog"
)

var (
	ErrMissingAccessKey = errors.New("credentials: access key is required")
	ErrMissingSecretKey = errors.New("credentials: secret key is required")
	ErrMissingRegion    = errors.New("credentials: region is required")
)

// Credentials holds the signing identity for one connection to an
// S3-compatible endpoint. The tuple is read-only once constructed and safe
// to share across goroutines.
type Credentials struct {
	AccessKey string
	SecretKey string
	Region    string

	// Endpoint overrides the region-derived hostname when talking to a
	// non-AWS S3-compatible service (e.g. "https://minio.internal:9000").
	Endpoint string

	// ForcePathStyle addresses buckets as "host/bucket" instead of
	// "bucket.host". Required by most self-hosted services.
	ForcePathStyle bool
}

// Validate checks the preconditions for signing. A missing secret or region
// must fail here, before canonicalization ever runs.
func (c Credentials) Validate() error {
	if c.AccessKey == "" {
		return ErrMissingAccessKey
	}
	if c.SecretKey == "" {
		return ErrMissingSecretKey
	}
	if c.Region == "" {
		return ErrMissingRegion
	}
	return nil
}

// MarshalZerologObject logs the credential identity without the secret.
func (c Credentials) MarshalZerologObject(e *zerolog.Event) {
	e.Str("access_key", c.AccessKey).
		Str("region", c.Region).
		Bool("path_style", c.ForcePathStyle)
	if c.Endpoint != "" {
		e.Str("endpoint", c.Endpoint)
	}
}

// String implements fmt.Stringer with the secret redacted so the tuple can
// never leak through %v formatting.
func (c Credentials) String() string {
	return "Credentials{AccessKey:" + c.AccessKey + ", Region:" + c.Region + ", SecretKey:REDACTED}"
}
