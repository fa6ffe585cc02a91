// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package signature

const (
	AuthHeaderV4 = "AWS4-HMAC-SHA256"

	Iso8601BasicFormat = "20060102T150405Z"
	Iso8601DateFormat  = "20060102"

	UnsignedPayload = "UNSIGNED-PAYLOAD"

	// Precomputed SHA256 hash of an empty payload
	HashedEmptyPayload = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

	// Service names used in the credential scope
	ServiceS3  = "s3"
	ServiceIAM = "iam"

	terminator = "aws4_request"
)

// Presigned URL expiry bounds in seconds, per the S3 API.
const (
	MinPresignExpires = 1
	MaxPresignExpires = 604800 // 7 days
)
