// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package signature

import (
	"crypto/hmac"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/LeeDigitalWorks/s3bridge/pkg/credentials"
	"github.com/LeeDigitalWorks/s3bridge/pkg/utils"

	"github.com/minio/sha256-simd"
)

// AWS Signature Version 4 implementation following:
// https://docs.aws.amazon.com/general/latest/gr/signature-version-4.html
//
// This is the signing side: it produces the Authorization material a server
// like our verifier counterpart checks. Everything here is stateless; the
// signing key is recomputed per call because caching it risks staleness
// across UTC date boundaries.

// DeriveSigningKey derives the signing key using the HMAC-SHA256 chain:
//
//	kDate    = HMAC("AWS4" + SecretKey, Date)
//	kRegion  = HMAC(kDate, Region)
//	kService = HMAC(kRegion, Service)
//	kSigning = HMAC(kService, "aws4_request")
func DeriveSigningKey(secretKey, dateStamp, region, service string) []byte {
	kDate := hmacSHA256([]byte("AWS4"+secretKey), []byte(dateStamp))
	kRegion := hmacSHA256(kDate, []byte(region))
	kService := hmacSHA256(kRegion, []byte(service))
	kSigning := hmacSHA256(kService, []byte(terminator))

	return kSigning
}

// CredentialScope returns the {date}/{region}/{service}/aws4_request string
// binding a signing key to its validity context.
func CredentialScope(dateStamp, region, service string) string {
	return strings.Join([]string{dateStamp, region, service, terminator}, "/")
}

// BuildStringToSign creates the string to sign per AWS spec:
//
//	Algorithm + "\n" +
//	RequestDateTime + "\n" +
//	CredentialScope + "\n" +
//	HashedCanonicalRequest
func BuildStringToSign(timestamp, credentialScope, canonicalRequest string) string {
	h := utils.Sha256PoolGetHasher()
	h.Write([]byte(canonicalRequest))
	hashedRequest := hex.EncodeToString(h.Sum(nil))
	utils.Sha256PoolPutHasher(h)

	return strings.Join([]string{
		AuthHeaderV4,
		timestamp,
		credentialScope,
		hashedRequest,
	}, "\n")
}

// CalculateSignature computes the final hex signature.
func CalculateSignature(signingKey []byte, stringToSign string) string {
	signature := hmacSHA256(signingKey, []byte(stringToSign))
	return hex.EncodeToString(signature)
}

// HashPayload returns the lower-case hex SHA-256 of body, or the well-known
// empty-payload hash when body is empty.
func HashPayload(body []byte) string {
	if len(body) == 0 {
		return HashedEmptyPayload
	}
	return utils.Sha256Hex(body)
}

// SignRequest signs req in header mode for the given service ("s3" or
// "iam"). It sets x-amz-date, x-amz-content-sha256, and Authorization on the
// request. payloadHash is the hex SHA-256 of the body, HashedEmptyPayload
// for bodiless requests, or UnsignedPayload.
//
// The timestamp is taken fresh at call time, so signing the same logical
// request twice yields two different, equally valid signatures.
func SignRequest(req *http.Request, payloadHash string, creds credentials.Credentials, service string) error {
	return signRequestAt(req, payloadHash, creds, service, time.Now().UTC())
}

func signRequestAt(req *http.Request, payloadHash string, creds credentials.Credentials, service string, now time.Time) error {
	if err := creds.Validate(); err != nil {
		return err
	}

	if payloadHash == "" {
		payloadHash = HashedEmptyPayload
	}

	dateStamp := now.Format(Iso8601DateFormat)
	amzDate := now.Format(Iso8601BasicFormat)

	host := req.Host
	if host == "" {
		host = req.URL.Host
	}

	req.Header.Set("X-Amz-Date", amzDate)
	req.Header.Set("X-Amz-Content-Sha256", payloadHash)

	// Sign host plus every header already set on the request. The caller
	// controls the header set; anything present when SignRequest runs is
	// covered by the signature.
	headers := map[string]string{"host": host}
	for name := range req.Header {
		headers[name] = req.Header.Get(name)
	}

	canonicalHeaders, signedHeaders := CanonicalHeaders(headers)

	canonicalURI := req.URL.RawPath
	if canonicalURI == "" {
		canonicalURI = EncodeCanonicalURI(req.URL.Path)
	}

	canonicalReq := BuildCanonicalRequest(
		req.Method,
		canonicalURI,
		CanonicalQueryString(req.URL.Query()),
		canonicalHeaders,
		signedHeaders,
		payloadHash,
	)

	scope := CredentialScope(dateStamp, creds.Region, service)
	stringToSign := BuildStringToSign(amzDate, scope, canonicalReq)
	signingKey := DeriveSigningKey(creds.SecretKey, dateStamp, creds.Region, service)
	sig := CalculateSignature(signingKey, stringToSign)

	req.Header.Set("Authorization", fmt.Sprintf("%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		AuthHeaderV4, creds.AccessKey, scope, signedHeaders, sig))

	return nil
}

// hmacSHA256 computes HMAC-SHA256
func hmacSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}
