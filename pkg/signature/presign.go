// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package signature

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/LeeDigitalWorks/s3bridge/pkg/credentials"
)

// PresignURL signs a URL in query mode, producing a time-limited link an
// unauthenticated client can use for one operation. The X-Amz-* parameters
// are added to the query before canonicalization so the signature covers
// them; only the signature itself is appended afterwards.
//
// The signed-headers set is fixed to "host": the eventual browser or client
// request sends no other signable headers. The payload hash is the
// UNSIGNED-PAYLOAD sentinel for the same reason.
func PresignURL(method string, u *url.URL, creds credentials.Credentials, expires time.Duration) (string, error) {
	return presignURLAt(method, u, creds, expires, time.Now().UTC())
}

func presignURLAt(method string, u *url.URL, creds credentials.Credentials, expires time.Duration, now time.Time) (string, error) {
	if err := creds.Validate(); err != nil {
		return "", err
	}

	expiresSec := int64(expires / time.Second)
	if expiresSec < MinPresignExpires || expiresSec > MaxPresignExpires {
		return "", fmt.Errorf("presign expiry %d seconds out of range [%d, %d]",
			expiresSec, MinPresignExpires, MaxPresignExpires)
	}

	dateStamp := now.Format(Iso8601DateFormat)
	amzDate := now.Format(Iso8601BasicFormat)
	scope := CredentialScope(dateStamp, creds.Region, ServiceS3)

	query := u.Query()
	query.Set("X-Amz-Algorithm", AuthHeaderV4)
	query.Set("X-Amz-Credential", creds.AccessKey+"/"+scope)
	query.Set("X-Amz-Date", amzDate)
	query.Set("X-Amz-Expires", strconv.FormatInt(expiresSec, 10))
	query.Set("X-Amz-SignedHeaders", "host")

	canonicalQuery := CanonicalQueryString(query)
	canonicalHeaders, signedHeaders := CanonicalHeaders(map[string]string{"host": u.Host})

	canonicalURI := u.RawPath
	if canonicalURI == "" {
		canonicalURI = EncodeCanonicalURI(u.Path)
	}

	canonicalReq := BuildCanonicalRequest(
		method,
		canonicalURI,
		canonicalQuery,
		canonicalHeaders,
		signedHeaders,
		UnsignedPayload,
	)

	stringToSign := BuildStringToSign(amzDate, scope, canonicalReq)
	signingKey := DeriveSigningKey(creds.SecretKey, dateStamp, creds.Region, ServiceS3)
	sig := CalculateSignature(signingKey, stringToSign)

	return u.Scheme + "://" + u.Host + canonicalURI + "?" + canonicalQuery + "&X-Amz-Signature=" + sig, nil
}
