/*
Copyright 2025 Strata Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind is the discriminator of the closed error taxonomy. Every failure
// the facade reports carries exactly one Kind; callers switch on it
// instead of probing provider-specific error shapes.
type Kind string

// The closed set of error kinds.
const (
	// KindRateLimited: write frequency to a single key exceeded the
	// provider's admission ceiling. Retryable by the caller.
	KindRateLimited Kind = "RateLimited"

	// KindTooMuchConcurrency: the bucket or key is locked under
	// concurrent load. Retryable by the caller.
	KindTooMuchConcurrency Kind = "TooMuchConcurrency"

	// KindObjectTooLarge: the payload exceeds the provider's size ceiling.
	KindObjectTooLarge Kind = "ObjectTooLarge"

	// KindObjectTooSmall: a multipart part is under the minimum part size.
	KindObjectTooSmall Kind = "ObjectTooSmall"

	// KindInvalidKey: the object key is empty, too long, or malformed.
	KindInvalidKey Kind = "InvalidKey"

	// KindInvalidRange: the requested byte range is unsatisfiable.
	KindInvalidRange Kind = "InvalidRange"

	// KindMetadataTooLarge: combined custom metadata exceeds the ceiling.
	KindMetadataTooLarge Kind = "MetadataTooLarge"

	// KindPreconditionFailed: a conditional check did not hold. Not used
	// for get/put, which report precondition misses as an absent result.
	KindPreconditionFailed Kind = "PreconditionFailed"

	// KindMultipartError: invalid part number or order, unknown upload
	// id, or assembly failure.
	KindMultipartError Kind = "MultipartError"

	// KindBucketNotFound: the target bucket does not exist.
	KindBucketNotFound Kind = "BucketNotFound"

	// KindNotEnabled: the storage feature is not provisioned for the account.
	KindNotEnabled Kind = "NotEnabled"

	// KindAuthorizationFailed: credentials or permissions were rejected.
	KindAuthorizationFailed Kind = "AuthorizationFailed"

	// KindBadDigest: a client-supplied checksum did not match the content.
	KindBadDigest Kind = "BadDigest"

	// KindInvalidMaxKeys: the listing page-size parameter is out of bounds.
	KindInvalidMaxKeys Kind = "InvalidMaxKeys"

	// KindInvalidArgument: generic malformed-argument catch-all for
	// 400-class failures no more specific kind explains.
	KindInvalidArgument Kind = "InvalidArgument"

	// KindInternalError: a provider-side fault.
	KindInternalError Kind = "InternalError"

	// KindNetworkError: connectivity failure, timeout, or any failure the
	// taxonomy does not model. Carries the raw failure as its cause.
	KindNetworkError Kind = "NetworkError"
)

// Error is the single error type the facade returns. It is a tagged
// record: Kind selects the variant, Op and Key attribute it, and the
// remaining fields are populated only where the variant defines them.
type Error struct {
	Kind Kind
	Op   Operation

	// Key is the object key the operation targeted, when one applies.
	// For a failed multi-key delete only the first key is recorded.
	Key string

	// Reason is the human-readable detail taken from the provider
	// failure, where the variant carries one.
	Reason string

	// RetryAfter is a backoff hint for RateLimited, zero when the
	// provider gave none.
	RetryAfter time.Duration

	// SizeBytes is the offending payload size for ObjectTooLarge,
	// ObjectTooSmall and MetadataTooLarge, zero when unknown.
	SizeBytes int64

	// Limit is the ceiling that was exceeded (ObjectTooLarge) or the
	// rejected page size (InvalidMaxKeys), zero when unknown.
	Limit int64

	// PartNumber identifies the offending part for ObjectTooSmall and
	// MultipartError, zero when it does not apply.
	PartNumber int

	// UploadID identifies the multipart session for MultipartError.
	UploadID string

	// Condition describes the failed check for PreconditionFailed.
	Condition string

	// Bucket names the missing container for BucketNotFound.
	Bucket string

	// Algorithm names the checksum algorithm for BadDigest.
	Algorithm string

	// Cause retains the raw provider failure for NetworkError. Its shape
	// is provider-defined; it is for diagnostics, never for branching.
	Cause error
}

// Error renders a deterministic message from the variant's fields.
// The message embeds operation, key and detail; it is meant for logs
// and is never parsed back.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Op))
	if e.Key != "" || e.Kind == KindInvalidKey {
		fmt.Fprintf(&b, " %q", e.Key)
	}
	b.WriteString(": ")
	b.WriteString(e.detail())
	return b.String()
}

// Unwrap exposes the raw failure retained by NetworkError.
func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) detail() string {
	switch e.Kind {
	case KindRateLimited:
		if e.RetryAfter > 0 {
			return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
		}
		return "rate limited"
	case KindTooMuchConcurrency:
		return "too much concurrency: " + e.Reason
	case KindObjectTooLarge:
		if e.SizeBytes > 0 && e.Limit > 0 {
			return fmt.Sprintf("object too large (%d bytes, limit %d)", e.SizeBytes, e.Limit)
		}
		return "object too large: " + e.Reason
	case KindObjectTooSmall:
		if e.PartNumber > 0 {
			return fmt.Sprintf("part %d too small: %s", e.PartNumber, e.Reason)
		}
		return "object too small: " + e.Reason
	case KindInvalidKey:
		return "invalid key: " + e.Reason
	case KindInvalidRange:
		return "invalid range: " + e.Reason
	case KindMetadataTooLarge:
		return "metadata too large: " + e.Reason
	case KindPreconditionFailed:
		return "precondition failed: " + e.Condition
	case KindMultipartError:
		s := "multipart error: " + e.Reason
		if e.UploadID != "" {
			s += fmt.Sprintf(" (upload %s)", e.UploadID)
		}
		if e.PartNumber > 0 {
			s += fmt.Sprintf(" (part %d)", e.PartNumber)
		}
		return s
	case KindBucketNotFound:
		if e.Bucket != "" {
			return fmt.Sprintf("bucket %q not found", e.Bucket)
		}
		return "bucket not found"
	case KindNotEnabled:
		return "storage is not enabled for this account"
	case KindAuthorizationFailed:
		return "authorization failed: " + e.Reason
	case KindBadDigest:
		if e.Algorithm != "" {
			return fmt.Sprintf("%s digest mismatch: %s", e.Algorithm, e.Reason)
		}
		return "digest mismatch: " + e.Reason
	case KindInvalidMaxKeys:
		if e.Limit != 0 {
			return fmt.Sprintf("invalid max-keys %d", e.Limit)
		}
		return "invalid max-keys"
	case KindInvalidArgument:
		return "invalid argument: " + e.Reason
	case KindInternalError:
		return "provider internal error: " + e.Reason
	default:
		return "network error: " + e.Reason
	}
}

// IsKind reports whether err is a facade *Error of the given kind.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// AsError unwraps err into a facade *Error, if it is one.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
