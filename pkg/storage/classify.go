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
	"net/http"
	"strings"
	"time"
)

// Classify turns a raw provider failure into exactly one taxonomy
// *Error, attributed to the operation and key that were attempted.
// It is total and pure: every non-nil input produces a variant, with
// NetworkError as the final fallback, and no state is kept between
// calls.
//
// Signals are consulted in strict priority order, most specific first:
//
//  1. the provider's numeric error code, via a fixed table;
//  2. the HTTP status, for statuses with a single meaning;
//  3. message keywords, to split the ambiguous 400 class and as a
//     last resort when neither code nor status matched.
//
// A later rule never overrides an earlier match: status codes are
// coarser than error codes, and message text is the least stable
// signal of the three.
func Classify(raw error, op Operation, key string) *Error {
	if raw == nil {
		return nil
	}

	status, code := 0, 0
	msg := raw.Error()
	var retryAfter time.Duration
	var f *Fault
	if errors.As(raw, &f) {
		status, code = f.Status, f.Code
		retryAfter = f.RetryAfter
		if f.Message != "" {
			msg = f.Message
		}
	}

	if e := classifyCode(code, op, key, msg); e != nil {
		e.RetryAfter = retryAfter
		return e
	}

	switch status {
	case http.StatusTooManyRequests:
		return &Error{Kind: KindRateLimited, Op: op, Key: key, RetryAfter: retryAfter}
	case http.StatusPreconditionFailed:
		return &Error{Kind: KindPreconditionFailed, Op: op, Key: key, Condition: msg}
	case http.StatusRequestedRangeNotSatisfiable:
		return &Error{Kind: KindInvalidRange, Op: op, Key: key, Reason: msg}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &Error{Kind: KindAuthorizationFailed, Op: op, Key: key, Reason: msg}
	case http.StatusInternalServerError:
		return &Error{Kind: KindInternalError, Op: op, Key: key, Reason: msg}
	case http.StatusBadRequest:
		if e := classifyMessage(msg, op, key); e != nil {
			return e
		}
		// A 400 guarantees a client-side fault even when its cause is
		// unrecognized, so the generic argument kind beats the fallback.
		return &Error{Kind: KindInvalidArgument, Op: op, Key: key, Reason: msg}
	}

	if e := classifyMessage(msg, op, key); e != nil {
		return e
	}
	return &Error{Kind: KindNetworkError, Op: op, Key: key, Reason: msg, Cause: raw}
}

// classifyCode maps the provider's numeric error code onto the
// taxonomy. Returns nil when the code is absent or unknown.
func classifyCode(code int, op Operation, key, msg string) *Error {
	switch code {
	case CodeRateLimited:
		return &Error{Kind: KindRateLimited, Op: op, Key: key}
	case CodeEntityTooLarge:
		return &Error{Kind: KindObjectTooLarge, Op: op, Key: key, Reason: msg}
	case CodeEntityTooSmall:
		return &Error{Kind: KindObjectTooSmall, Op: op, Key: key, Reason: msg}
	case CodeMetadataTooLarge:
		return &Error{Kind: KindMetadataTooLarge, Op: op, Key: key, Reason: msg}
	case CodeInvalidObjectName:
		return &Error{Kind: KindInvalidKey, Op: op, Key: key, Reason: msg}
	case CodeInvalidMaxKeys:
		return &Error{Kind: KindInvalidMaxKeys, Op: op, Key: key, Reason: msg}
	case CodeNoSuchUpload, CodeInvalidPart, CodeBadUpload:
		return &Error{Kind: KindMultipartError, Op: op, Key: key, Reason: msg}
	case CodeInvalidArgument:
		return &Error{Kind: KindInvalidArgument, Op: op, Key: key, Reason: msg}
	case CodePreconditionFailed:
		return &Error{Kind: KindPreconditionFailed, Op: op, Key: key, Condition: msg}
	case CodeBadDigest:
		return &Error{Kind: KindBadDigest, Op: op, Key: key, Reason: msg}
	case CodeInvalidRange:
		return &Error{Kind: KindInvalidRange, Op: op, Key: key, Reason: msg}
	case CodeNoSuchBucket:
		return &Error{Kind: KindBucketNotFound, Op: op, Key: key, Reason: msg}
	case CodeNotEnabled:
		return &Error{Kind: KindNotEnabled, Op: op, Reason: msg}
	}
	return nil
}

// classifyMessage scans the failure text for domain keywords, in fixed
// priority order. Two keywords can co-occur in one message ("key" and
// "upload", say), so the order below is part of the contract: the
// first listed rule wins. Returns nil when nothing matches.
func classifyMessage(msg string, op Operation, key string) *Error {
	m := strings.ToLower(msg)
	switch {
	case strings.Contains(m, "key") && (strings.Contains(m, "empty") || strings.Contains(m, "invalid")):
		return &Error{Kind: KindInvalidKey, Op: op, Key: key, Reason: msg}
	case strings.Contains(m, "metadata"):
		return &Error{Kind: KindMetadataTooLarge, Op: op, Key: key, Reason: msg}
	case strings.Contains(m, "multipart"), strings.Contains(m, "part"),
		strings.Contains(m, "upload"), strings.Contains(m, "nosuchupload"),
		strings.Contains(m, "invalidpart"):
		return &Error{Kind: KindMultipartError, Op: op, Key: key, Reason: msg}
	case strings.Contains(m, "digest"), strings.Contains(m, "checksum"):
		return &Error{Kind: KindBadDigest, Op: op, Key: key, Reason: msg}
	case strings.Contains(m, "too large"), strings.Contains(m, "exceeds"):
		return &Error{Kind: KindObjectTooLarge, Op: op, Key: key, Reason: msg}
	case strings.Contains(m, "too small"):
		return &Error{Kind: KindObjectTooSmall, Op: op, Key: key, Reason: msg}
	case strings.Contains(m, "toomuchconcurrency"), strings.Contains(m, "concurrency"):
		return &Error{Kind: KindTooMuchConcurrency, Op: op, Key: key, Reason: msg}
	case strings.Contains(m, "nosuchbucket"):
		return &Error{Kind: KindBucketNotFound, Op: op, Key: key, Reason: msg}
	case strings.Contains(m, "please enable"), strings.Contains(m, "not entitled"):
		return &Error{Kind: KindNotEnabled, Op: op, Reason: msg}
	}
	return nil
}
