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
	"context"
	"fmt"
	"io"

	"github.com/org/strata/pkg/metrics"
)

const (
	// MinPartSize is the provider's minimum size for every part except
	// the last one. The facade cannot know which part is last, so it
	// does not pre-validate sizes; an undersized part comes back from
	// the provider as ObjectTooSmall.
	MinPartSize = 5 * 1024 * 1024

	// MaxPartNumber is the highest part number the provider accepts.
	MaxPartNumber = 10000
)

// MultipartUpload is a handle on one in-progress multipart upload. Its
// only state is the immutable key and provider-issued upload id; which
// parts have been uploaded is tracked server-side. The session ends
// with Complete or Abort, and any use after either is rejected by the
// provider as MultipartError.
type MultipartUpload struct {
	bucket   *Bucket
	key      string
	uploadID string
}

// Key returns the object key the upload is bound to.
func (u *MultipartUpload) Key() string {
	return u.key
}

// UploadID returns the provider-issued upload identifier.
func (u *MultipartUpload) UploadID() string {
	return u.uploadID
}

// UploadPart transmits one part and returns its confirmation record.
// partNumber must be in [1, MaxPartNumber]; parts may be uploaded in
// any order and re-uploading a part number replaces it.
func (u *MultipartUpload) UploadPart(ctx context.Context, partNumber int, body io.Reader) (*UploadedPart, error) {
	if partNumber < 1 || partNumber > MaxPartNumber {
		return nil, u.reject(OpUploadPart, &Error{
			Kind:       KindMultipartError,
			Op:         OpUploadPart,
			Key:        u.key,
			Reason:     fmt.Sprintf("part number %d out of range [1, %d]", partNumber, MaxPartNumber),
			UploadID:   u.uploadID,
			PartNumber: partNumber,
		})
	}
	part, err := u.bucket.provider.UploadPart(ctx, u.key, u.uploadID, partNumber, body)
	if err != nil {
		return nil, u.fail(OpUploadPart, err)
	}
	u.bucket.observe(OpUploadPart, true)
	metrics.MultipartPartsTotal.Inc()
	return part, nil
}

// Complete assembles the final object from the supplied confirmation
// records. Order need not match upload order, but every uploaded part
// must appear exactly once; a duplicate part number is rejected here
// and a missing one by the provider, both as MultipartError.
func (u *MultipartUpload) Complete(ctx context.Context, parts []UploadedPart) (*ObjectInfo, error) {
	seen := make(map[int]bool, len(parts))
	for _, p := range parts {
		if seen[p.PartNumber] {
			return nil, u.reject(OpCompleteMultipart, &Error{
				Kind:       KindMultipartError,
				Op:         OpCompleteMultipart,
				Key:        u.key,
				Reason:     fmt.Sprintf("duplicate part number %d", p.PartNumber),
				UploadID:   u.uploadID,
				PartNumber: p.PartNumber,
			})
		}
		seen[p.PartNumber] = true
	}
	info, err := u.bucket.provider.CompleteMultipartUpload(ctx, u.key, u.uploadID, parts)
	if err != nil {
		return nil, u.fail(OpCompleteMultipart, err)
	}
	u.bucket.observe(OpCompleteMultipart, true)
	return info, nil
}

// Abort discards all uploaded parts. Whether a second abort succeeds
// is provider-dependent; the facade surfaces whatever it reports.
func (u *MultipartUpload) Abort(ctx context.Context) error {
	if err := u.bucket.provider.AbortMultipartUpload(ctx, u.key, u.uploadID); err != nil {
		return u.fail(OpAbortMultipart, err)
	}
	u.bucket.observe(OpAbortMultipart, true)
	return nil
}

func (u *MultipartUpload) fail(op Operation, raw error) error {
	e := Classify(raw, op, u.key)
	if e.UploadID == "" && e.Kind == KindMultipartError {
		e.UploadID = u.uploadID
	}
	metrics.StorageOperationsTotal.WithLabelValues(string(op), "error").Inc()
	metrics.StorageErrorsTotal.WithLabelValues(string(op), string(e.Kind)).Inc()
	u.bucket.log.V(1).Info("multipart operation failed",
		"operation", op, "key", u.key, "uploadID", u.uploadID, "kind", e.Kind)
	return e
}

// reject records a locally detected error without a provider round trip.
func (u *MultipartUpload) reject(op Operation, e *Error) error {
	metrics.StorageOperationsTotal.WithLabelValues(string(op), "error").Inc()
	metrics.StorageErrorsTotal.WithLabelValues(string(op), string(e.Kind)).Inc()
	return e
}
