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
	"io"
	"time"
)

// ObjectInfo describes a stored object without its content.
type ObjectInfo struct {
	Key          string
	ETag         string
	Size         int64
	LastModified time.Time
	ContentType  string
	Metadata     map[string]string
}

// Object is a stored object together with its content. The caller owns
// Body and must close it.
type Object struct {
	ObjectInfo
	Body io.ReadCloser
}

// ObjectList is one page of a listing.
type ObjectList struct {
	Objects []ObjectInfo

	// DelimitedPrefixes holds the common prefixes rolled up under the
	// listing delimiter, when one was set.
	DelimitedPrefixes []string

	// Truncated reports whether more results exist; Cursor resumes the
	// listing when it does.
	Truncated bool
	Cursor    string
}

// Conditions is a precondition attached to a get or put. A failed
// condition is a domain-expected outcome, reported as an absent result
// rather than an error.
type Conditions struct {
	// ETagMatches requires the stored object's etag to equal this value.
	ETagMatches string

	// ETagDoesNotMatch requires the stored object's etag to differ from
	// this value ("*" means the object must not exist).
	ETagDoesNotMatch string
}

// GetOptions refines a get.
type GetOptions struct {
	OnlyIf *Conditions
	Range  *ByteRange
}

// ByteRange selects part of an object's content. Length 0 means to the
// end of the object.
type ByteRange struct {
	Offset int64
	Length int64
}

// PutOptions refines a put or createMultipartUpload.
type PutOptions struct {
	ContentType string
	Metadata    map[string]string
	OnlyIf      *Conditions
}

// ListOptions refines a list.
type ListOptions struct {
	Prefix    string
	Delimiter string
	Cursor    string

	// Limit is the page size; 0 means the provider default.
	Limit int
}

// UploadedPart is the confirmation record for one uploaded multipart
// part. The full set of records is what complete() assembles from.
type UploadedPart struct {
	PartNumber int
	ETag       string
}

// Provider is the raw object-storage client the facade wraps. It is
// the inbound boundary of the system: implementations translate their
// SDK's failures into *Fault (or any error), and report the
// domain-expected "no value" outcomes (not-found on head/get,
// precondition miss on get/put) as a nil result with a nil error.
// The facade never lets a Provider error reach callers unclassified.
type Provider interface {
	// Head returns the object's metadata, or (nil, nil) when the key
	// does not exist.
	Head(ctx context.Context, key string) (*ObjectInfo, error)

	// Get returns the object, or (nil, nil) when the key does not exist
	// or a precondition did not hold.
	Get(ctx context.Context, key string, opts *GetOptions) (*Object, error)

	// Put stores the object, or returns (nil, nil) when a precondition
	// did not hold.
	Put(ctx context.Context, key string, body io.Reader, opts *PutOptions) (*ObjectInfo, error)

	// Delete removes the given keys. The provider reports a single
	// failure for the whole batch.
	Delete(ctx context.Context, keys []string) error

	// List returns one page of keys.
	List(ctx context.Context, opts *ListOptions) (*ObjectList, error)

	// CreateMultipartUpload starts a multipart upload and returns the
	// provider-issued upload id.
	CreateMultipartUpload(ctx context.Context, key string, opts *PutOptions) (string, error)

	// ResumeMultipartUpload verifies that uploadID is a live upload for
	// key. Providers without a verification call may accept blindly, in
	// which case a stale or mismatched id surfaces on first use.
	ResumeMultipartUpload(ctx context.Context, key, uploadID string) error

	// UploadPart transmits one part of a multipart upload.
	UploadPart(ctx context.Context, key, uploadID string, partNumber int, body io.Reader) (*UploadedPart, error)

	// CompleteMultipartUpload assembles the uploaded parts into the
	// final object.
	CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []UploadedPart) (*ObjectInfo, error)

	// AbortMultipartUpload discards the uploaded parts.
	AbortMultipartUpload(ctx context.Context, key, uploadID string) error
}
