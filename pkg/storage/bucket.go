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

// Package storage is a typed facade over a remote object-storage
// provider. It classifies the provider's raw failures into a closed
// error taxonomy and keeps three result states distinct on every call:
// a value, an absent value (not-found, or a precondition that did not
// hold), and a classified error. The facade holds no state, never
// retries, and never queues; backoff on RateLimited and
// TooMuchConcurrency is the caller's decision.
package storage

import (
	"context"
	"io"

	"github.com/go-logr/logr"

	"github.com/org/strata/pkg/metrics"
)

// Bucket is the facade over one provider bucket. All methods are safe
// for concurrent use: the only state is the provider handle and the
// logger.
type Bucket struct {
	provider Provider
	log      logr.Logger
}

// Option configures a Bucket.
type Option func(*Bucket)

// WithLogger sets the logger classified failures are reported to.
func WithLogger(log logr.Logger) Option {
	return func(b *Bucket) {
		b.log = log
	}
}

// New wraps a raw provider in the typed facade.
func New(p Provider, opts ...Option) *Bucket {
	b := &Bucket{
		provider: p,
		log:      logr.Discard(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Head returns the object's metadata, or (nil, nil) when the key does
// not exist.
func (b *Bucket) Head(ctx context.Context, key string) (*ObjectInfo, error) {
	info, err := b.provider.Head(ctx, key)
	if err != nil {
		return nil, b.fail(OpHead, key, err)
	}
	b.observe(OpHead, info != nil)
	return info, nil
}

// Get returns the object, or (nil, nil) when the key does not exist or
// an attached precondition did not hold. The caller must close the
// returned Body.
func (b *Bucket) Get(ctx context.Context, key string, opts *GetOptions) (*Object, error) {
	obj, err := b.provider.Get(ctx, key, opts)
	if err != nil {
		return nil, b.fail(OpGet, key, err)
	}
	b.observe(OpGet, obj != nil)
	return obj, nil
}

// Put stores the object and returns its metadata, or (nil, nil) when
// an attached precondition did not hold.
func (b *Bucket) Put(ctx context.Context, key string, body io.Reader, opts *PutOptions) (*ObjectInfo, error) {
	info, err := b.provider.Put(ctx, key, body, opts)
	if err != nil {
		return nil, b.fail(OpPut, key, err)
	}
	b.observe(OpPut, info != nil)
	return info, nil
}

// Delete removes one or more keys. The provider reports a single
// failure for the whole batch, so on error only the first key is
// attached to it.
func (b *Bucket) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := b.provider.Delete(ctx, keys); err != nil {
		return b.fail(OpDelete, keys[0], err)
	}
	b.observe(OpDelete, true)
	return nil
}

// List returns one page of keys.
func (b *Bucket) List(ctx context.Context, opts *ListOptions) (*ObjectList, error) {
	page, err := b.provider.List(ctx, opts)
	if err != nil {
		return nil, b.fail(OpList, "", err)
	}
	b.observe(OpList, true)
	return page, nil
}

// CreateMultipartUpload starts a multipart upload for key and returns
// the session handle.
func (b *Bucket) CreateMultipartUpload(ctx context.Context, key string, opts *PutOptions) (*MultipartUpload, error) {
	uploadID, err := b.provider.CreateMultipartUpload(ctx, key, opts)
	if err != nil {
		return nil, b.fail(OpCreateMultipart, key, err)
	}
	b.observe(OpCreateMultipart, true)
	return &MultipartUpload{bucket: b, key: key, uploadID: uploadID}, nil
}

// ResumeMultipartUpload reattaches to an in-progress upload. The
// returned session has the same semantics as a created one; resuming
// an upload id that belongs to a different key is a caller error the
// provider surfaces as MultipartError here or on first use.
func (b *Bucket) ResumeMultipartUpload(ctx context.Context, key, uploadID string) (*MultipartUpload, error) {
	if err := b.provider.ResumeMultipartUpload(ctx, key, uploadID); err != nil {
		return nil, b.fail(OpResumeMultipart, key, err)
	}
	b.observe(OpResumeMultipart, true)
	return &MultipartUpload{bucket: b, key: key, uploadID: uploadID}, nil
}

// fail classifies a raw provider failure, records it, and returns it.
func (b *Bucket) fail(op Operation, key string, raw error) error {
	e := Classify(raw, op, key)
	metrics.StorageOperationsTotal.WithLabelValues(string(op), "error").Inc()
	metrics.StorageErrorsTotal.WithLabelValues(string(op), string(e.Kind)).Inc()
	b.log.V(1).Info("storage operation failed",
		"operation", op, "key", key, "kind", e.Kind)
	return e
}

// observe records a completed call. present is false for the two
// domain-expected absent outcomes.
func (b *Bucket) observe(op Operation, present bool) {
	outcome := "ok"
	if !present {
		outcome = "absent"
	}
	metrics.StorageOperationsTotal.WithLabelValues(string(op), outcome).Inc()
}
