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

package storage_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/org/strata/pkg/storage"
)

func startUpload(t *testing.T, b *storage.Bucket, key string) *storage.MultipartUpload {
	t.Helper()
	up, err := b.CreateMultipartUpload(context.Background(), key, nil)
	require.NoError(t, err)
	require.NotNil(t, up)
	return up
}

// TestMultipartLifecycle uploads parts out of order, completes, and
// reads the assembled object back
func TestMultipartLifecycle(t *testing.T) {
	ctx := context.Background()
	b := storage.New(newFakeProvider())
	up := startUpload(t, b, "videos/cat.mp4")
	assert.Equal(t, "videos/cat.mp4", up.Key())
	assert.NotEmpty(t, up.UploadID())

	p2, err := up.UploadPart(ctx, 2, strings.NewReader("world"))
	require.NoError(t, err)
	p1, err := up.UploadPart(ctx, 1, strings.NewReader("hello "))
	require.NoError(t, err)

	// Completion order need not match upload order
	info, err := up.Complete(ctx, []storage.UploadedPart{*p2, *p1})
	require.NoError(t, err)
	require.NotNil(t, info)

	obj, err := b.Get(ctx, "videos/cat.mp4", nil)
	require.NoError(t, err)
	require.NotNil(t, obj)
	defer obj.Body.Close()
	data, _ := io.ReadAll(obj.Body)
	assert.Equal(t, "hello world", string(data))
}

// TestMultipartCompleteMissingPart verifies completion with an
// incomplete part set is rejected rather than assembling a partial
// object
func TestMultipartCompleteMissingPart(t *testing.T) {
	ctx := context.Background()
	b := storage.New(newFakeProvider())
	up := startUpload(t, b, "k")

	p1, err := up.UploadPart(ctx, 1, strings.NewReader("aa"))
	require.NoError(t, err)
	_, err = up.UploadPart(ctx, 2, strings.NewReader("bb"))
	require.NoError(t, err)

	info, err := up.Complete(ctx, []storage.UploadedPart{*p1})
	assert.Nil(t, info)
	require.Error(t, err)
	assert.True(t, storage.IsKind(err, storage.KindMultipartError))
}

// TestMultipartCompleteDuplicatePart verifies a duplicate part number
// in the supplied set is rejected locally as MultipartError
func TestMultipartCompleteDuplicatePart(t *testing.T) {
	ctx := context.Background()
	b := storage.New(newFakeProvider())
	up := startUpload(t, b, "k")

	p1, err := up.UploadPart(ctx, 1, strings.NewReader("aa"))
	require.NoError(t, err)

	info, err := up.Complete(ctx, []storage.UploadedPart{*p1, *p1})
	assert.Nil(t, info)
	require.Error(t, err)

	e, ok := storage.AsError(err)
	require.True(t, ok)
	assert.Equal(t, storage.KindMultipartError, e.Kind)
	assert.Equal(t, 1, e.PartNumber)
	assert.Equal(t, up.UploadID(), e.UploadID)
}

// TestUploadPartNumberBounds verifies part numbers outside [1, 10000]
// are rejected without a provider round trip
func TestUploadPartNumberBounds(t *testing.T) {
	ctx := context.Background()
	b := storage.New(newFakeProvider())
	up := startUpload(t, b, "k")

	for _, n := range []int{0, -1, storage.MaxPartNumber + 1} {
		part, err := up.UploadPart(ctx, n, strings.NewReader("x"))
		assert.Nil(t, part)
		require.Error(t, err)
		e, ok := storage.AsError(err)
		require.True(t, ok)
		assert.Equal(t, storage.KindMultipartError, e.Kind)
		assert.Equal(t, n, e.PartNumber)
	}
}

// TestUploadPartTooSmall verifies the provider's size rejection is
// surfaced as ObjectTooSmall attributed to the session's key
func TestUploadPartTooSmall(t *testing.T) {
	ctx := context.Background()
	p := newFakeProvider()
	b := storage.New(p)
	up := startUpload(t, b, "big-file")

	p.failWith(storage.OpUploadPart, &storage.Fault{
		Status:  400,
		Code:    storage.CodeEntityTooSmall,
		Message: "EntityTooSmall: part is below the minimum size",
	})

	part, err := up.UploadPart(ctx, 1, strings.NewReader("tiny"))
	assert.Nil(t, part)
	e, ok := storage.AsError(err)
	require.True(t, ok)
	assert.Equal(t, storage.KindObjectTooSmall, e.Kind)
	assert.Equal(t, "big-file", e.Key)
}

// TestUseAfterAbort verifies the provider boundary rejects a session
// that was already terminated
func TestUseAfterAbort(t *testing.T) {
	ctx := context.Background()
	b := storage.New(newFakeProvider())
	up := startUpload(t, b, "k")

	require.NoError(t, up.Abort(ctx))

	_, err := up.UploadPart(ctx, 1, strings.NewReader("x"))
	require.Error(t, err)
	e, ok := storage.AsError(err)
	require.True(t, ok)
	assert.Equal(t, storage.KindMultipartError, e.Kind)
	assert.Equal(t, up.UploadID(), e.UploadID)
}

// TestUseAfterComplete verifies the same for completed sessions
func TestUseAfterComplete(t *testing.T) {
	ctx := context.Background()
	b := storage.New(newFakeProvider())
	up := startUpload(t, b, "k")

	p1, err := up.UploadPart(ctx, 1, strings.NewReader("x"))
	require.NoError(t, err)
	_, err = up.Complete(ctx, []storage.UploadedPart{*p1})
	require.NoError(t, err)

	_, err = up.Complete(ctx, []storage.UploadedPart{*p1})
	assert.True(t, storage.IsKind(err, storage.KindMultipartError))
}

// TestResumeMultipartUpload verifies reattachment and its failure modes
func TestResumeMultipartUpload(t *testing.T) {
	ctx := context.Background()
	b := storage.New(newFakeProvider())
	up := startUpload(t, b, "k")

	resumed, err := b.ResumeMultipartUpload(ctx, "k", up.UploadID())
	require.NoError(t, err)
	require.NotNil(t, resumed)
	assert.Equal(t, up.UploadID(), resumed.UploadID())

	// The resumed handle is live: parts uploaded through it count
	p1, err := resumed.UploadPart(ctx, 1, strings.NewReader("x"))
	require.NoError(t, err)
	_, err = up.Complete(ctx, []storage.UploadedPart{*p1})
	require.NoError(t, err)

	// Wrong key for the upload id
	other := startUpload(t, b, "other")
	_, err = b.ResumeMultipartUpload(ctx, "not-other", other.UploadID())
	require.Error(t, err)
	e, ok := storage.AsError(err)
	require.True(t, ok)
	assert.Equal(t, storage.KindMultipartError, e.Kind)
	assert.Equal(t, storage.OpResumeMultipart, e.Op)

	// Unknown upload id
	_, err = b.ResumeMultipartUpload(ctx, "k", "no-such-id")
	assert.True(t, storage.IsKind(err, storage.KindMultipartError))
}

// TestCreateMultipartFailure verifies session creation failures classify
func TestCreateMultipartFailure(t *testing.T) {
	p := newFakeProvider()
	p.failWith(storage.OpCreateMultipart, &storage.Fault{Status: 403, Message: "Access Denied"})
	b := storage.New(p)

	up, err := b.CreateMultipartUpload(context.Background(), "k", nil)
	assert.Nil(t, up)
	e, ok := storage.AsError(err)
	require.True(t, ok)
	assert.Equal(t, storage.KindAuthorizationFailed, e.Kind)
	assert.Equal(t, storage.OpCreateMultipart, e.Op)
}
