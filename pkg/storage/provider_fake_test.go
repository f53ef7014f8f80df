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
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/org/strata/pkg/storage"
)

// fakeProvider is an in-memory storage.Provider for facade tests. It
// honors the sentinel conventions of the real adapters (nil, nil for
// not-found and precondition misses) and enforces multipart
// completeness the way the remote service does.
type fakeProvider struct {
	objects map[string]fakeObject
	uploads map[string]*fakeUpload
	nextID  int

	// errs injects a failure for an operation; the facade must classify
	// it, never pass it through.
	errs map[storage.Operation]error
}

type fakeObject struct {
	data        []byte
	etag        string
	contentType string
	metadata    map[string]string
}

type fakeUpload struct {
	key   string
	parts map[int][]byte
	etags map[int]string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		objects: make(map[string]fakeObject),
		uploads: make(map[string]*fakeUpload),
		errs:    make(map[storage.Operation]error),
	}
}

func (f *fakeProvider) failWith(op storage.Operation, err error) {
	f.errs[op] = err
}

func etagFor(data []byte) string {
	return fmt.Sprintf("etag-%d", len(data))
}

func (f *fakeProvider) Head(_ context.Context, key string) (*storage.ObjectInfo, error) {
	if err := f.errs[storage.OpHead]; err != nil {
		return nil, err
	}
	obj, ok := f.objects[key]
	if !ok {
		return nil, nil
	}
	return &storage.ObjectInfo{Key: key, ETag: obj.etag, Size: int64(len(obj.data)), ContentType: obj.contentType, Metadata: obj.metadata}, nil
}

func (f *fakeProvider) Get(_ context.Context, key string, opts *storage.GetOptions) (*storage.Object, error) {
	if err := f.errs[storage.OpGet]; err != nil {
		return nil, err
	}
	obj, ok := f.objects[key]
	if !ok {
		return nil, nil
	}
	if opts != nil && opts.OnlyIf != nil && !conditionHolds(opts.OnlyIf, obj.etag, true) {
		return nil, nil
	}
	return &storage.Object{
		ObjectInfo: storage.ObjectInfo{Key: key, ETag: obj.etag, Size: int64(len(obj.data)), ContentType: obj.contentType},
		Body:       io.NopCloser(bytes.NewReader(obj.data)),
	}, nil
}

func (f *fakeProvider) Put(_ context.Context, key string, body io.Reader, opts *storage.PutOptions) (*storage.ObjectInfo, error) {
	if err := f.errs[storage.OpPut]; err != nil {
		return nil, err
	}
	if opts != nil && opts.OnlyIf != nil {
		current, exists := f.objects[key]
		if !conditionHolds(opts.OnlyIf, current.etag, exists) {
			return nil, nil
		}
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	obj := fakeObject{data: data, etag: etagFor(data)}
	if opts != nil {
		obj.contentType = opts.ContentType
		obj.metadata = opts.Metadata
	}
	f.objects[key] = obj
	return &storage.ObjectInfo{Key: key, ETag: obj.etag, Size: int64(len(data))}, nil
}

func conditionHolds(cond *storage.Conditions, etag string, exists bool) bool {
	if cond.ETagMatches != "" && (!exists || etag != cond.ETagMatches) {
		return false
	}
	if cond.ETagDoesNotMatch == "*" && exists {
		return false
	}
	if cond.ETagDoesNotMatch != "" && cond.ETagDoesNotMatch != "*" && exists && etag == cond.ETagDoesNotMatch {
		return false
	}
	return true
}

func (f *fakeProvider) Delete(_ context.Context, keys []string) error {
	if err := f.errs[storage.OpDelete]; err != nil {
		return err
	}
	for _, k := range keys {
		delete(f.objects, k)
	}
	return nil
}

func (f *fakeProvider) List(_ context.Context, opts *storage.ListOptions) (*storage.ObjectList, error) {
	if err := f.errs[storage.OpList]; err != nil {
		return nil, err
	}
	var keys []string
	for k := range f.objects {
		if opts == nil || strings.HasPrefix(k, opts.Prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	page := &storage.ObjectList{}
	for _, k := range keys {
		obj := f.objects[k]
		page.Objects = append(page.Objects, storage.ObjectInfo{Key: k, ETag: obj.etag, Size: int64(len(obj.data))})
	}
	return page, nil
}

func (f *fakeProvider) CreateMultipartUpload(_ context.Context, key string, _ *storage.PutOptions) (string, error) {
	if err := f.errs[storage.OpCreateMultipart]; err != nil {
		return "", err
	}
	f.nextID++
	id := fmt.Sprintf("upload-%d", f.nextID)
	f.uploads[id] = &fakeUpload{key: key, parts: make(map[int][]byte), etags: make(map[int]string)}
	return id, nil
}

func (f *fakeProvider) ResumeMultipartUpload(_ context.Context, key, uploadID string) error {
	if err := f.errs[storage.OpResumeMultipart]; err != nil {
		return err
	}
	up, ok := f.uploads[uploadID]
	if !ok || up.key != key {
		return noSuchUpload(uploadID)
	}
	return nil
}

func (f *fakeProvider) UploadPart(_ context.Context, key, uploadID string, partNumber int, body io.Reader) (*storage.UploadedPart, error) {
	if err := f.errs[storage.OpUploadPart]; err != nil {
		return nil, err
	}
	up, ok := f.uploads[uploadID]
	if !ok || up.key != key {
		return nil, noSuchUpload(uploadID)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	up.parts[partNumber] = data
	etag := etagFor(data)
	up.etags[partNumber] = etag
	return &storage.UploadedPart{PartNumber: partNumber, ETag: etag}, nil
}

func (f *fakeProvider) CompleteMultipartUpload(_ context.Context, key, uploadID string, parts []storage.UploadedPart) (*storage.ObjectInfo, error) {
	if err := f.errs[storage.OpCompleteMultipart]; err != nil {
		return nil, err
	}
	up, ok := f.uploads[uploadID]
	if !ok || up.key != key {
		return nil, noSuchUpload(uploadID)
	}
	if len(parts) != len(up.parts) {
		return nil, &storage.Fault{
			Status:  http.StatusBadRequest,
			Code:    storage.CodeInvalidPart,
			Message: "InvalidPart: part list does not match uploaded parts",
		}
	}
	supplied := make([]storage.UploadedPart, len(parts))
	copy(supplied, parts)
	sort.Slice(supplied, func(i, j int) bool { return supplied[i].PartNumber < supplied[j].PartNumber })

	var data []byte
	for _, p := range supplied {
		content, ok := up.parts[p.PartNumber]
		if !ok || up.etags[p.PartNumber] != p.ETag {
			return nil, &storage.Fault{
				Status:  http.StatusBadRequest,
				Code:    storage.CodeInvalidPart,
				Message: fmt.Sprintf("InvalidPart: part %d was not uploaded", p.PartNumber),
			}
		}
		data = append(data, content...)
	}
	delete(f.uploads, uploadID)
	obj := fakeObject{data: data, etag: etagFor(data)}
	f.objects[key] = obj
	return &storage.ObjectInfo{Key: key, ETag: obj.etag, Size: int64(len(data))}, nil
}

func (f *fakeProvider) AbortMultipartUpload(_ context.Context, key, uploadID string) error {
	if err := f.errs[storage.OpAbortMultipart]; err != nil {
		return err
	}
	up, ok := f.uploads[uploadID]
	if !ok || up.key != key {
		return noSuchUpload(uploadID)
	}
	delete(f.uploads, uploadID)
	return nil
}

func noSuchUpload(uploadID string) error {
	return &storage.Fault{
		Status:  http.StatusNotFound,
		Code:    storage.CodeNoSuchUpload,
		Message: "NoSuchUpload: the specified upload does not exist: " + uploadID,
	}
}
