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

// Package s3 implements the storage.Provider boundary over AWS S3 and
// S3-compatible services. It is a thin adapter: its only jobs are to
// issue the SDK calls, translate SDK failures into *storage.Fault so
// the cascade can classify them, and report not-found and
// precondition-miss outcomes as the (nil, nil) sentinel.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/org/strata/pkg/storage"
)

// Client implements storage.Provider using the AWS SDK.
type Client struct {
	s3Client *s3.S3
	bucket   string
}

// NewClient creates a new S3 provider adapter
func NewClient(config *storage.Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	awsConfig := &aws.Config{
		Region:      aws.String(config.Region),
		Credentials: credentials.NewStaticCredentials(config.AccessKeyID, config.SecretAccessKey, ""),
	}

	// For S3-compatible services like MinIO
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(config.UsePathStyle)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &Client{
		s3Client: s3.New(sess),
		bucket:   config.Bucket,
	}, nil
}

// Head returns the object's metadata, or (nil, nil) when the key does
// not exist.
func (c *Client) Head(ctx context.Context, key string) (*storage.ObjectInfo, error) {
	out, err := c.s3Client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if statusOf(err) == http.StatusNotFound {
			return nil, nil
		}
		return nil, asFault(err)
	}
	info := &storage.ObjectInfo{
		Key:         key,
		ETag:        unquote(aws.StringValue(out.ETag)),
		Size:        aws.Int64Value(out.ContentLength),
		ContentType: aws.StringValue(out.ContentType),
		Metadata:    metadataOf(out.Metadata),
	}
	if out.LastModified != nil {
		info.LastModified = *out.LastModified
	}
	return info, nil
}

// Get returns the object, or (nil, nil) when the key does not exist or
// a precondition did not hold (404, 412 and 304 all mean "no value
// produced" at this boundary).
func (c *Client) Get(ctx context.Context, key string, opts *storage.GetOptions) (*storage.Object, error) {
	in := &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}
	if opts != nil && opts.OnlyIf != nil {
		if opts.OnlyIf.ETagMatches != "" {
			in.IfMatch = aws.String(opts.OnlyIf.ETagMatches)
		}
		if opts.OnlyIf.ETagDoesNotMatch != "" {
			in.IfNoneMatch = aws.String(opts.OnlyIf.ETagDoesNotMatch)
		}
	}
	if opts != nil && opts.Range != nil {
		in.Range = aws.String(rangeHeader(opts.Range))
	}

	out, err := c.s3Client.GetObjectWithContext(ctx, in)
	if err != nil {
		switch statusOf(err) {
		case http.StatusNotFound, http.StatusPreconditionFailed, http.StatusNotModified:
			return nil, nil
		}
		return nil, asFault(err)
	}
	obj := &storage.Object{
		ObjectInfo: storage.ObjectInfo{
			Key:         key,
			ETag:        unquote(aws.StringValue(out.ETag)),
			Size:        aws.Int64Value(out.ContentLength),
			ContentType: aws.StringValue(out.ContentType),
			Metadata:    metadataOf(out.Metadata),
		},
		Body: out.Body,
	}
	if out.LastModified != nil {
		obj.LastModified = *out.LastModified
	}
	return obj, nil
}

// Put stores the object, or returns (nil, nil) when a precondition did
// not hold. S3 has no native conditional PutObject, so preconditions
// are checked with a HeadObject first; the window between the two
// calls is the provider's to close, not ours.
func (c *Client) Put(ctx context.Context, key string, body io.Reader, opts *storage.PutOptions) (*storage.ObjectInfo, error) {
	if opts != nil && opts.OnlyIf != nil {
		held, err := c.checkPutCondition(ctx, key, opts.OnlyIf)
		if err != nil {
			return nil, err
		}
		if !held {
			return nil, nil
		}
	}

	in := &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   aws.ReadSeekCloser(body),
	}
	if opts != nil {
		if opts.ContentType != "" {
			in.ContentType = aws.String(opts.ContentType)
		}
		if len(opts.Metadata) > 0 {
			in.Metadata = make(map[string]*string, len(opts.Metadata))
			for k, v := range opts.Metadata {
				in.Metadata[k] = aws.String(v)
			}
		}
	}

	out, err := c.s3Client.PutObjectWithContext(ctx, in)
	if err != nil {
		return nil, asFault(err)
	}
	return &storage.ObjectInfo{
		Key:  key,
		ETag: unquote(aws.StringValue(out.ETag)),
	}, nil
}

func (c *Client) checkPutCondition(ctx context.Context, key string, cond *storage.Conditions) (bool, error) {
	current, err := c.Head(ctx, key)
	if err != nil {
		return false, err
	}
	if cond.ETagMatches != "" {
		if current == nil || current.ETag != unquote(cond.ETagMatches) {
			return false, nil
		}
	}
	if cond.ETagDoesNotMatch != "" {
		if cond.ETagDoesNotMatch == "*" {
			return current == nil, nil
		}
		if current != nil && current.ETag == unquote(cond.ETagDoesNotMatch) {
			return false, nil
		}
	}
	return true, nil
}

// Delete removes the given keys, batching through DeleteObjects when
// there is more than one.
func (c *Client) Delete(ctx context.Context, keys []string) error {
	if len(keys) == 1 {
		_, err := c.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(c.bucket),
			Key:    aws.String(keys[0]),
		})
		if err != nil {
			return asFault(err)
		}
		return nil
	}

	objects := make([]*s3.ObjectIdentifier, 0, len(keys))
	for _, k := range keys {
		objects = append(objects, &s3.ObjectIdentifier{Key: aws.String(k)})
	}
	_, err := c.s3Client.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(c.bucket),
		Delete: &s3.Delete{Objects: objects, Quiet: aws.Bool(true)},
	})
	if err != nil {
		return asFault(err)
	}
	return nil
}

// List returns one page of keys.
func (c *Client) List(ctx context.Context, opts *storage.ListOptions) (*storage.ObjectList, error) {
	in := &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
	}
	if opts != nil {
		if opts.Prefix != "" {
			in.Prefix = aws.String(opts.Prefix)
		}
		if opts.Delimiter != "" {
			in.Delimiter = aws.String(opts.Delimiter)
		}
		if opts.Cursor != "" {
			in.ContinuationToken = aws.String(opts.Cursor)
		}
		if opts.Limit > 0 {
			in.MaxKeys = aws.Int64(int64(opts.Limit))
		}
	}

	out, err := c.s3Client.ListObjectsV2WithContext(ctx, in)
	if err != nil {
		return nil, asFault(err)
	}

	page := &storage.ObjectList{
		Truncated: aws.BoolValue(out.IsTruncated),
		Cursor:    aws.StringValue(out.NextContinuationToken),
	}
	for _, obj := range out.Contents {
		info := storage.ObjectInfo{
			Key:  aws.StringValue(obj.Key),
			ETag: unquote(aws.StringValue(obj.ETag)),
			Size: aws.Int64Value(obj.Size),
		}
		if obj.LastModified != nil {
			info.LastModified = *obj.LastModified
		}
		page.Objects = append(page.Objects, info)
	}
	for _, p := range out.CommonPrefixes {
		page.DelimitedPrefixes = append(page.DelimitedPrefixes, aws.StringValue(p.Prefix))
	}
	return page, nil
}

// CreateMultipartUpload starts a multipart upload and returns the
// provider-issued upload id.
func (c *Client) CreateMultipartUpload(ctx context.Context, key string, opts *storage.PutOptions) (string, error) {
	in := &s3.CreateMultipartUploadInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}
	if opts != nil {
		if opts.ContentType != "" {
			in.ContentType = aws.String(opts.ContentType)
		}
		if len(opts.Metadata) > 0 {
			in.Metadata = make(map[string]*string, len(opts.Metadata))
			for k, v := range opts.Metadata {
				in.Metadata[k] = aws.String(v)
			}
		}
	}
	out, err := c.s3Client.CreateMultipartUploadWithContext(ctx, in)
	if err != nil {
		return "", asFault(err)
	}
	return aws.StringValue(out.UploadId), nil
}

// ResumeMultipartUpload verifies the upload id is live for key by
// listing its parts. A stale or mismatched id comes back as
// NoSuchUpload.
func (c *Client) ResumeMultipartUpload(ctx context.Context, key, uploadID string) error {
	_, err := c.s3Client.ListPartsWithContext(ctx, &s3.ListPartsInput{
		Bucket:   aws.String(c.bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
		MaxParts: aws.Int64(1),
	})
	if err != nil {
		return asFault(err)
	}
	return nil
}

// UploadPart transmits one part.
func (c *Client) UploadPart(ctx context.Context, key, uploadID string, partNumber int, body io.Reader) (*storage.UploadedPart, error) {
	out, err := c.s3Client.UploadPartWithContext(ctx, &s3.UploadPartInput{
		Bucket:     aws.String(c.bucket),
		Key:        aws.String(key),
		UploadId:   aws.String(uploadID),
		PartNumber: aws.Int64(int64(partNumber)),
		Body:       aws.ReadSeekCloser(body),
	})
	if err != nil {
		return nil, asFault(err)
	}
	return &storage.UploadedPart{
		PartNumber: partNumber,
		ETag:       unquote(aws.StringValue(out.ETag)),
	}, nil
}

// CompleteMultipartUpload assembles the final object. S3 requires the
// part list in ascending part-number order, so the adapter sorts a
// copy before sending.
func (c *Client) CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []storage.UploadedPart) (*storage.ObjectInfo, error) {
	ordered := make([]storage.UploadedPart, len(parts))
	copy(ordered, parts)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].PartNumber < ordered[j].PartNumber
	})

	completed := make([]*s3.CompletedPart, 0, len(ordered))
	for _, p := range ordered {
		completed = append(completed, &s3.CompletedPart{
			PartNumber: aws.Int64(int64(p.PartNumber)),
			ETag:       aws.String(p.ETag),
		})
	}

	out, err := c.s3Client.CompleteMultipartUploadWithContext(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:          aws.String(c.bucket),
		Key:             aws.String(key),
		UploadId:        aws.String(uploadID),
		MultipartUpload: &s3.CompletedMultipartUpload{Parts: completed},
	})
	if err != nil {
		return nil, asFault(err)
	}
	return &storage.ObjectInfo{
		Key:  key,
		ETag: unquote(aws.StringValue(out.ETag)),
	}, nil
}

// AbortMultipartUpload discards the uploaded parts.
func (c *Client) AbortMultipartUpload(ctx context.Context, key, uploadID string) error {
	_, err := c.s3Client.AbortMultipartUploadWithContext(ctx, &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(c.bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
	})
	if err != nil {
		return asFault(err)
	}
	return nil
}

// providerCodes maps the SDK's string error codes onto the numeric
// provider codes the cascade keys on. Codes not listed here fall back
// to status and message classification.
var providerCodes = map[string]int{
	"InvalidArgument":    storage.CodeInvalidArgument,
	"NoSuchBucket":       storage.CodeNoSuchBucket,
	"EntityTooLarge":     storage.CodeEntityTooLarge,
	"EntityTooSmall":     storage.CodeEntityTooSmall,
	"MetadataTooLarge":   storage.CodeMetadataTooLarge,
	"KeyTooLongError":    storage.CodeInvalidObjectName,
	"InvalidObjectName":  storage.CodeInvalidObjectName,
	"InvalidMaxKeys":     storage.CodeInvalidMaxKeys,
	"NoSuchUpload":       storage.CodeNoSuchUpload,
	"InvalidPart":        storage.CodeInvalidPart,
	"InvalidPartOrder":   storage.CodeInvalidPart,
	"PreconditionFailed": storage.CodePreconditionFailed,
	"BadDigest":          storage.CodeBadDigest,
	"InvalidDigest":      storage.CodeBadDigest,
	"InvalidRange":       storage.CodeInvalidRange,
	"NotSignedUp":        storage.CodeNotEnabled,
	"SlowDown":           storage.CodeRateLimited,
}

// asFault converts an SDK error into a *storage.Fault carrying the
// status, numeric code and message the cascade consumes. Errors with
// no request failure shape (connectivity, context cancellation) pass
// through with only the message set.
func asFault(err error) error {
	var rf awserr.RequestFailure
	if errors.As(err, &rf) {
		return &storage.Fault{
			Status:  rf.StatusCode(),
			Code:    providerCodes[rf.Code()],
			Message: rf.Message(),
			Err:     err,
		}
	}
	var ae awserr.Error
	if errors.As(err, &ae) {
		return &storage.Fault{
			Code:    providerCodes[ae.Code()],
			Message: ae.Message(),
			Err:     err,
		}
	}
	return &storage.Fault{Message: err.Error(), Err: err}
}

// statusOf extracts the HTTP status of an SDK failure, 0 when absent.
func statusOf(err error) int {
	var rf awserr.RequestFailure
	if errors.As(err, &rf) {
		return rf.StatusCode()
	}
	return 0
}

func rangeHeader(r *storage.ByteRange) string {
	if r.Length > 0 {
		return fmt.Sprintf("bytes=%d-%d", r.Offset, r.Offset+r.Length-1)
	}
	return fmt.Sprintf("bytes=%d-", r.Offset)
}

func unquote(etag string) string {
	return strings.Trim(etag, `"`)
}

func metadataOf(m map[string]*string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = aws.StringValue(v)
	}
	return out
}
