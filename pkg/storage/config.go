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

import "errors"

// Provider configuration errors
var (
	// ErrMissingBucket indicates the bucket name is not configured
	ErrMissingBucket = errors.New("storage bucket name is required")

	// ErrMissingAccessKey indicates the access key ID is not configured
	ErrMissingAccessKey = errors.New("storage access key ID is required")

	// ErrMissingSecretKey indicates the secret access key is not configured
	ErrMissingSecretKey = errors.New("storage secret access key is required")
)

// Config holds the connection settings a provider adapter needs.
type Config struct {
	// Bucket is the bucket name
	Bucket string

	// Region is the provider region (e.g., "us-west-2")
	Region string

	// Endpoint is the endpoint URL (optional, for S3-compatible services
	// like MinIO)
	Endpoint string

	// AccessKeyID is the access key ID
	AccessKeyID string

	// SecretAccessKey is the secret access key
	SecretAccessKey string

	// UsePathStyle forces path-style URLs (required for MinIO)
	UsePathStyle bool
}

// Validate validates the provider configuration
func (c *Config) Validate() error {
	if c.Bucket == "" {
		return ErrMissingBucket
	}
	if c.AccessKeyID == "" {
		return ErrMissingAccessKey
	}
	if c.SecretAccessKey == "" {
		return ErrMissingSecretKey
	}
	return nil
}
