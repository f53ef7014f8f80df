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
	"fmt"
	"time"
)

// Fault is the raw failure shape provider adapters report to the
// classification cascade. All fields are optional: a bare connectivity
// failure has neither status nor code, only a message or wrapped error.
type Fault struct {
	// Status is the HTTP status of the failed call, 0 when unknown.
	Status int

	// Code is the provider's numeric error code, 0 when absent. Codes
	// are more specific than statuses and are consulted first.
	Code int

	// Message is the provider's failure text.
	Message string

	// RetryAfter is the provider's backoff hint, when one was given.
	RetryAfter time.Duration

	// Err is the underlying transport or SDK error, when one exists.
	Err error
}

func (f *Fault) Error() string {
	switch {
	case f.Code != 0:
		return fmt.Sprintf("provider fault (code %d, status %d): %s", f.Code, f.Status, f.Message)
	case f.Status != 0:
		return fmt.Sprintf("provider fault (status %d): %s", f.Status, f.Message)
	default:
		return "provider fault: " + f.Message
	}
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// Provider error codes. The numeric code is the most specific failure
// signal the provider emits and maps 1:1 onto the taxonomy; see the
// table in classify.go.
const (
	CodeInvalidArgument    = 10001
	CodeNoSuchBucket       = 10006
	CodeEntityTooLarge     = 10011
	CodeEntityTooSmall     = 10012
	CodeMetadataTooLarge   = 10013
	CodeInvalidObjectName  = 10020
	CodeInvalidMaxKeys     = 10021
	CodeNoSuchUpload       = 10024
	CodeInvalidPart        = 10025
	CodePreconditionFailed = 10031
	CodeBadDigest          = 10037
	CodeInvalidRange       = 10039
	CodeNotEnabled         = 10042
	CodeBadUpload          = 10048
	CodeRateLimited        = 10058
)
