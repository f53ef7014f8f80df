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

// Operation identifies which storage call produced a result or an error.
// Every Error carries exactly one Operation so that callers and log
// pipelines can attribute a failure without parsing its message.
type Operation string

// The closed set of operations the facade performs against a provider.
const (
	OpHead              Operation = "head"
	OpGet               Operation = "get"
	OpPut               Operation = "put"
	OpDelete            Operation = "delete"
	OpList              Operation = "list"
	OpCreateMultipart   Operation = "createMultipartUpload"
	OpResumeMultipart   Operation = "resumeMultipartUpload"
	OpUploadPart        Operation = "uploadPart"
	OpCompleteMultipart Operation = "completeMultipartUpload"
	OpAbortMultipart    Operation = "abortMultipartUpload"
)
