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

package bindings

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// bindingNamePattern matches identifier-style binding names, the
	// same shape an environment variable name has
	bindingNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Validator wraps go-playground/validator with the manifest's custom
// rules.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with custom rules registered.
func NewValidator() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("binding_name", validateBindingName)
	return &Validator{validate: v}
}

// ValidateManifest validates a manifest and returns detailed errors.
func (v *Validator) ValidateManifest(m *Manifest) error {
	if err := v.validate.Struct(m); err != nil {
		return v.formatValidationErrors(err)
	}

	// Cross-field checks the struct tags cannot express
	seen := make(map[string]bool, len(m.Bindings))
	for i, b := range m.Bindings {
		if seen[b.Name] {
			return fmt.Errorf("bindings[%d]: duplicate binding name %q", i, b.Name)
		}
		seen[b.Name] = true

		if err := v.validateSection(&b); err != nil {
			return fmt.Errorf("bindings[%d] (%s): %w", i, b.Name, err)
		}
	}
	return nil
}

// validateSection checks that the section matching the binding type is
// present and the others are not.
func (v *Validator) validateSection(b *Binding) error {
	switch b.Type {
	case TypeBucket:
		if b.Bucket == nil {
			return fmt.Errorf("bucket binding requires a bucket section")
		}
		if err := v.validate.Struct(b.Bucket); err != nil {
			return v.formatValidationErrors(err)
		}
	case TypeKV:
		if b.KV == nil {
			return fmt.Errorf("kv binding requires a kv section")
		}
		if err := v.validate.Struct(b.KV); err != nil {
			return v.formatValidationErrors(err)
		}
	case TypeDatabase:
		if b.Database == nil {
			return fmt.Errorf("database binding requires a database section")
		}
		if err := v.validate.Struct(b.Database); err != nil {
			return v.formatValidationErrors(err)
		}
	case TypePlain:
		if b.Bucket != nil || b.KV != nil || b.Database != nil {
			return fmt.Errorf("plain binding must not carry an adapter section")
		}
	}
	return nil
}

// formatValidationErrors turns validator errors into readable messages
func (v *Validator) formatValidationErrors(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	var messages []string
	for _, fieldError := range validationErrors {
		switch fieldError.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", fieldError.Field()))
		case "binding_name":
			messages = append(messages, fmt.Sprintf("%s must be an identifier (letters, digits, underscores, not starting with a digit)", fieldError.Field()))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of: %s", fieldError.Field(), fieldError.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s failed %s validation", fieldError.Field(), fieldError.Tag()))
		}
	}
	return fmt.Errorf("invalid bindings manifest: %s", strings.Join(messages, "; "))
}

func validateBindingName(fl validator.FieldLevel) bool {
	return bindingNamePattern.MatchString(fl.Field().String())
}
