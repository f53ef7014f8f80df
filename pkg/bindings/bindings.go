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

// Package bindings resolves a manifest of named environment bindings
// into live handles. Bindings whose type the resolver recognizes as
// storage-shaped (bucket, kv, database) are wrapped in the matching
// typed adapter; everything else passes through unchanged as plain
// values.
package bindings

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Binding types the resolver recognizes.
const (
	TypeBucket   = "bucket"
	TypeKV       = "kv"
	TypeDatabase = "database"
	TypePlain    = "plain"
)

// Manifest is the top-level bindings document.
type Manifest struct {
	Bindings []Binding `yaml:"bindings" validate:"required,min=1,dive"`
}

// Binding is one named binding. Exactly one of the type-specific
// sections is set, matching Type.
type Binding struct {
	Name string `yaml:"name" validate:"required,binding_name"`
	Type string `yaml:"type" validate:"required,oneof=bucket kv database plain"`

	Bucket   *BucketConfig   `yaml:"bucket,omitempty"`
	KV       *KVConfig       `yaml:"kv,omitempty"`
	Database *DatabaseConfig `yaml:"database,omitempty"`

	// Value is the passthrough payload for plain bindings.
	Value string `yaml:"value,omitempty"`
}

// BucketConfig describes an object-storage binding.
type BucketConfig struct {
	Bucket          string `yaml:"bucket" validate:"required"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"accessKeyID"`
	SecretAccessKey string `yaml:"secretAccessKey"`
	UsePathStyle    bool   `yaml:"usePathStyle"`
}

// KVConfig describes a key-value binding.
type KVConfig struct {
	Addr     string `yaml:"addr" validate:"required"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" validate:"gte=0"`
}

// DatabaseConfig describes a SQL binding.
type DatabaseConfig struct {
	DSN string `yaml:"dsn" validate:"required"`
}

// Load reads, parses, applies environment overrides to, and validates
// a bindings manifest.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bindings manifest: %w", err)
	}
	return Parse(data)
}

// Parse parses and validates a bindings manifest.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid bindings YAML: %w", err)
	}
	ApplyEnv(&m)
	if err := NewValidator().ValidateManifest(&m); err != nil {
		return nil, err
	}
	return &m, nil
}
