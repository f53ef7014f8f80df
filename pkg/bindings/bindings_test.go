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

package bindings_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/org/strata/pkg/bindings"
	"github.com/org/strata/pkg/kv"
	"github.com/org/strata/pkg/storage"
)

const validManifest = `
bindings:
  - name: ASSETS
    type: bucket
    bucket:
      bucket: my-assets
      region: us-east-1
  - name: CACHE
    type: kv
    kv:
      addr: localhost:6379
  - name: FLAG
    type: plain
    value: "on"
`

// TestParseValidManifest verifies parsing and validation of a complete
// manifest
func TestParseValidManifest(t *testing.T) {
	m, err := bindings.Parse([]byte(validManifest))
	require.NoError(t, err)
	require.Len(t, m.Bindings, 3)
	assert.Equal(t, "ASSETS", m.Bindings[0].Name)
	assert.Equal(t, bindings.TypeBucket, m.Bindings[0].Type)
	require.NotNil(t, m.Bindings[0].Bucket)
	assert.Equal(t, "my-assets", m.Bindings[0].Bucket.Bucket)
}

// TestParseRejectsBadManifests verifies validation failures
func TestParseRejectsBadManifests(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"empty document", `bindings: []`},
		{"missing name", "bindings:\n  - type: plain\n    value: x"},
		{"bad name", "bindings:\n  - name: 9lives\n    type: plain\n    value: x"},
		{"unknown type", "bindings:\n  - name: A\n    type: queue"},
		{"bucket without section", "bindings:\n  - name: A\n    type: bucket"},
		{"bucket without bucket name", "bindings:\n  - name: A\n    type: bucket\n    bucket:\n      region: us-east-1"},
		{"kv without addr", "bindings:\n  - name: A\n    type: kv\n    kv:\n      db: 1"},
		{"database without dsn", "bindings:\n  - name: A\n    type: database\n    database: {}"},
		{"duplicate names", "bindings:\n  - name: A\n    type: plain\n    value: x\n  - name: A\n    type: plain\n    value: y"},
		{"plain with adapter section", "bindings:\n  - name: A\n    type: plain\n    kv:\n      addr: localhost:6379"},
		{"not yaml", `{{{`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := bindings.Parse([]byte(tc.yaml))
			assert.Error(t, err)
		})
	}
}

// TestApplyEnvOverrides verifies STRATA_* variables override manifest
// values
func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("STRATA_S3_ENDPOINT", "http://minio:9000")
	t.Setenv("STRATA_S3_ACCESS_KEY_ID", "ak")
	t.Setenv("STRATA_S3_SECRET_ACCESS_KEY", "sk")
	t.Setenv("STRATA_S3_PATH_STYLE", "true")
	t.Setenv("STRATA_REDIS_ADDR", "redis:6379")
	t.Setenv("STRATA_DATABASE_DSN", "user:pass@tcp(db:3306)/app")

	m := &bindings.Manifest{Bindings: []bindings.Binding{
		{Name: "B", Type: bindings.TypeBucket, Bucket: &bindings.BucketConfig{Bucket: "b"}},
		{Name: "K", Type: bindings.TypeKV, KV: &bindings.KVConfig{Addr: "old:1"}},
		{Name: "D", Type: bindings.TypeDatabase, Database: &bindings.DatabaseConfig{DSN: "old"}},
	}}
	bindings.ApplyEnv(m)

	assert.Equal(t, "http://minio:9000", m.Bindings[0].Bucket.Endpoint)
	assert.Equal(t, "ak", m.Bindings[0].Bucket.AccessKeyID)
	assert.Equal(t, "sk", m.Bindings[0].Bucket.SecretAccessKey)
	assert.True(t, m.Bindings[0].Bucket.UsePathStyle)
	assert.Equal(t, "redis:6379", m.Bindings[1].KV.Addr)
	assert.Equal(t, "user:pass@tcp(db:3306)/app", m.Bindings[2].Database.DSN)
}

// stubProvider is a minimal storage.Provider for resolver tests.
type stubProvider struct {
	storage.Provider
}

// TestResolveWrapsRecognizedBindings verifies bucket and kv bindings
// come back wrapped while plain bindings pass through unchanged
func TestResolveWrapsRecognizedBindings(t *testing.T) {
	m, err := bindings.Parse([]byte(validManifest))
	require.NoError(t, err)

	r := bindings.NewResolver(
		bindings.WithBucketDialer(func(cfg *bindings.BucketConfig) (storage.Provider, error) {
			assert.Equal(t, "my-assets", cfg.Bucket)
			return stubProvider{}, nil
		}),
		bindings.WithKVDialer(func(_ context.Context, cfg *bindings.KVConfig) (kv.Store, error) {
			assert.Equal(t, "localhost:6379", cfg.Addr)
			return kv.NewMemoryStore(), nil
		}),
	)

	env, err := r.Resolve(context.Background(), m)
	require.NoError(t, err)
	assert.Contains(t, env.Buckets, "ASSETS")
	assert.Contains(t, env.KV, "CACHE")
	assert.Equal(t, "on", env.Plain["FLAG"])
	assert.Empty(t, env.Databases)
}

// TestResolveFailsClosed verifies one unreachable binding fails the
// whole resolution
func TestResolveFailsClosed(t *testing.T) {
	m, err := bindings.Parse([]byte(validManifest))
	require.NoError(t, err)

	r := bindings.NewResolver(
		bindings.WithBucketDialer(func(*bindings.BucketConfig) (storage.Provider, error) {
			return stubProvider{}, nil
		}),
		bindings.WithKVDialer(func(context.Context, *bindings.KVConfig) (kv.Store, error) {
			return nil, assert.AnError
		}),
	)

	_, err = r.Resolve(context.Background(), m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CACHE")
}
