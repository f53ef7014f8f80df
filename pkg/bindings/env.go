package bindings

import (
	"os"
	"strings"
)

// ApplyEnv applies environment variable overrides to a manifest.
// Environment variables follow the pattern: STRATA_<SETTING>, and
// credentials deliberately live in the environment rather than the
// manifest file.
func ApplyEnv(m *Manifest) {
	for i := range m.Bindings {
		b := &m.Bindings[i]
		switch b.Type {
		case TypeBucket:
			if b.Bucket == nil {
				continue
			}
			if val := os.Getenv("STRATA_S3_ENDPOINT"); val != "" {
				b.Bucket.Endpoint = val
			}
			if val := os.Getenv("STRATA_S3_REGION"); val != "" {
				b.Bucket.Region = val
			}
			if val := os.Getenv("STRATA_S3_ACCESS_KEY_ID"); val != "" {
				b.Bucket.AccessKeyID = val
			}
			if val := os.Getenv("STRATA_S3_SECRET_ACCESS_KEY"); val != "" {
				b.Bucket.SecretAccessKey = val
			}
			if val := os.Getenv("STRATA_S3_PATH_STYLE"); val != "" {
				b.Bucket.UsePathStyle = parseBool(val)
			}
		case TypeKV:
			if b.KV == nil {
				continue
			}
			if val := os.Getenv("STRATA_REDIS_ADDR"); val != "" {
				b.KV.Addr = val
			}
			if val := os.Getenv("STRATA_REDIS_PASSWORD"); val != "" {
				b.KV.Password = val
			}
		case TypeDatabase:
			if b.Database == nil {
				continue
			}
			if val := os.Getenv("STRATA_DATABASE_DSN"); val != "" {
				b.Database.DSN = val
			}
		}
	}
}

// parseBool converts string to boolean
func parseBool(val string) bool {
	val = strings.ToLower(strings.TrimSpace(val))
	return val == "true" || val == "1" || val == "yes"
}
