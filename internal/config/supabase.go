// internal/config/supabase.go
package config

import "fmt"

func (s *SupabaseConfig) StorageEndpoint() string {
	return fmt.Sprintf("%s/storage/v1/s3", s.URL)
}

// PublicObjectURL is the unauthenticated download URL of an object in a public bucket.
func (s *SupabaseConfig) PublicObjectURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.URL, s.StorageBucket, key)
}

func (s *SupabaseConfig) StorageEnabled() bool {
	return s.S3AccessKeyID != "" && s.S3SecretAccessKey != ""
}
