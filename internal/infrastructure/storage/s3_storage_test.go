package storage

import (
	"testing"

	"love-story/memories-api/internal/config"
)

func TestMissingS3Settings(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want []string
	}{
		{
			name: "fully configured",
			cfg: config.Config{
				S3Endpoint:    "http://minio:9000",
				S3Bucket:      "love-story-media",
				S3AccessKeyID: "minio",
				S3SecretKey:   "miniosecret",
			},
			want: nil,
		},
		{
			name: "everything missing",
			cfg:  config.Config{},
			want: []string{
				"MEMORIES_S3_ENDPOINT",
				"MEMORIES_S3_BUCKET",
				"MEMORIES_S3_ACCESS_KEY_ID",
				"MEMORIES_S3_SECRET_KEY",
			},
		},
		{
			name: "placeholder values count as missing",
			cfg: config.Config{
				S3Endpoint:    "YOUR_S3_ENDPOINT",
				S3Bucket:      "love-story-media",
				S3AccessKeyID: "YOUR_S3_ACCESS_KEY",
				S3SecretKey:   "miniosecret",
			},
			want: []string{"MEMORIES_S3_ENDPOINT", "MEMORIES_S3_ACCESS_KEY_ID"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := missingS3Settings(&tt.cfg)
			if len(got) != len(tt.want) {
				t.Fatalf("missingS3Settings() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("missingS3Settings()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
