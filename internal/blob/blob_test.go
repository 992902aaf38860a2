package blob

import (
	"context"
	"testing"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cases := []struct {
		cfg  Config
		want Driver
	}{
		{Config{Root: dir}, DriverFilesystem},
		{Config{Driver: "fs", Root: dir}, DriverFilesystem},
		{Config{Driver: "memory"}, DriverMemory},
	}
	for _, tc := range cases {
		s, err := Open(ctx, tc.cfg)
		if err != nil {
			t.Fatalf("open %+v: %v", tc.cfg, err)
		}
		if s.Driver() != tc.want {
			t.Fatalf("driver = %s, want %s", s.Driver(), tc.want)
		}
	}
}

func TestOpenS3FromEnv(t *testing.T) {
	t.Setenv("HERDCHECK_BLOB_S3_BUCKET", "")
	if _, err := Open(context.Background(), Config{Driver: "s3"}); err == nil {
		t.Fatalf("expected missing bucket error")
	}
	t.Setenv("HERDCHECK_BLOB_S3_BUCKET", "herd")
	t.Setenv("HERDCHECK_BLOB_S3_ACCESS_KEY_ID", "AKIA")
	t.Setenv("HERDCHECK_BLOB_S3_SECRET_ACCESS_KEY", "SECRET")
	s, err := Open(context.Background(), Config{Driver: "s3"})
	if err != nil {
		t.Fatalf("open s3: %v", err)
	}
	if s.Driver() != DriverS3 {
		t.Fatalf("driver = %s", s.Driver())
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), Config{Driver: "tape"}); err == nil {
		t.Fatalf("expected error")
	}
}
