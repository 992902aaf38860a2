package memory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"herdcheck/internal/blob/core"
)

func TestStore_MissingHeadGet(t *testing.T) {
	store := New()
	ctx := context.Background()
	if _, err := store.Head(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, _, err := store.Get(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStore_PutGetList(t *testing.T) {
	store := New()
	ctx := context.Background()
	feed := "id,category,age_years,age_months,udders\n12345678,cow,3,2,4\n"
	info, err := store.Put(ctx, "feeds/herd.csv", bytes.NewBufferString(feed), core.PutOptions{ContentType: "text/csv", Metadata: map[string]string{"source": "test"}})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != int64(len(feed)) {
		t.Fatalf("size = %d", info.Size)
	}
	if _, err := store.Put(ctx, "feeds/herd.csv", bytes.NewBufferString("x"), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected duplicate put error, got %v", err)
	}
	got, rc, err := store.Get(ctx, "feeds/herd.csv")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != feed || got.ContentType != "text/csv" || got.Metadata["source"] != "test" {
		t.Fatalf("unexpected blob %+v %q", got, body)
	}
	got.Metadata["source"] = "mutated"
	if head, _ := store.Head(ctx, "feeds/herd.csv"); head.Metadata["source"] != "test" {
		t.Fatalf("metadata should be copied on read")
	}
	if _, err := store.Put(ctx, "other.csv", bytes.NewBufferString("x"), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if list, err := store.List(ctx, ""); err != nil || len(list) != 2 || list[0].Key != "feeds/herd.csv" {
		t.Fatalf("list all: %v %+v", err, list)
	}
	if list, err := store.List(ctx, "feeds/"); err != nil || len(list) != 1 {
		t.Fatalf("list prefix: %v %d", err, len(list))
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, fmt.Errorf("fail") }

func TestStore_PutReadErrorAndDriver(t *testing.T) {
	store := New()
	if store.Driver() != core.DriverMemory {
		t.Fatalf("expected memory driver")
	}
	if _, err := store.Put(context.Background(), "bad", failingReader{}, core.PutOptions{}); err == nil {
		t.Fatalf("expected read error")
	}
}
