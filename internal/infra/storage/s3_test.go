package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/BruksfildServices01/salon-scheduler/internal/config"
)

func TestPutUsesPathStyleEndpoint(t *testing.T) {
	var (
		mu       sync.Mutex
		gotPath  string
		gotBody  []byte
		gotCType string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		gotPath, gotBody, gotCType = r.URL.Path, b, r.Header.Get("Content-Type")
		mu.Unlock()
		w.Header().Set("ETag", `"abc"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a, err := NewS3Archiver(config.ExportConfig{
		S3Bucket:    "reports",
		S3Region:    "us-east-1",
		S3Endpoint:  srv.URL,
		S3Prefix:    "exports/",
		S3AccessKey: "key",
		S3SecretKey: "secret",
	})
	if err != nil {
		t.Fatalf("new archiver: %v", err)
	}

	key, err := a.Put(context.Background(), "business-1/report.xlsx", []byte("xlsx"), "application/octet-stream")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if key != "exports/business-1/report.xlsx" {
		t.Fatalf("unexpected key %s", key)
	}

	mu.Lock()
	defer mu.Unlock()
	if gotPath != "/reports/exports/business-1/report.xlsx" {
		t.Fatalf("unexpected request path %s", gotPath)
	}
	if string(gotBody) != "xlsx" || gotCType != "application/octet-stream" {
		t.Fatalf("unexpected body %q / content type %q", gotBody, gotCType)
	}
}

func TestRequiresBucket(t *testing.T) {
	if _, err := NewS3Archiver(config.ExportConfig{}); err == nil {
		t.Fatalf("expected error without bucket")
	}
}
