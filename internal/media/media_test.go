package media

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"anime-vault-go/internal/models"
)

func TestObjectPath(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	tests := []struct {
		prefix   string
		filename string
		want     string
	}{
		{"merchandise", "tanjiro.png", "merchandise/1700000000123-tanjiro.png"},
		{"/merchandise/", "tanjiro.png", "merchandise/1700000000123-tanjiro.png"},
		{"", "tanjiro.png", "1700000000123-tanjiro.png"},
		{"merchandise", "C:\\photos\\tanjiro.png", "merchandise/1700000000123-tanjiro.png"},
		{"merchandise", "../../etc/passwd", "merchandise/1700000000123-passwd"},
		{"merchandise", "", "merchandise/1700000000123-image"},
	}
	for _, tt := range tests {
		if got := ObjectPath(tt.prefix, tt.filename, now); got != tt.want {
			t.Errorf("ObjectPath(%q, %q) = %s, want %s", tt.prefix, tt.filename, got, tt.want)
		}
	}
}

func newTestSupabaseStore(t *testing.T, handler http.HandlerFunc) *SupabaseStore {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store, err := NewSupabaseStore(models.StorageConfig{
		SupabaseURL:     server.URL + "/",
		SupabaseAnonKey: "anon",
		Bucket:          "images",
		PathPrefix:      "merchandise",
	}, 5*time.Second)
	if err != nil {
		t.Fatalf("NewSupabaseStore failed: %v", err)
	}
	store.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return store
}

func TestSupabaseStore_Upload(t *testing.T) {
	var gotPath, gotAuth, gotUpsert, gotType, gotBody string
	store := newTestSupabaseStore(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotUpsert = r.Header.Get("x-upsert")
		gotType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		_, _ = w.Write([]byte(`{"Key":"images/merchandise/1700000000000-tanjiro.png"}`))
	})

	publicURL, err := store.Upload(context.Background(), Image{
		Filename:    "tanjiro.png",
		ContentType: "image/png",
		Body:        strings.NewReader("png-bytes"),
	})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if gotPath != "/storage/v1/object/images/merchandise/1700000000000-tanjiro.png" {
		t.Errorf("Unexpected upload path %s", gotPath)
	}
	if gotAuth != "Bearer anon" {
		t.Errorf("Unexpected authorization %s", gotAuth)
	}
	if gotUpsert != "false" {
		t.Errorf("Expected x-upsert false, got %s", gotUpsert)
	}
	if gotType != "image/png" {
		t.Errorf("Expected image/png, got %s", gotType)
	}
	if gotBody != "png-bytes" {
		t.Errorf("Unexpected body %s", gotBody)
	}
	if !strings.HasSuffix(publicURL, "/storage/v1/object/public/images/merchandise/1700000000000-tanjiro.png") {
		t.Errorf("Unexpected public url %s", publicURL)
	}
}

func TestSupabaseStore_DefaultContentType(t *testing.T) {
	var gotType string
	store := newTestSupabaseStore(t, func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Content-Type")
	})

	if _, err := store.Upload(context.Background(), Image{Filename: "a.bin", Body: strings.NewReader("x")}); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if gotType != DefaultContentType {
		t.Errorf("Expected %s, got %s", DefaultContentType, gotType)
	}
}

func TestSupabaseStore_UploadError(t *testing.T) {
	store := newTestSupabaseStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"statusCode":"409","error":"Duplicate","message":"The resource already exists"}`))
	})

	_, err := store.Upload(context.Background(), Image{Filename: "a.png", Body: strings.NewReader("x")})
	if err == nil || !strings.Contains(err.Error(), "The resource already exists") {
		t.Errorf("Expected storage error message, got %v", err)
	}
}

func TestSupabaseStore_EmptyImage(t *testing.T) {
	called := false
	store := newTestSupabaseStore(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	if _, err := store.Upload(context.Background(), Image{Filename: "a.png"}); err != ErrEmptyImage {
		t.Errorf("Expected ErrEmptyImage, got %v", err)
	}
	if called {
		t.Error("Expected no request for an empty image")
	}
}

func TestNewSupabaseStore_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  models.StorageConfig
	}{
		{"missing url", models.StorageConfig{SupabaseAnonKey: "k", Bucket: "b"}},
		{"missing key", models.StorageConfig{SupabaseURL: "https://x.supabase.co", Bucket: "b"}},
		{"missing bucket", models.StorageConfig{SupabaseURL: "https://x.supabase.co", SupabaseAnonKey: "k"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSupabaseStore(tt.cfg, time.Second); err == nil {
				t.Errorf("Expected error for %s", tt.name)
			}
		})
	}
}

func TestGCSStore_PublicURL(t *testing.T) {
	store := &GCSStore{name: "anime-vault"}
	got := store.PublicURL("merchandise/1700000000000-my figure.png")
	want := "https://storage.googleapis.com/anime-vault/merchandise/1700000000000-my%20figure.png"
	if got != want {
		t.Errorf("PublicURL = %s, want %s", got, want)
	}

	if _, err := NewGCSStore(context.Background(), models.StorageConfig{}); err == nil {
		t.Error("Expected error without a bucket")
	}
}
