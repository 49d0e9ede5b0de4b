package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gharseva/gharseva-api/internal/domain"
)

// fakeContentsAPI mimics the GitHub contents endpoint: create without a sha,
// mutate only with the current sha, 409 on a stale one.
type fakeContentsAPI struct {
	mu    sync.Mutex
	files map[string]string // path -> current sha
	seq   int
}

func newFakeContentsAPI() *fakeContentsAPI {
	return &fakeContentsAPI{files: make(map[string]string)}
}

func (f *fakeContentsAPI) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		escaped := r.URL.EscapedPath()
		idx := strings.Index(escaped, "/contents/")
		if idx < 0 {
			t.Errorf("unexpected request path %q", escaped)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		path, err := url.PathUnescape(escaped[idx+len("/contents/"):])
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if r.Header.Get("Authorization") != "token test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		var payload struct {
			Content string `json:"content"`
			SHA     string `json:"sha"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		f.mu.Lock()
		defer f.mu.Unlock()
		current, exists := f.files[path]

		switch r.Method {
		case http.MethodPut:
			if _, err := base64.StdEncoding.DecodeString(payload.Content); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			if exists && payload.SHA != current {
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(map[string]string{"message": "sha does not match"})
				return
			}
			if !exists && payload.SHA != "" {
				w.WriteHeader(http.StatusUnprocessableEntity)
				json.NewEncoder(w).Encode(map[string]string{"message": "no file at path"})
				return
			}
			f.seq++
			sha := fmt.Sprintf("sha-%d", f.seq)
			f.files[path] = sha
			status := http.StatusCreated
			if exists {
				status = http.StatusOK
			}
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(map[string]any{
				"content": map[string]string{
					"sha":          sha,
					"download_url": "https://raw.example.com/" + path,
					"path":         path,
				},
			})
		case http.MethodDelete:
			if !exists {
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})
				return
			}
			if payload.SHA != current {
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(map[string]string{"message": "sha does not match"})
				return
			}
			delete(f.files, path)
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]any{"content": nil})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

func newTestStore(t *testing.T) (*Store, *fakeContentsAPI) {
	t.Helper()
	api := newFakeContentsAPI()
	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)

	client := NewClient(Config{
		Token:   "test-token",
		Repo:    "gharseva/media",
		Branch:  "main",
		BaseURL: srv.URL,
	})
	return NewStore(client), api
}

func TestUploadAndDelete(t *testing.T) {
	store, api := newTestStore(t)
	ctx := context.Background()

	desc, err := store.Upload(ctx, []byte("image bytes"), "my photo.jpg", "partners/avatars")
	if err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
	if desc.ContentHash == "" || desc.URL == "" {
		t.Fatalf("descriptor incomplete: %+v", desc)
	}
	if !strings.HasPrefix(desc.StoragePath, "partners/avatars/") {
		t.Errorf("path %q not under folder", desc.StoragePath)
	}
	if strings.Contains(desc.StoragePath, " ") {
		t.Errorf("path %q should have no spaces", desc.StoragePath)
	}
	if len(api.files) != 1 {
		t.Fatalf("remote holds %d files, want 1", len(api.files))
	}

	if err := store.Delete(ctx, desc.StoragePath, desc.ContentHash); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if len(api.files) != 0 {
		t.Error("file should be gone after delete")
	}
}

func TestUpdateRequiresCurrentHash(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	desc, err := store.Upload(ctx, []byte("v1"), "photo.jpg", "partners/banners")
	if err != nil {
		t.Fatalf("Upload() error: %v", err)
	}

	updated, err := store.Update(ctx, desc.StoragePath, []byte("v2"), desc.ContentHash)
	if err != nil {
		t.Fatalf("Update() with current hash error: %v", err)
	}
	if updated.ContentHash == desc.ContentHash {
		t.Error("update should issue a fresh hash")
	}

	// The first hash is now stale
	_, err = store.Update(ctx, desc.StoragePath, []byte("v3"), desc.ContentHash)
	if !errors.Is(err, domain.ErrConcurrencyConflict) {
		t.Fatalf("expected ErrConcurrencyConflict, got %v", err)
	}
}

func TestDeleteWithStaleHash(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	desc, err := store.Upload(ctx, []byte("v1"), "photo.jpg", "partners/avatars")
	if err != nil {
		t.Fatalf("Upload() error: %v", err)
	}

	err = store.Delete(ctx, desc.StoragePath, "stale-sha")
	if !errors.Is(err, domain.ErrConcurrencyConflict) {
		t.Fatalf("expected ErrConcurrencyConflict, got %v", err)
	}
}

func TestDeleteMissingObject(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.Delete(context.Background(), "partners/avatars/gone.jpg", "sha")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUploadBatchIndexAligned(t *testing.T) {
	store, api := newTestStore(t)

	files := []domain.UploadFile{
		{Data: []byte("a"), Name: "first.jpg", ContentType: "image/jpeg"},
		{Data: []byte("b"), Name: "second.png", ContentType: "image/png"},
		{Data: []byte("c"), Name: "third.webp", ContentType: "image/webp"},
	}

	descriptors, err := store.UploadBatch(context.Background(), files, "partners/portfolio")
	if err != nil {
		t.Fatalf("UploadBatch() error: %v", err)
	}
	if len(descriptors) != len(files) {
		t.Fatalf("got %d descriptors, want %d", len(descriptors), len(files))
	}
	for i, desc := range descriptors {
		if desc == nil {
			t.Fatalf("descriptor %d is nil", i)
		}
		if !strings.HasSuffix(desc.StoragePath, "_"+files[i].Name) {
			t.Errorf("descriptor %d path %q not aligned with input %q", i, desc.StoragePath, files[i].Name)
		}
	}
	if len(api.files) != 3 {
		t.Errorf("remote holds %d files, want 3", len(api.files))
	}
}

func TestContentsURLKeepsPathSeparators(t *testing.T) {
	client := NewClient(Config{Repo: "gharseva/media", BaseURL: "https://api.example.com"})

	got := client.contentsURL("partners/avatars/my photo#1.jpg")
	want := "https://api.example.com/repos/gharseva/media/contents/partners/avatars/my%20photo%231.jpg"
	if got != want {
		t.Fatalf("contentsURL = %q, want %q", got, want)
	}
	if strings.Contains(got, "%2F") {
		t.Error("path separators must stay literal")
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.jpg", "photo.jpg"},
		{"my photo.jpg", "my_photo.jpg"},
		{"../../etc/passwd", "passwd"},
		{"a#b?c%d.png", "abcd.png"},
		{"", "image"},
	}
	for _, tt := range tests {
		if got := sanitizeName(tt.in); got != tt.want {
			t.Errorf("sanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
