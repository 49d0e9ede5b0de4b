package tests

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gharseva/gharseva-api/internal/infrastructure/github"
)

// SetupTestDB spins up a fresh MongoDB container and returns the database connection
// along with a cleanup function.
func SetupTestDB(t *testing.T) (*mongo.Database, func()) {
	ctx := context.Background()

	mongodbContainer, err := mongodb.Run(ctx, "mongo:latest")
	if err != nil {
		t.Fatalf("failed to start container: %s", err)
	}

	endpoint, err := mongodbContainer.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get connection string: %s", err)
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(endpoint))
	if err != nil {
		t.Fatalf("failed to connect to mongo: %v", err)
	}

	return mongoClient.Database("test_db"), func() {
		if err := mongoClient.Disconnect(ctx); err != nil {
			log.Printf("failed to disconnect mongo: %v", err)
		}
		if err := mongodbContainer.Terminate(ctx); err != nil {
			log.Printf("failed to terminate container: %v", err)
		}
	}
}

// FakeContentRepo is an in-process stand-in for the GitHub contents API.
// It keeps files in a map keyed by path and enforces sha gating the same way
// the real endpoint does: create without a sha, mutate only with the current
// one, 409 on a stale one.
type FakeContentRepo struct {
	mu    sync.Mutex
	Files map[string]string // path -> current sha
	seq   int
}

// SetupAssetStore starts an httptest server backed by a FakeContentRepo and
// returns a Store wired against it.
func SetupAssetStore(t *testing.T) (*github.Store, *FakeContentRepo) {
	t.Helper()
	repo := &FakeContentRepo{Files: make(map[string]string)}
	srv := httptest.NewServer(repo)
	t.Cleanup(srv.Close)

	client := github.NewClient(github.Config{
		Token:   "test-token",
		Repo:    "gharseva/media-test",
		Branch:  "main",
		BaseURL: srv.URL,
	})
	return github.NewStore(client), repo
}

// Count returns the number of stored objects
func (f *FakeContentRepo) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Files)
}

func (f *FakeContentRepo) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	escaped := r.URL.EscapedPath()
	idx := strings.Index(escaped, "/contents/")
	if idx < 0 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	path, err := url.PathUnescape(escaped[idx+len("/contents/"):])
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
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
	current, exists := f.Files[path]

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
		f.seq++
		sha := fmt.Sprintf("sha-%d", f.seq)
		f.Files[path] = sha
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
		delete(f.Files, path)
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{"content": nil})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
