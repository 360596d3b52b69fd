package watch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/andresuchdata/autopull/internal/config"
	"github.com/andresuchdata/autopull/internal/storage"
	"github.com/gorilla/mux"
)

// fakeStore is an in-memory ObjectStorage.
type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (s *fakeStore) put(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
}

func (s *fakeStore) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.objects))
	for k := range s.objects {
		out = append(out, k)
	}
	return out
}

func (s *fakeStore) ListObjects(_ context.Context, prefix string) ([]storage.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []storage.ObjectInfo
	for k, v := range s.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, storage.ObjectInfo{Key: k, Size: int64(len(v))})
		}
	}
	return out, nil
}

func (s *fakeStore) DownloadObject(_ context.Context, key, destPath string) error {
	s.mu.Lock()
	data, ok := s.objects[key]
	s.mu.Unlock()
	if !ok {
		return os.ErrNotExist
	}
	return os.WriteFile(destPath, data, 0644)
}

func (s *fakeStore) UploadObject(_ context.Context, key string, data []byte, _ string) error {
	s.put(key, data)
	return nil
}

func (s *fakeStore) MoveObject(_ context.Context, srcKey, destKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[srcKey]
	if !ok {
		return os.ErrNotExist
	}
	s.objects[destKey] = data
	delete(s.objects, srcKey)
	return nil
}

func watcherConfig(apiURL string) config.WatcherConfig {
	return config.WatcherConfig{
		IntervalSeconds: 1,
		APIBaseURL:      apiURL,
		StockPrefix:     "incoming/stock/",
		SalesPrefix:     "incoming/sales/",
	}
}

func TestPollForwardsAndMoves(t *testing.T) {
	store := newFakeStore()
	store.put("incoming/stock/report.csv", []byte("Dresses,0\n[1] Dress (M, Red),5\n"))

	var gotPaths []string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("missing file field: %v", err)
		}
		gotPaths = append(gotPaths, r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer api.Close()

	w := NewWatcher(store, watcherConfig(api.URL), t.TempDir())
	w.Poll(context.Background())

	if len(gotPaths) != 1 || gotPaths[0] != "/api/v1/stock/upload" {
		t.Fatalf("unexpected forwarded paths %v", gotPaths)
	}

	keys := store.keys()
	if len(keys) != 1 || keys[0] != "processed/stock/report.csv" {
		t.Fatalf("expected object moved to processed, got %v", keys)
	}

	status := w.Status()
	if status.Forwarded != 1 || status.Failed != 0 || status.LastPoll == nil {
		t.Fatalf("unexpected status %+v", status)
	}

	// A second sweep finds nothing new.
	w.Poll(context.Background())
	if got := w.Status().Forwarded; got != 1 {
		t.Fatalf("expected no re-forwarding, got %d", got)
	}
}

func TestPollMovesRejectedFilesToFailed(t *testing.T) {
	store := newFakeStore()
	store.put("incoming/sales/bad.csv", []byte("whatever"))

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"stock ledger is empty"}`, http.StatusPreconditionFailed)
	}))
	defer api.Close()

	w := NewWatcher(store, watcherConfig(api.URL), t.TempDir())
	w.Poll(context.Background())

	keys := store.keys()
	if len(keys) != 1 || keys[0] != "failed/sales/bad.csv" {
		t.Fatalf("expected object moved to failed, got %v", keys)
	}
	if status := w.Status(); status.Failed != 1 || status.Forwarded != 0 {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestStatusEndpoints(t *testing.T) {
	store := newFakeStore()
	w := NewWatcher(store, watcherConfig("http://localhost:0"), t.TempDir())

	router := mux.NewRouter()
	NewHandler(w).RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health status %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "forwarded") {
		t.Fatalf("unexpected status body %s", rec.Body.String())
	}
}
