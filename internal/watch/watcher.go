// Package watch polls an S3-compatible bucket for dropped report files and
// forwards them to the HTTP API. Forwarded objects are moved out of the
// incoming prefix so restarts never re-ingest them.
package watch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/andresuchdata/autopull/internal/config"
	"github.com/andresuchdata/autopull/internal/storage"
	"github.com/rs/zerolog/log"
)

// Status is the watcher's observable state, served by the status endpoint.
type Status struct {
	LastPoll  *time.Time `json:"last_poll,omitempty"`
	Forwarded int        `json:"forwarded"`
	Failed    int        `json:"failed"`
}

// target binds an incoming prefix to the API endpoint its files go to.
type target struct {
	kind   string
	prefix string
	path   string
}

type Watcher struct {
	store     storage.ObjectStorage
	client    *http.Client
	interval  time.Duration
	baseURL   string
	uploadDir string
	targets   []target

	mu     sync.Mutex
	seen   map[string]struct{}
	status Status
}

func NewWatcher(store storage.ObjectStorage, cfg config.WatcherConfig, uploadDir string) *Watcher {
	interval := time.Duration(cfg.IntervalSeconds) * time.Second
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Watcher{
		store:     store,
		client:    &http.Client{Timeout: 2 * time.Minute},
		interval:  interval,
		baseURL:   strings.TrimRight(cfg.APIBaseURL, "/"),
		uploadDir: uploadDir,
		targets: []target{
			{kind: "stock", prefix: cfg.StockPrefix, path: "/api/v1/stock/upload"},
			{kind: "sales", prefix: cfg.SalesPrefix, path: "/api/v1/replans"},
		},
		seen: make(map[string]struct{}),
	}
}

// Run polls until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.Poll(ctx)
		}
	}
}

// Poll runs one sweep over every incoming prefix.
func (w *Watcher) Poll(ctx context.Context) {
	for _, tgt := range w.targets {
		objects, err := w.store.ListObjects(ctx, tgt.prefix)
		if err != nil {
			log.Error().Err(err).Str("prefix", tgt.prefix).Msg("list incoming objects failed")
			continue
		}
		for _, obj := range objects {
			if w.alreadySeen(obj.Key) {
				continue
			}
			w.handleObject(ctx, tgt, obj)
		}
	}

	now := time.Now().UTC()
	w.mu.Lock()
	w.status.LastPoll = &now
	w.mu.Unlock()
}

// Status returns a snapshot of the watcher counters.
func (w *Watcher) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

func (w *Watcher) handleObject(ctx context.Context, tgt target, obj storage.ObjectInfo) {
	w.markSeen(obj.Key)

	err := w.forward(ctx, tgt, obj.Key)
	outcome := "processed"
	if err != nil {
		outcome = "failed"
		log.Error().Err(err).Str("key", obj.Key).Msg("forward to API failed")
	}

	destKey := path.Join(outcome, tgt.kind, path.Base(obj.Key))
	if moveErr := w.store.MoveObject(ctx, obj.Key, destKey); moveErr != nil {
		log.Error().Err(moveErr).Str("key", obj.Key).Str("dest", destKey).Msg("move object failed")
	}

	w.mu.Lock()
	if err != nil {
		w.status.Failed++
	} else {
		w.status.Forwarded++
	}
	w.mu.Unlock()

	if err == nil {
		log.Info().Str("key", obj.Key).Str("kind", tgt.kind).Msg("report forwarded")
	}
}

// forward downloads the object to scratch space and POSTs it as multipart
// form data.
func (w *Watcher) forward(ctx context.Context, tgt target, key string) error {
	localPath := filepath.Join(w.uploadDir, filepath.Base(key))
	if err := w.store.DownloadObject(ctx, key, localPath); err != nil {
		return fmt.Errorf("download %s: %w", key, err)
	}
	defer os.Remove(localPath)

	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filepath.Base(key))
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("copy payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL+tgt.path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", tgt.path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("api returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}

func (w *Watcher) alreadySeen(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.seen[key]
	return ok
}

func (w *Watcher) markSeen(key string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.seen[key] = struct{}{}
}
