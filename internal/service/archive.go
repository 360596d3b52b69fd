package service

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/autopull/internal/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReportArchive copies ingested uploads into the object store. Archiving
// runs in the background and never fails the request that triggered it.
type ReportArchive struct {
	store storage.ObjectStorage
}

// NewReportArchive returns nil when no object store is configured; a nil
// archive is safe to call.
func NewReportArchive(store storage.ObjectStorage) *ReportArchive {
	if store == nil {
		return nil
	}
	return &ReportArchive{store: store}
}

// ArchiveAsync uploads a copy of the report under
// archive/<kind>/<yyyy/mm/dd>/<uuid8>-<name>.
func (a *ReportArchive) ArchiveAsync(kind, fileName string, data []byte, contentType string) {
	if a == nil {
		return
	}

	key := fmt.Sprintf("archive/%s/%s/%s-%s",
		kind,
		time.Now().UTC().Format("2006/01/02"),
		uuid.NewString()[:8],
		fileName,
	)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := a.store.UploadObject(ctx, key, data, contentType); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("report archive upload failed")
			return
		}
		log.Debug().Str("key", key).Msg("report archived")
	}()
}
