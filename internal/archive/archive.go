package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"openhackathon/internal/enrollment"
	"openhackathon/internal/storage"
)

const linkExpiration = 24 * time.Hour

// Snapshot is a statistic frozen at a point in time.
type Snapshot struct {
	Hackathon  string               `json:"hackathon"`
	TotalCount int                  `json:"totalCount"`
	CreatedAt  time.Time            `json:"createdAt"`
	Statistic  enrollment.Statistic `json:"statistic"`
}

type Receipt struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Archiver writes statistic snapshots to file storage.
type Archiver struct {
	logger  *slog.Logger
	storage storage.Storage
	now     func() time.Time
}

func NewArchiver(logger *slog.Logger, storage storage.Storage) *Archiver {
	return &Archiver{logger: logger, storage: storage, now: time.Now}
}

func (a *Archiver) Save(ctx context.Context, hackathon string, totalCount int, statistic enrollment.Statistic) (Receipt, error) {
	snapshot := Snapshot{
		Hackathon:  hackathon,
		TotalCount: totalCount,
		CreatedAt:  a.now().UTC(),
		Statistic:  statistic,
	}

	raw, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	filename := fmt.Sprintf("enrollment-statistic-%s.json", snapshot.CreatedAt.Format("20060102T150405Z"))
	key, err := a.storage.Store(ctx, hackathon, filename, bytes.NewReader(raw), "application/json")
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to store snapshot: %w", err)
	}

	url, err := a.storage.GetURL(ctx, key, linkExpiration)
	if err != nil {
		if deleteErr := a.storage.Delete(ctx, key); deleteErr != nil {
			a.logger.WarnContext(ctx, "Failed to remove unlinked snapshot", "key", key, "error", deleteErr)
		}
		return Receipt{}, fmt.Errorf("failed to link snapshot: %w", err)
	}

	a.logger.InfoContext(ctx, "Archived enrollment statistic", "hackathon", hackathon, "key", key)
	return Receipt{Key: key, URL: url}, nil
}

// Load reads back a stored snapshot.
func (a *Archiver) Load(ctx context.Context, key string) (Snapshot, error) {
	reader, err := a.storage.Retrieve(ctx, key)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to retrieve snapshot: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snapshot, nil
}
