package analyses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/halalcheck/halalcheck/pkg/formatting"
	"github.com/halalcheck/halalcheck/pkg/storage"
)

// Export renders the stored analysis as a JSON report and uploads it to
// reports/{id}.json, replacing any earlier export.
func (r *repo) Export(ctx context.Context, id uuid.UUID) (*Export, error) {
	a, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	report := Report{
		GeneratedAt: time.Now().UTC(),
		Analysis:    *a,
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}

	key := ReportKey(id)
	if err := r.storage.Put(ctx, key, data, "application/json"); err != nil {
		return nil, fmt.Errorf("upload report: %w", err)
	}

	r.logger.Info("report exported", "analysis_id", id, "key", key, "size", formatting.FormatBytes(int64(len(data))))

	return &Export{
		AnalysisID:  id,
		Key:         key,
		GeneratedAt: report.GeneratedAt,
	}, nil
}

// Report opens a previously exported report. The caller must close its body.
func (r *repo) Report(ctx context.Context, id uuid.UUID) (*storage.Object, error) {
	obj, err := r.storage.Open(ctx, ReportKey(id))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	return obj, nil
}
