package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/matzehuels/ptplot/pkg/cache"
	"github.com/matzehuels/ptplot/pkg/dataset"
	perrors "github.com/matzehuels/ptplot/pkg/errors"
	"github.com/matzehuels/ptplot/pkg/observability"
)

// ReadData returns the raw CSV bytes named by opts.
func ReadData(opts Options) ([]byte, error) {
	if len(opts.Data) > 0 {
		return opts.Data, nil
	}
	data, err := os.ReadFile(opts.DataPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "tracking data %s", opts.DataPath)
		}
		return nil, fmt.Errorf("read tracking data: %w", err)
	}
	return data, nil
}

// Load parses raw CSV and applies the spec's event filter. Filtered rows
// are cached under the raw data hash and the filter parameters.
func (r *Runner) Load(ctx context.Context, raw []byte, dataHash string, opts Options) (*dataset.Frame, bool, error) {
	start := time.Now()
	source := opts.DataPath
	if source == "" {
		source = "upload"
	}

	frame, hit, err := r.load(ctx, raw, dataHash, opts)
	rows := 0
	if frame != nil {
		rows = frame.Len()
	}
	observability.Pipeline().OnLoad(ctx, source, rows, time.Since(start), err)
	return frame, hit, err
}

func (r *Runner) load(ctx context.Context, raw []byte, dataHash string, opts Options) (*dataset.Frame, bool, error) {
	var key string
	if opts.Spec.Filter != nil {
		key = r.Keyer.FilterKey(dataHash, opts.FilterKeyOpts())
		if !opts.Refresh {
			if data, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
				if frame, err := dataset.ReadTypedCSV(bytes.NewReader(data)); err == nil {
					observability.Cache().OnCacheHit(ctx, "filter")
					return frame, true, nil
				}
			}
			observability.Cache().OnCacheMiss(ctx, "filter")
		}
	}

	full, err := dataset.ReadCSV(bytes.NewReader(raw))
	if err != nil {
		return nil, false, err
	}
	if full.Len() > MaxRows {
		return nil, false, perrors.New(perrors.ErrCodeInvalidInput,
			"tracking data has %d rows (max %d); filter it first", full.Len(), MaxRows)
	}
	frame, err := opts.Spec.Apply(full)
	if err != nil {
		return nil, false, err
	}

	if key != "" {
		var buf bytes.Buffer
		if err := dataset.WriteTypedCSV(&buf, frame); err == nil {
			if err := r.Cache.Set(ctx, key, buf.Bytes(), cache.TTLFilter); err == nil {
				observability.Cache().OnCacheSet(ctx, "filter", buf.Len())
			}
		}
	}
	return frame, false, nil
}
