// Package storage keeps rendered plots so they can be fetched again by ID.
//
// The HTTP server stores every render it produces and serves it back from
// /plots/{id}; the CLI can save renders locally with --save. Backends:
//   - memory: in-process map for tests and single-instance servers
//   - file: one JSON document per plot, for the CLI
//   - mongo: MongoDB collection for multi-instance deployments
//
// Plot IDs are random UUIDs. Records may carry an expiry; expired records
// are invisible to Get and List and are removed by Cleanup (MongoDB removes
// them with a TTL index).
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	perrors "github.com/matzehuels/ptplot/pkg/errors"
)

// DefaultTTL is how long the server keeps a rendered plot.
const DefaultTTL = 30 * 24 * time.Hour

// Plot is a stored render.
type Plot struct {
	ID        string     `json:"id" bson:"_id"`
	Title     string     `json:"title,omitempty" bson:"title,omitempty"`
	Format    string     `json:"format" bson:"format"`
	DataHash  string     `json:"data_hash,omitempty" bson:"data_hash,omitempty"`
	SpecHash  string     `json:"spec_hash,omitempty" bson:"spec_hash,omitempty"`
	Layers    []string   `json:"layers,omitempty" bson:"layers,omitempty"`
	Frames    int        `json:"frames,omitempty" bson:"frames,omitempty"`
	Content   []byte     `json:"content" bson:"content"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" bson:"expires_at,omitempty"`
}

// New creates a plot record with a fresh ID. A ttl of zero never expires.
func New(format string, content []byte, ttl time.Duration) *Plot {
	now := time.Now().UTC()
	p := &Plot{ID: uuid.NewString(), Format: format, Content: content, CreatedAt: now}
	if ttl > 0 {
		exp := now.Add(ttl)
		p.ExpiresAt = &exp
	}
	return p
}

// IsExpired reports whether the record is past its expiry.
func (p *Plot) IsExpired() bool {
	return p.ExpiresAt != nil && time.Now().After(*p.ExpiresAt)
}

// Store is the interface for plot storage backends.
type Store interface {
	// Get returns the plot with the given ID, or a PLOT_NOT_FOUND error.
	Get(ctx context.Context, id string) (*Plot, error)
	// Put inserts or replaces a plot.
	Put(ctx context.Context, p *Plot) error
	// List returns up to limit plots, newest first.
	List(ctx context.Context, limit int) ([]*Plot, error)
	// Delete removes a plot. Deleting a missing plot is not an error.
	Delete(ctx context.Context, id string) error
	// Cleanup removes expired plots.
	Cleanup(ctx context.Context) error
	Close(ctx context.Context) error
}

func notFound(id string) error {
	return perrors.New(perrors.ErrCodePlotNotFound, "plot %s not found", id)
}

func validate(p *Plot) error {
	if p == nil {
		return perrors.New(perrors.ErrCodeInvalidInput, "plot cannot be nil")
	}
	return perrors.ValidatePlotID(p.ID)
}
