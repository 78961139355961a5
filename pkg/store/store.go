// Package store persists forms, their definitions and submissions.
//
// Store implementations deal in encoded content; Definitions layers the
// typed load/save/record contract used by the engines on top of any Store.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-formdesigner/pkg/fill"
	"github.com/goliatone/go-formdesigner/pkg/form"
)

var (
	// ErrFormNotFound is returned for unknown form ids or share urls.
	ErrFormNotFound = errors.New("store: form not found")
	// ErrFormNotPublished rejects submissions to a form that is not live.
	ErrFormNotPublished = errors.New("store: form not published")
	// ErrFormPublished rejects definition edits once a form is live.
	ErrFormPublished = errors.New("store: form already published")
)

// Form is one stored form record.
type Form struct {
	ID          string
	UserID      string
	Name        string
	Description string
	Content     string
	Fingerprint string
	Published   bool
	ShareURL    string
	Visits      int64
	Submissions int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewForm carries the fields supplied when creating a form.
type NewForm struct {
	UserID      string
	Name        string
	Description string
}

// Submission is one stored answer set.
type Submission struct {
	ID        int64
	FormID    string
	Content   string
	CreatedAt time.Time
}

// Stats aggregates visits and submissions over a user's forms.
type Stats struct {
	Visits         int64
	Submissions    int64
	SubmissionRate float64
	BounceRate     float64
}

func newStats(visits, submissions int64) Stats {
	stats := Stats{Visits: visits, Submissions: submissions}
	if visits > 0 {
		stats.SubmissionRate = float64(submissions) / float64(visits) * 100
	}
	stats.BounceRate = 100 - stats.SubmissionRate
	return stats
}

// Store is the persistence contract. Implementations are safe for concurrent
// use.
type Store interface {
	CreateForm(ctx context.Context, in NewForm) (Form, error)
	GetForm(ctx context.Context, id string) (Form, error)
	ListForms(ctx context.Context, userID string) ([]Form, error)
	// FormByShareURL resolves a published form and counts a visit.
	FormByShareURL(ctx context.Context, shareURL string) (Form, error)
	// SaveContent replaces the definition text. It reports false when the
	// fingerprint is unchanged and nothing was written.
	SaveContent(ctx context.Context, id, content, fingerprint string) (bool, error)
	Publish(ctx context.Context, id string) (Form, error)
	DeleteForm(ctx context.Context, id string) error
	RecordSubmission(ctx context.Context, formID, content string) (Submission, error)
	Submissions(ctx context.Context, formID string) ([]Submission, error)
	DeleteSubmissions(ctx context.Context, formID string) error
	Stats(ctx context.Context, userID string) (Stats, error)
}

// Definitions adapts a Store to the typed definition contract.
type Definitions struct {
	Store    Store
	Resolver form.Resolver
}

// LoadDefinition decodes the stored definition of formID.
func (d Definitions) LoadDefinition(ctx context.Context, formID string) (form.Definition, error) {
	record, err := d.Store.GetForm(ctx, formID)
	if err != nil {
		return nil, err
	}
	return form.Decode([]byte(record.Content), d.Resolver)
}

// SaveDefinition encodes def and stores it. It reports whether anything was
// written.
func (d Definitions) SaveDefinition(ctx context.Context, formID string, def form.Definition) (bool, error) {
	if err := def.Check(d.Resolver); err != nil {
		return false, err
	}
	content, err := form.Encode(def)
	if err != nil {
		return false, err
	}
	fingerprint, err := def.Fingerprint()
	if err != nil {
		return false, err
	}
	return d.Store.SaveContent(ctx, formID, string(content), fingerprint)
}

// RecordSubmission encodes payload and stores it against formID.
func (d Definitions) RecordSubmission(ctx context.Context, formID string, payload fill.Payload) (Submission, error) {
	content, err := payload.Encode()
	if err != nil {
		return Submission{}, fmt.Errorf("store: encode payload: %w", err)
	}
	return d.Store.RecordSubmission(ctx, formID, string(content))
}

// Clock returns the current time. Stores accept one for deterministic tests.
type Clock func() time.Time

func defaultClock() time.Time {
	return time.Now().UTC()
}
