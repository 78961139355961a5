// Package service implements the form builder actions on top of a Store:
// owner-scoped CRUD, designer load/save, publishing and public submissions.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formdesigner/pkg/designer"
	"github.com/goliatone/go-formdesigner/pkg/export"
	"github.com/goliatone/go-formdesigner/pkg/fields"
	"github.com/goliatone/go-formdesigner/pkg/fill"
	"github.com/goliatone/go-formdesigner/pkg/form"
	"github.com/goliatone/go-formdesigner/pkg/logger"
	"github.com/goliatone/go-formdesigner/pkg/store"
)

var (
	// ErrUnauthorized is returned when no user is signed in or the form
	// belongs to someone else.
	ErrUnauthorized = errors.New("service: unauthorized")
	// ErrInvalidInput rejects malformed create requests.
	ErrInvalidInput = errors.New("service: invalid input")
)

// Option configures a Service.
type Option func(*Service)

// WithLogger attaches a logger.
func WithLogger(log *logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithIdentity overrides the identity source. The default reads the user
// stored on the context with WithUser.
func WithIdentity(identity Identity) Option {
	return func(s *Service) {
		if identity != nil {
			s.identity = identity
		}
	}
}

// WithDesignerOptions forwards options to every designer session opened.
func WithDesignerOptions(options ...designer.Option) Option {
	return func(s *Service) {
		s.designerOptions = append(s.designerOptions, options...)
	}
}

// Service is safe for concurrent use when its Store is.
type Service struct {
	store    store.Store
	defs     store.Definitions
	registry *fields.Registry
	identity Identity
	log      *logger.Logger

	designerOptions []designer.Option
}

// New builds a Service over st using registry to resolve field types.
func New(st store.Store, registry *fields.Registry, options ...Option) *Service {
	s := &Service{
		store:    st,
		defs:     store.Definitions{Store: st, Resolver: registry},
		registry: registry,
		identity: ContextIdentity{},
		log:      logger.Nop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	s.log = s.log.Named("service")
	return s
}

// CreateForm creates an empty, unpublished form owned by the current user.
func (s *Service) CreateForm(ctx context.Context, name, description string) (store.Form, error) {
	userID, err := s.user(ctx)
	if err != nil {
		return store.Form{}, err
	}
	name = strings.TrimSpace(name)
	if len(name) < 4 {
		return store.Form{}, fmt.Errorf("%w: name must be at least 4 characters", ErrInvalidInput)
	}

	record, err := s.store.CreateForm(ctx, store.NewForm{UserID: userID, Name: name, Description: description})
	if err != nil {
		return store.Form{}, err
	}
	s.log.Infow("form created", "form", record.ID, "user", userID)
	return record, nil
}

// Forms lists the current user's forms, newest first.
func (s *Service) Forms(ctx context.Context) ([]store.Form, error) {
	userID, err := s.user(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.ListForms(ctx, userID)
}

// Form returns one of the current user's forms.
func (s *Service) Form(ctx context.Context, formID string) (store.Form, error) {
	return s.owned(ctx, formID)
}

// OpenDesigner loads the stored definition into a fresh designer session.
func (s *Service) OpenDesigner(ctx context.Context, formID string) (*designer.Session, error) {
	if _, err := s.owned(ctx, formID); err != nil {
		return nil, err
	}
	def, err := s.defs.LoadDefinition(ctx, formID)
	if err != nil {
		return nil, err
	}
	session := designer.New(s.registry, append([]designer.Option{designer.WithLogger(s.log)}, s.designerOptions...)...)
	if err := session.Load(def); err != nil {
		return nil, err
	}
	return session, nil
}

// SaveDesigner persists the session's definition and marks it saved. It
// reports whether the stored content changed.
func (s *Service) SaveDesigner(ctx context.Context, formID string, session *designer.Session) (bool, error) {
	if _, err := s.owned(ctx, formID); err != nil {
		return false, err
	}
	wrote, err := s.defs.SaveDefinition(ctx, formID, session.Definition())
	if err != nil {
		s.log.Warnw("save definition failed", "form", formID, "error", err)
		return false, err
	}
	session.MarkSaved()
	if wrote {
		s.log.Infow("definition saved", "form", formID, "fields", session.Len())
	}
	return wrote, nil
}

// Publish makes the form available at its share url. The definition is
// frozen afterwards.
func (s *Service) Publish(ctx context.Context, formID string) (store.Form, error) {
	if _, err := s.owned(ctx, formID); err != nil {
		return store.Form{}, err
	}
	record, err := s.store.Publish(ctx, formID)
	if err != nil {
		return store.Form{}, err
	}
	s.log.Infow("form published", "form", formID, "share_url", record.ShareURL)
	return record, nil
}

// DeleteForm removes a form and its submissions.
func (s *Service) DeleteForm(ctx context.Context, formID string) error {
	if _, err := s.owned(ctx, formID); err != nil {
		return err
	}
	if err := s.store.DeleteForm(ctx, formID); err != nil {
		return err
	}
	s.log.Infow("form deleted", "form", formID)
	return nil
}

// OpenFill resolves a published form by share url, counts the visit and opens
// a fill session over its definition. No sign-in is needed.
func (s *Service) OpenFill(ctx context.Context, shareURL string, options ...fill.Option) (store.Form, *fill.Session, error) {
	record, err := s.store.FormByShareURL(ctx, shareURL)
	if err != nil {
		return store.Form{}, nil, err
	}
	def, err := form.Decode([]byte(record.Content), s.registry)
	if err != nil {
		return store.Form{}, nil, err
	}
	session, err := fill.New(s.registry, def, append([]fill.Option{fill.WithLogger(s.log)}, options...)...)
	if err != nil {
		return store.Form{}, nil, err
	}
	return record, session, nil
}

// Submit validates every field of session and records the payload against
// formID. Invalid sessions return fill.ErrFormNotValid and record nothing.
func (s *Service) Submit(ctx context.Context, formID string, session *fill.Session) (store.Submission, error) {
	if !session.Validate() {
		return store.Submission{}, fmt.Errorf("%w: %s", fill.ErrFormNotValid, strings.Join(session.Errors(), ", "))
	}
	payload, err := session.Payload()
	if err != nil {
		return store.Submission{}, err
	}
	sub, err := s.defs.RecordSubmission(ctx, formID, payload)
	if err != nil {
		s.log.Warnw("submission rejected", "form", formID, "error", err)
		return store.Submission{}, err
	}
	s.log.Infow("submission recorded", "form", formID, "submission", sub.ID)
	return sub, nil
}

// Submissions lists the stored answers of one of the current user's forms.
func (s *Service) Submissions(ctx context.Context, formID string) ([]store.Submission, error) {
	if _, err := s.owned(ctx, formID); err != nil {
		return nil, err
	}
	return s.store.Submissions(ctx, formID)
}

// SubmissionTable flattens a form's submissions with export.Table.
func (s *Service) SubmissionTable(ctx context.Context, formID string) ([]string, [][]string, error) {
	subs, err := s.Submissions(ctx, formID)
	if err != nil {
		return nil, nil, err
	}
	def, err := s.defs.LoadDefinition(ctx, formID)
	if err != nil {
		return nil, nil, err
	}
	return export.Table(s.registry, def, subs)
}

// Stats aggregates visits and submissions over the current user's forms.
func (s *Service) Stats(ctx context.Context) (store.Stats, error) {
	userID, err := s.user(ctx)
	if err != nil {
		return store.Stats{}, err
	}
	return s.store.Stats(ctx, userID)
}

func (s *Service) user(ctx context.Context) (string, error) {
	userID, ok := s.identity.CurrentUserID(ctx)
	if !ok {
		return "", fmt.Errorf("%w: not signed in", ErrUnauthorized)
	}
	return userID, nil
}

func (s *Service) owned(ctx context.Context, formID string) (store.Form, error) {
	userID, err := s.user(ctx)
	if err != nil {
		return store.Form{}, err
	}
	record, err := s.store.GetForm(ctx, formID)
	if err != nil {
		return store.Form{}, err
	}
	if record.UserID != userID {
		return store.Form{}, fmt.Errorf("%w: form %q", ErrUnauthorized, formID)
	}
	return record, nil
}
