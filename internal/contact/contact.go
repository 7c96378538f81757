// Package contact validates the contact form and hands accepted submissions
// to external handlers.
package contact

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Zachkp/folio/internal/store"
)

// Form is the raw contact form.
type Form struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Message string `json:"message" form:"message"`
}

// FieldErrors maps a form field to its problem.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + fe[k]
	}
	return "invalid contact form: " + strings.Join(parts, ", ")
}

// Validate checks that every field is present. Whitespace does not count.
func (f Form) Validate() error {
	fe := FieldErrors{}
	if strings.TrimSpace(f.Name) == "" {
		fe["name"] = "required"
	}
	if strings.TrimSpace(f.Email) == "" {
		fe["email"] = "required"
	}
	if strings.TrimSpace(f.Message) == "" {
		fe["message"] = "required"
	}
	if len(fe) > 0 {
		return fe
	}
	return nil
}

// Submission is an accepted form.
type Submission struct {
	ID        string
	Form      Form
	CreatedAt time.Time
}

// Handler receives accepted submissions.
type Handler interface {
	Submit(ctx context.Context, s Submission) error
}

type HandlerFunc func(ctx context.Context, s Submission) error

func (f HandlerFunc) Submit(ctx context.Context, s Submission) error { return f(ctx, s) }

// Submit validates form and passes it to h. An invalid form never reaches h.
func Submit(ctx context.Context, form Form, h Handler) (Submission, error) {
	if err := form.Validate(); err != nil {
		return Submission{}, err
	}
	sub := Submission{
		ID: uuid.NewString(),
		Form: Form{
			Name:    strings.TrimSpace(form.Name),
			Email:   strings.TrimSpace(form.Email),
			Message: strings.TrimSpace(form.Message),
		},
		CreatedAt: time.Now(),
	}
	if err := h.Submit(ctx, sub); err != nil {
		return Submission{}, err
	}
	return sub, nil
}

// MessageSaver is the part of the store the inbox needs.
type MessageSaver interface {
	SaveMessage(ctx context.Context, m store.Message) error
}

// Inbox stores submissions for the admin area.
type Inbox struct {
	Store MessageSaver
}

func (in Inbox) Submit(ctx context.Context, s Submission) error {
	return in.Store.SaveMessage(ctx, store.Message{
		ID:        s.ID,
		Name:      s.Form.Name,
		Email:     s.Form.Email,
		Body:      s.Form.Message,
		CreatedAt: s.CreatedAt,
	})
}

// Multi calls every handler in order. Required handlers stop the chain on
// error; optional ones only log.
type Multi struct {
	Required []Handler
	Optional []Handler
	Log      *zap.Logger
}

func (m Multi) Submit(ctx context.Context, s Submission) error {
	for _, h := range m.Required {
		if err := h.Submit(ctx, s); err != nil {
			return err
		}
	}
	var errs []error
	for _, h := range m.Optional {
		if err := h.Submit(ctx, s); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil && m.Log != nil {
		m.Log.Warn("optional contact handler failed", zap.String("submission", s.ID), zap.Error(err))
	}
	return nil
}
