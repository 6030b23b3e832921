// ABOUTME: Narration service: asks a hosted model, falls back to offline analysis.
// ABOUTME: Collaborator failures are recovered and reported, never returned.
package narrate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultTimeout bounds a single collaborator call.
const DefaultTimeout = 60 * time.Second

// ErrEmptyResponse is returned by collaborators that produced no text.
var ErrEmptyResponse = errors.New("empty response")

// Collaborator turns a payload JSON string into narrative text.
type Collaborator interface {
	Name() string
	Complete(ctx context.Context, payload string) (string, error)
}

// NarrationError wraps any collaborator failure.
type NarrationError struct {
	Provider string
	Err      error
}

func (e *NarrationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *NarrationError) Unwrap() error { return e.Err }

// Source tells where the narration text came from.
type Source string

const (
	// SourceModel is text produced by the collaborator.
	SourceModel Source = "model"
	// SourceOffline is the heuristic text with no collaborator configured.
	SourceOffline Source = "offline"
	// SourceFallback is the heuristic text after a collaborator failure.
	SourceFallback Source = "fallback"
)

// Result is the single outcome of Analyze.
type Result struct {
	Text     string          `json:"text"`
	Source   Source          `json:"source"`
	Provider string          `json:"provider,omitempty"`
	Err      *NarrationError `json:"-"`
}

// Service narrates payloads.
type Service struct {
	collaborator Collaborator
	timeout      time.Duration
	logger       *log.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the logger used to report fail-over. Nil is ignored.
func WithLogger(l *log.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService returns a service using c. A nil collaborator means offline only.
func NewService(c Collaborator, opts ...ServiceOption) *Service {
	s := &Service{
		collaborator: c,
		timeout:      DefaultTimeout,
		logger:       log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Provider is the collaborator name, or "" when offline.
func (s *Service) Provider() string {
	if s.collaborator == nil {
		return ""
	}
	return s.collaborator.Name()
}

// Analyze always produces text. Without a collaborator it returns the
// heuristic analysis; when the collaborator fails for any reason (timeout,
// transport, bad status, malformed or empty response) the heuristic text is
// returned behind a notice and the failure is reported in Result.Err.
func (s *Service) Analyze(ctx context.Context, p Payload) Result {
	if s.collaborator == nil {
		return Result{Text: Heuristic(p.Summary, p.Profile, p.Targets), Source: SourceOffline}
	}

	name := s.collaborator.Name()
	text, err := s.complete(ctx, p)
	if err != nil {
		nerr := &NarrationError{Provider: name, Err: err}
		s.logger.Warn("narration failed, using offline analysis", "provider", name, "err", err)
		return Result{
			Text:     FallbackText(err, Heuristic(p.Summary, p.Profile, p.Targets)),
			Source:   SourceFallback,
			Provider: name,
			Err:      nerr,
		}
	}

	s.logger.Debug("narration complete", "provider", name, "chars", len(text))
	return Result{Text: text, Source: SourceModel, Provider: name}
}

func (s *Service) complete(ctx context.Context, p Payload) (string, error) {
	payload, err := p.JSON()
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.collaborator.Complete(ctx, payload)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// FallbackText prefixes offline text with the failure reason.
func FallbackText(err error, offline string) string {
	return fmt.Sprintf("AI request failed (%v). Showing offline analysis instead:\n\n%s", err, offline)
}
