package application

import (
	"context"
	"sync"
	"time"

	"github.com/linskybing/admission-portal/internal/domain/admission"
	"github.com/linskybing/admission-portal/internal/domain/review"
	"github.com/linskybing/admission-portal/internal/logger"
	"github.com/linskybing/admission-portal/internal/notify"
	"github.com/linskybing/admission-portal/pkg/backend"
	"github.com/linskybing/admission-portal/pkg/metrics"
	"github.com/rs/zerolog"
)

// ModalKind selects which mutation a modal commits.
type ModalKind string

const (
	ModalReview  ModalKind = "review"
	ModalPayment ModalKind = "payment"
)

type ModalState int

const (
	ModalClosed ModalState = iota
	ModalOpen
)

func (s ModalState) String() string {
	if s == ModalOpen {
		return "open"
	}
	return "closed"
}

func (s ModalState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

const (
	genericFailure      = "Something went wrong on the server"
	defaultModalTimeout = 20 * time.Second
)

type ModalSnapshot struct {
	Kind          ModalKind  `json:"kind"`
	State         ModalState `json:"state"`
	ApplicationID uint       `json:"application_id"`
	Row           *Row       `json:"row,omitempty"`
	Notes         string     `json:"notes"`
	Submitting    bool       `json:"submitting"`
	LastError     string     `json:"last_error,omitempty"`
}

type ActionOptions struct {
	API      backend.API
	Notifier notify.Notifier
	Recorder ReviewRecorder
	// OnSuccess runs after a successful submission, normally the owning
	// list's refresh.
	OnSuccess  func(ctx context.Context)
	Timeout    time.Duration
	SessionID  string
	AdminEmail string
}

// ActionController is the state of one review or payment modal. At most one
// submission is outstanding; a confirm while submitting is refused.
type ActionController struct {
	kind ModalKind
	opts ActionOptions
	log  zerolog.Logger

	mu         sync.Mutex
	state      ModalState
	row        Row
	notes      string
	submitting bool
	lastErr    string
}

func NewActionController(kind ModalKind, opts ActionOptions) *ActionController {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultModalTimeout
	}
	return &ActionController{
		kind: kind,
		opts: opts,
		log:  logger.With("modal").With().Str("kind", string(kind)).Logger(),
	}
}

func (m *ActionController) Kind() ModalKind {
	return m.kind
}

// Open shows the modal for row and seeds the notes from the application.
// Opening a modal that is already open for the same application keeps the
// notes typed so far.
func (m *ActionController) Open(row Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.submitting {
		return ErrSubmissionInFlight
	}
	if m.state == ModalOpen && m.row.ID == row.ID {
		m.row = row
		return nil
	}
	m.state = ModalOpen
	m.row = row
	m.notes = row.Notes
	m.lastErr = ""
	return nil
}

func (m *ActionController) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.submitting {
		return ErrSubmissionInFlight
	}
	m.state = ModalClosed
	m.notes = ""
	m.lastErr = ""
	return nil
}

// SetNotes edits the notes locally. Nothing is sent until a confirm.
func (m *ActionController) SetNotes(notes string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != ModalOpen {
		return ErrModalClosed
	}
	if m.submitting {
		return ErrSubmissionInFlight
	}
	m.notes = notes
	return nil
}

func (m *ActionController) Snapshot() ModalSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := ModalSnapshot{
		Kind:          m.kind,
		State:         m.state,
		ApplicationID: m.row.ID,
		Notes:         m.notes,
		Submitting:    m.submitting,
		LastError:     m.lastErr,
	}
	if m.state == ModalOpen {
		row := m.row
		snap.Row = &row
	}
	return snap
}

// Review sets the application status to VERIFIED or REJECTED together with
// the current notes.
func (m *ActionController) Review(ctx context.Context, status admission.ApplicationStatus) error {
	if m.kind != ModalReview {
		return ErrWrongModalKind
	}
	if !status.IsDecision() {
		return ErrInvalidDecision
	}

	successTitle := "Status updated"
	successLevel := notify.LevelSuccess
	if status == admission.StatusRejected {
		successTitle = "Application rejected"
		successLevel = notify.LevelWarning
	}

	return m.submit(ctx, submission{
		action:       review.ActionReview,
		decision:     string(status),
		successTitle: successTitle,
		successLevel: successLevel,
		failureTitle: "Verification failed",
		check: func(row Row) error {
			if !Reviewable(row.Application) {
				return ErrNotReviewable
			}
			return nil
		},
		call: func(ctx context.Context, row Row, notes string) error {
			return m.opts.API.SetApplicationStatus(ctx, row.ID, status, notes)
		},
	})
}

// VerifyPayment records the payment decision only. Status and notes are
// left to the review flow.
func (m *ActionController) VerifyPayment(ctx context.Context, approve bool) error {
	if m.kind != ModalPayment {
		return ErrWrongModalKind
	}

	successTitle := "Payment approved"
	successLevel := notify.LevelSuccess
	if !approve {
		successTitle = "Payment rejected"
		successLevel = notify.LevelWarning
	}

	return m.submit(ctx, submission{
		action:       review.ActionPayment,
		decision:     admission.PaymentVerificationOf(approve).String(),
		successTitle: successTitle,
		successLevel: successLevel,
		failureTitle: "Failed to process payment",
		call: func(ctx context.Context, row Row, _ string) error {
			return m.opts.API.SetPaymentVerification(ctx, row.ID, approve)
		},
	})
}

type submission struct {
	action       review.Action
	decision     string
	successTitle string
	successLevel notify.Level
	failureTitle string
	check        func(row Row) error
	call         func(ctx context.Context, row Row, notes string) error
}

func (m *ActionController) submit(ctx context.Context, s submission) error {
	m.mu.Lock()
	if m.state != ModalOpen {
		m.mu.Unlock()
		return ErrModalClosed
	}
	if m.submitting {
		m.mu.Unlock()
		return ErrSubmissionInFlight
	}
	if s.check != nil {
		if err := s.check(m.row); err != nil {
			m.mu.Unlock()
			return err
		}
	}
	m.submitting = true
	row, notes := m.row, m.notes
	m.mu.Unlock()

	// The mutation is not abandoned when the requesting client goes away;
	// only the timeout ends it.
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.opts.Timeout)
	defer cancel()

	err := m.await(callCtx, func(ctx context.Context) error { return s.call(ctx, row, notes) })
	err = mapDeadline(string(s.action), err)

	m.mu.Lock()
	m.submitting = false
	if err == nil {
		m.state = ModalClosed
		m.notes = ""
		m.lastErr = ""
	} else {
		m.lastErr = backend.MessageOf(err, genericFailure)
	}
	lastErr := m.lastErr
	m.mu.Unlock()

	entry := ReviewEntry{
		SessionID:     m.opts.SessionID,
		AdminEmail:    m.opts.AdminEmail,
		ApplicationID: row.ID,
		Action:        s.action,
		Decision:      s.decision,
		Notes:         notes,
		Outcome:       review.OutcomeSuccess,
		Details: map[string]any{
			"status_before":  string(row.Application.Status),
			"payment_before": row.PaymentVerificationStatus.String(),
		},
	}
	if s.action == review.ActionPayment {
		entry.Notes = ""
	}

	if err != nil {
		metrics.RecordSubmission(string(m.kind), backend.KindOf(err))
		m.log.Warn().Err(err).Uint("application_id", row.ID).Str("decision", s.decision).Msg("Submission failed")
		entry.Outcome = review.OutcomeFailure
		entry.Message = lastErr
		entry.Details["error_kind"] = backend.KindOf(err)
		m.record(ctx, entry)
		m.notify(notify.LevelError, s.failureTitle, lastErr)
		return err
	}

	metrics.RecordSubmission(string(m.kind), "success")
	m.log.Info().Uint("application_id", row.ID).Str("decision", s.decision).Msg("Submission accepted")
	m.record(ctx, entry)
	m.notify(s.successLevel, s.successTitle, "")
	if m.opts.OnSuccess != nil {
		m.opts.OnSuccess(context.WithoutCancel(ctx))
	}
	return nil
}

// await runs call and gives up at the context deadline even if call does
// not honour ctx.
func (m *ActionController) await(ctx context.Context, call func(ctx context.Context) error) error {
	done := make(chan error, 1)
	go func() { done <- call(ctx) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *ActionController) record(ctx context.Context, entry ReviewEntry) {
	if m.opts.Recorder != nil {
		m.opts.Recorder.Record(ctx, entry)
	}
}

func (m *ActionController) notify(level notify.Level, title, description string) {
	if m.opts.Notifier != nil {
		m.opts.Notifier.Notify(level, title, description)
	}
}
