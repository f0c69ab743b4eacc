package application

import (
	"context"
	"sync"
	"time"

	"github.com/linskybing/admission-portal/internal/domain/admission"
	"github.com/linskybing/admission-portal/internal/notify"
	"github.com/linskybing/admission-portal/internal/session"
	"github.com/linskybing/admission-portal/pkg/backend"
	"github.com/linskybing/admission-portal/pkg/metrics"
)

type modalKey struct {
	kind ModalKind
	id   uint
}

// Workspace is the server-side state of one admin session: the two
// listings and the modals opened from them.
type Workspace struct {
	SessionID     string
	Admin         admission.AdminProfile
	Verifications *ListController
	Payments      *ListController
	Accessor      *session.Accessor

	api      backend.API
	notifier notify.Notifier
	recorder ReviewRecorder
	timeout  time.Duration

	mu     sync.Mutex
	modals map[modalKey]*ActionController
}

// List returns the listing a modal kind is opened from.
func (w *Workspace) List(kind ModalKind) *ListController {
	if kind == ModalPayment {
		return w.Payments
	}
	return w.Verifications
}

// OpenModal opens, or returns the already open, modal for an application in
// the corresponding list.
func (w *Workspace) OpenModal(kind ModalKind, applicationID uint) (*ActionController, error) {
	row, ok := w.List(kind).Find(applicationID)
	if !ok {
		return nil, ErrApplicationNotFound
	}

	w.mu.Lock()
	key := modalKey{kind: kind, id: applicationID}
	ctrl, ok := w.modals[key]
	if !ok {
		list := w.List(kind)
		ctrl = NewActionController(kind, ActionOptions{
			API:        w.api,
			Notifier:   w.notifier,
			Recorder:   w.recorder,
			Timeout:    w.timeout,
			SessionID:  w.SessionID,
			AdminEmail: w.Admin.Email,
			OnSuccess: func(ctx context.Context) {
				_, _ = list.Refresh(ctx)
			},
		})
		w.modals[key] = ctrl
	}
	w.mu.Unlock()

	if err := ctrl.Open(row); err != nil {
		return ctrl, err
	}
	return ctrl, nil
}

func (w *Workspace) Modal(kind ModalKind, applicationID uint) (*ActionController, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	ctrl, ok := w.modals[modalKey{kind: kind, id: applicationID}]
	return ctrl, ok
}

// CloseModal closes and forgets a modal. Closing an unknown modal is a no-op.
func (w *Workspace) CloseModal(kind ModalKind, applicationID uint) error {
	key := modalKey{kind: kind, id: applicationID}
	w.mu.Lock()
	ctrl, ok := w.modals[key]
	w.mu.Unlock()
	if !ok {
		return nil
	}
	if err := ctrl.Close(); err != nil {
		return err
	}
	w.mu.Lock()
	if w.modals[key] == ctrl {
		delete(w.modals, key)
	}
	w.mu.Unlock()
	return nil
}

type WorkspaceConfig struct {
	Store session.Store
	// NewAPI builds a backend client authorized by creds.
	NewAPI               func(creds backend.CredentialSource) backend.API
	Hub                  *notify.Hub
	Recorder             ReviewRecorder
	ApplicationsPageSize int
	PaymentQueuePageSize int
	Timeout              time.Duration
}

// Workspaces holds one Workspace per session, created on first use.
type Workspaces struct {
	cfg WorkspaceConfig

	mu    sync.Mutex
	items map[string]*Workspace
}

func NewWorkspaces(cfg WorkspaceConfig) *Workspaces {
	if cfg.Hub == nil {
		cfg.Hub = notify.NewHub(0)
	}
	return &Workspaces{cfg: cfg, items: make(map[string]*Workspace)}
}

func (r *Workspaces) Get(sessionID string, admin admission.AdminProfile) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ws, ok := r.items[sessionID]; ok {
		return ws
	}

	accessor := session.NewAccessor(r.cfg.Store, sessionID)
	api := r.cfg.NewAPI(accessor)
	notifier := r.cfg.Hub.ForSession(sessionID)
	listOpts := ListOptions{Timeout: r.cfg.Timeout, Notifier: notifier}

	ws := &Workspace{
		SessionID:     sessionID,
		Admin:         admin,
		Verifications: NewListController(ListVerifications, VerificationSource(api, r.cfg.ApplicationsPageSize), listOpts),
		Payments:      NewListController(ListPayments, PaymentQueueSource(api, r.cfg.PaymentQueuePageSize), listOpts),
		Accessor:      accessor,
		api:           api,
		notifier:      notifier,
		recorder:      r.cfg.Recorder,
		timeout:       r.cfg.Timeout,
		modals:        make(map[modalKey]*ActionController),
	}
	r.items[sessionID] = ws
	metrics.SetActiveWorkspaces(len(r.items))
	return ws
}

func (r *Workspaces) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, sessionID)
	metrics.SetActiveWorkspaces(len(r.items))
}

// PruneExpired drops the workspaces, and their notification buffers, of
// sessions whose credential is gone or expired. Store failures keep the
// workspace for the next sweep.
func (r *Workspaces) PruneExpired(ctx context.Context) int {
	r.mu.Lock()
	candidates := make(map[string]*Workspace, len(r.items))
	for id, ws := range r.items {
		candidates[id] = ws
	}
	r.mu.Unlock()

	pruned := 0
	for id, ws := range candidates {
		if _, err := ws.Accessor.Token(ctx); !session.IsMissing(err) {
			continue
		}
		r.mu.Lock()
		if r.items[id] == ws {
			delete(r.items, id)
			pruned++
		}
		metrics.SetActiveWorkspaces(len(r.items))
		r.mu.Unlock()
		r.cfg.Hub.Forget(id)
	}
	return pruned
}

func (r *Workspaces) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
