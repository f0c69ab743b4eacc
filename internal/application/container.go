package application

import (
	"github.com/linskybing/admission-portal/internal/config"
	"github.com/linskybing/admission-portal/internal/notify"
	"github.com/linskybing/admission-portal/internal/repository"
	"github.com/linskybing/admission-portal/internal/session"
	"github.com/linskybing/admission-portal/internal/storage"
	"github.com/linskybing/admission-portal/pkg/backend"
)

type Services struct {
	Auth          *AuthService
	Review        *ReviewService
	Workspaces    *Workspaces
	Notifications *notify.Hub
	Documents     storage.Linker
}

// Deps are the collaborators built at start-up.
type Deps struct {
	Store   session.Store
	Backend *backend.Client
	// NewAPI overrides the per-session client, for tests.
	NewAPI    func(creds backend.CredentialSource) backend.API
	LoginAPI  backend.API
	Hub       *notify.Hub
	Documents storage.Linker
}

func New(repos *repository.Repos, deps Deps) *Services {
	hub := deps.Hub
	if hub == nil {
		hub = notify.NewHub(config.NotificationBuffer)
	}
	newAPI := deps.NewAPI
	if newAPI == nil {
		newAPI = func(creds backend.CredentialSource) backend.API {
			return deps.Backend.WithCredentials(creds)
		}
	}
	loginAPI := deps.LoginAPI
	if loginAPI == nil && deps.Backend != nil {
		loginAPI = deps.Backend
	}
	documents := deps.Documents
	if documents == nil {
		documents = storage.PassthroughLinker{BaseURL: config.BackendURL}
	}

	reviews := NewReviewService(repos)
	workspaces := NewWorkspaces(WorkspaceConfig{
		Store:                deps.Store,
		NewAPI:               newAPI,
		Hub:                  hub,
		Recorder:             reviews,
		ApplicationsPageSize: config.ApplicationsPageSize,
		PaymentQueuePageSize: config.PaymentQueuePageSize,
		Timeout:              config.ActionTimeout,
	})

	return &Services{
		Auth:          NewAuthService(loginAPI, deps.Store, workspaces, hub, config.SessionTTL),
		Review:        reviews,
		Workspaces:    workspaces,
		Notifications: hub,
		Documents:     documents,
	}
}
