package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/linskybing/admission-portal/internal/application"
)

type Handlers struct {
	Auth         *AuthHandler
	Verification *ListHandler
	Payment      *ListHandler
	Notification *NotificationHandler
	Audit        *AuditHandler
	Router       *gin.Engine
}

func New(svc *application.Services, router *gin.Engine) *Handlers {
	h := &Handlers{
		Auth:         NewAuthHandler(svc.Auth),
		Verification: NewListHandler(application.ModalReview, svc.Workspaces, svc.Documents),
		Payment:      NewListHandler(application.ModalPayment, svc.Workspaces, svc.Documents),
		Notification: NewNotificationHandler(svc.Notifications),
		Audit:        NewAuditHandler(svc.Review),
		Router:       router,
	}
	return h
}
