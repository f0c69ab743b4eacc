package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/admission-portal/internal/api/middleware"
	"github.com/linskybing/admission-portal/internal/application"
	"github.com/linskybing/admission-portal/internal/domain/admission"
	"github.com/linskybing/admission-portal/internal/storage"
	"github.com/linskybing/admission-portal/pkg/response"
	"github.com/linskybing/admission-portal/pkg/utils"
)

// ListHandler serves one listing and the modals opened from it. The
// verification list opens review modals, the payment queue payment modals.
type ListHandler struct {
	kind       application.ModalKind
	workspaces *application.Workspaces
	documents  storage.Linker
}

func NewListHandler(kind application.ModalKind, workspaces *application.Workspaces, documents storage.Linker) *ListHandler {
	return &ListHandler{kind: kind, workspaces: workspaces, documents: documents}
}

type modalResponse struct {
	Modal  application.ModalSnapshot `json:"modal"`
	Detail *application.RowDetail    `json:"detail,omitempty"`
}

func (h *ListHandler) workspace(c *gin.Context) (*application.Workspace, bool) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "token expired", Code: response.CodeSessionExpired})
		return nil, false
	}
	return h.workspaces.Get(claims.SessionID, middleware.AdminFromClaims(claims)), true
}

func (h *ListHandler) list(c *gin.Context) (*application.Workspace, *application.ListController, bool) {
	ws, ok := h.workspace(c)
	if !ok {
		return nil, nil, false
	}
	return ws, ws.List(h.kind), true
}

func parseApplicationID(c *gin.Context) (uint, bool) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid application id"})
		return 0, false
	}
	return id, true
}

// Refresh godoc
// @Summary Load the listing
// @Description Starts a fetch cycle, or joins the one already running, and returns the resulting snapshot. A failed fetch keeps the previous rows and reports the error in the snapshot.
// @Tags listings
// @Security BearerAuth
// @Produce json
// @Success 200 {object} application.ListSnapshot
// @Failure 401 {object} response.ErrorResponse "Session expired"
// @Router /verifications [get]
// @Router /payments [get]
// @Router /verifications/refresh [post]
// @Router /payments/refresh [post]
func (h *ListHandler) Refresh(c *gin.Context) {
	_, list, ok := h.list(c)
	if !ok {
		return
	}
	snap, err := list.Refresh(c.Request.Context())
	if err != nil && application.IsSessionGone(err) {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Snapshot godoc
// @Summary Current listing state
// @Description Returns the listing without fetching.
// @Tags listings
// @Security BearerAuth
// @Produce json
// @Success 200 {object} application.ListSnapshot
// @Router /verifications/snapshot [get]
// @Router /payments/snapshot [get]
func (h *ListHandler) Snapshot(c *gin.Context) {
	_, list, ok := h.list(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, list.Snapshot())
}

// Detail godoc
// @Summary Application detail
// @Description Row from the last loaded listing with document links.
// @Tags listings
// @Security BearerAuth
// @Produce json
// @Param id path int true "Application ID"
// @Success 200 {object} application.RowDetail
// @Failure 404 {object} response.ErrorResponse "Not in the current list"
// @Router /verifications/{id} [get]
// @Router /payments/{id} [get]
func (h *ListHandler) Detail(c *gin.Context) {
	id, ok := parseApplicationID(c)
	if !ok {
		return
	}
	_, list, ok := h.list(c)
	if !ok {
		return
	}
	row, found := list.Find(id)
	if !found {
		respondError(c, application.ErrApplicationNotFound)
		return
	}
	c.JSON(http.StatusOK, application.BuildDetail(c.Request.Context(), row, h.documents))
}

// OpenModal godoc
// @Summary Open the action modal
// @Description Opens the review or payment modal for an application in the current list. Reopening keeps the notes typed so far.
// @Tags modals
// @Security BearerAuth
// @Produce json
// @Param id path int true "Application ID"
// @Success 200 {object} modalResponse
// @Failure 404 {object} response.ErrorResponse "Not in the current list"
// @Failure 409 {object} response.ErrorResponse "Submission in progress"
// @Router /verifications/{id}/modal [post]
// @Router /payments/{id}/modal [post]
func (h *ListHandler) OpenModal(c *gin.Context) {
	id, ok := parseApplicationID(c)
	if !ok {
		return
	}
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	modal, err := ws.OpenModal(h.kind, id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.writeModal(c, modal.Snapshot())
}

// GetModal godoc
// @Summary Modal state
// @Tags modals
// @Security BearerAuth
// @Produce json
// @Param id path int true "Application ID"
// @Success 200 {object} modalResponse
// @Router /verifications/{id}/modal [get]
// @Router /payments/{id}/modal [get]
func (h *ListHandler) GetModal(c *gin.Context) {
	id, ok := parseApplicationID(c)
	if !ok {
		return
	}
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	modal, found := ws.Modal(h.kind, id)
	if !found {
		h.writeModal(c, application.ModalSnapshot{Kind: h.kind, State: application.ModalClosed, ApplicationID: id})
		return
	}
	h.writeModal(c, modal.Snapshot())
}

// CloseModal godoc
// @Summary Close the modal
// @Description Discards typed notes. Refused while a submission is running.
// @Tags modals
// @Security BearerAuth
// @Produce json
// @Param id path int true "Application ID"
// @Success 200 {object} response.MessageResponse
// @Failure 409 {object} response.ErrorResponse "Submission in progress"
// @Router /verifications/{id}/modal [delete]
// @Router /payments/{id}/modal [delete]
func (h *ListHandler) CloseModal(c *gin.Context) {
	id, ok := parseApplicationID(c)
	if !ok {
		return
	}
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	if err := ws.CloseModal(h.kind, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "Modal closed"})
}

// UpdateNotes godoc
// @Summary Edit modal notes
// @Description Local edit only, nothing is sent to the backend until confirm.
// @Tags modals
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Application ID"
// @Param input body admission.UpdateNotesDTO true "Notes"
// @Success 200 {object} modalResponse
// @Failure 409 {object} response.ErrorResponse "Modal closed or submission in progress"
// @Router /verifications/{id}/modal/notes [put]
// @Router /payments/{id}/modal/notes [put]
func (h *ListHandler) UpdateNotes(c *gin.Context) {
	id, ok := parseApplicationID(c)
	if !ok {
		return
	}
	var input admission.UpdateNotesDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: bindError(err)})
		return
	}
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	modal, found := ws.Modal(h.kind, id)
	if !found {
		respondError(c, application.ErrModalClosed)
		return
	}
	if err := modal.SetNotes(input.Notes); err != nil {
		respondError(c, err)
		return
	}
	h.writeModal(c, modal.Snapshot())
}

// Confirm godoc
// @Summary Confirm the modal decision
// @Description Review modals take {"decision": "VERIFIED"|"REJECTED"}, payment modals {"approve": true|false}. On failure the modal stays open with its notes.
// @Tags modals
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Application ID"
// @Success 200 {object} application.ListSnapshot "Listing after the follow-up refresh"
// @Failure 409 {object} response.ErrorResponse "Submission in progress or already reviewed"
// @Failure 502 {object} response.ErrorResponse "Backend rejected the change"
// @Failure 504 {object} response.ErrorResponse "Backend timed out"
// @Router /verifications/{id}/modal/confirm [post]
// @Router /payments/{id}/modal/confirm [post]
func (h *ListHandler) Confirm(c *gin.Context) {
	id, ok := parseApplicationID(c)
	if !ok {
		return
	}

	var (
		decision admission.ApplicationStatus
		approve  bool
	)
	if h.kind == application.ModalReview {
		var input admission.ReviewDecisionDTO
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: bindError(err)})
			return
		}
		decision = input.Decision
	} else {
		var input admission.PaymentDecisionDTO
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: bindError(err)})
			return
		}
		approve = *input.Approve
	}

	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	modal, found := ws.Modal(h.kind, id)
	if !found {
		respondError(c, application.ErrModalClosed)
		return
	}

	var err error
	if h.kind == application.ModalReview {
		err = modal.Review(c.Request.Context(), decision)
	} else {
		err = modal.VerifyPayment(c.Request.Context(), approve)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	_ = ws.CloseModal(h.kind, id)
	c.JSON(http.StatusOK, ws.List(h.kind).Snapshot())
}

func (h *ListHandler) writeModal(c *gin.Context, snap application.ModalSnapshot) {
	resp := modalResponse{Modal: snap}
	if snap.Row != nil {
		detail := application.BuildDetail(c.Request.Context(), *snap.Row, h.documents)
		resp.Detail = &detail
	}
	c.JSON(http.StatusOK, resp)
}
