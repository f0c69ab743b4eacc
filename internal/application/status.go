package application

import "github.com/linskybing/admission-portal/internal/domain/admission"

// Tone is the colour family a label is rendered with.
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneDanger  Tone = "danger"
	TonePrimary Tone = "primary"
	ToneWarning Tone = "warning"
)

type StatusLabel struct {
	Label string `json:"label"`
	Tone  Tone   `json:"tone"`
}

var (
	labelVerified        = StatusLabel{Label: "Verified", Tone: ToneSuccess}
	labelRejected        = StatusLabel{Label: "Rejected", Tone: ToneDanger}
	labelPaid            = StatusLabel{Label: "Paid / Approved", Tone: TonePrimary}
	labelPending         = StatusLabel{Label: "Pending", Tone: ToneWarning}
	labelPaymentPaid     = StatusLabel{Label: "Paid", Tone: ToneSuccess}
	labelPaymentAwaiting = StatusLabel{Label: "Awaiting verification", Tone: ToneWarning}
)

// DisplayStatus derives the list status: Verified, then Rejected, then
// Paid, otherwise Pending.
func DisplayStatus(app admission.Application) StatusLabel {
	switch {
	case app.Status == admission.StatusVerified:
		return labelVerified
	case app.Status == admission.StatusRejected:
		return labelRejected
	case app.PaymentStatus:
		return labelPaid
	default:
		return labelPending
	}
}

func PaymentStatusLabel(app admission.Application) StatusLabel {
	if app.PaymentStatus {
		return labelPaymentPaid
	}
	return labelPending
}

// PaymentVerificationLabel reflects only the payment tri-state.
func PaymentVerificationLabel(app admission.Application) StatusLabel {
	switch app.PaymentVerificationStatus {
	case admission.PaymentApproved:
		return labelVerified
	case admission.PaymentRejected:
		return labelRejected
	default:
		return labelPaymentAwaiting
	}
}

// InPaymentQueue admits verified applications and any application with an
// uploaded proof.
func InPaymentQueue(app admission.Application) bool {
	return app.Status == admission.StatusVerified || app.HasPaymentProof()
}

// Reviewable reports whether review actions are still offered.
func Reviewable(app admission.Application) bool {
	return app.Status == admission.StatusSubmitted
}
