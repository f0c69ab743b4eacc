package application

import (
	"testing"

	"github.com/linskybing/admission-portal/internal/domain/admission"
	"github.com/stretchr/testify/assert"
)

func TestDisplayStatus_Precedence(t *testing.T) {
	tests := []struct {
		name string
		app  admission.Application
		want string
		tone Tone
	}{
		{"verified beats paid", admission.Application{Status: admission.StatusVerified, PaymentStatus: true}, "Verified", ToneSuccess},
		{"rejected beats paid", admission.Application{Status: admission.StatusRejected, PaymentStatus: true}, "Rejected", ToneDanger},
		{"paid", admission.Application{Status: admission.StatusSubmitted, PaymentStatus: true}, "Paid / Approved", TonePrimary},
		{"pending", admission.Application{Status: admission.StatusSubmitted}, "Pending", ToneWarning},
		{"unknown status", admission.Application{Status: "DRAFT"}, "Pending", ToneWarning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DisplayStatus(tt.app)
			assert.Equal(t, tt.want, got.Label)
			assert.Equal(t, tt.tone, got.Tone)
		})
	}
}

func TestInPaymentQueue_IsOr(t *testing.T) {
	assert.False(t, InPaymentQueue(admission.Application{Status: admission.StatusSubmitted}))
	assert.True(t, InPaymentQueue(admission.Application{Status: admission.StatusVerified}))
	assert.True(t, InPaymentQueue(admission.Application{Status: admission.StatusSubmitted, PaymentProofURL: "x.jpg"}))
	assert.True(t, InPaymentQueue(admission.Application{Status: admission.StatusRejected, PaymentProofURL: "x.jpg"}))
	assert.False(t, InPaymentQueue(admission.Application{Status: admission.StatusRejected}))
}

func TestPaymentLabels(t *testing.T) {
	assert.Equal(t, "Paid", PaymentStatusLabel(admission.Application{PaymentStatus: true}).Label)
	assert.Equal(t, "Pending", PaymentStatusLabel(admission.Application{}).Label)

	assert.Equal(t, "Verified", PaymentVerificationLabel(admission.Application{PaymentVerificationStatus: admission.PaymentApproved}).Label)
	assert.Equal(t, "Rejected", PaymentVerificationLabel(admission.Application{PaymentVerificationStatus: admission.PaymentRejected}).Label)
	assert.Equal(t, "Awaiting verification", PaymentVerificationLabel(admission.Application{}).Label)
}

func TestPaymentVerification_IndependentOfStatus(t *testing.T) {
	app := admission.Application{Status: admission.StatusRejected, PaymentVerificationStatus: admission.PaymentUnverified}
	assert.Equal(t, "Rejected", DisplayStatus(app).Label)
	assert.Equal(t, "Awaiting verification", PaymentVerificationLabel(app).Label)
}

func TestReviewable(t *testing.T) {
	assert.True(t, Reviewable(admission.Application{Status: admission.StatusSubmitted}))
	assert.False(t, Reviewable(admission.Application{Status: admission.StatusVerified}))
	assert.False(t, Reviewable(admission.Application{Status: admission.StatusRejected}))
}
