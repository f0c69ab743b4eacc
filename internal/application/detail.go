package application

import (
	"context"
	"strings"

	"github.com/linskybing/admission-portal/internal/domain/admission"
	"github.com/linskybing/admission-portal/internal/logger"
	"github.com/linskybing/admission-portal/internal/storage"
)

const paymentProofKind admission.DocumentKind = "payment_proof"

type DocumentLink struct {
	Kind    admission.DocumentKind `json:"kind"`
	Label   string                 `json:"label"`
	Present bool                   `json:"present"`
	URL     string                 `json:"url,omitempty"`
}

// RowDetail is everything the review and payment modals show.
type RowDetail struct {
	Row                 Row            `json:"row"`
	Documents           []DocumentLink `json:"documents"`
	PaymentProof        DocumentLink   `json:"payment_proof"`
	PaymentStatus       StatusLabel    `json:"payment_status_label"`
	PaymentVerification StatusLabel    `json:"payment_verification_label"`
	Reviewable          bool           `json:"reviewable"`
}

// BuildDetail resolves every document slot of row through linker. A slot
// whose link cannot be built stays present without a URL.
func BuildDetail(ctx context.Context, row Row, linker storage.Linker) RowDetail {
	detail := RowDetail{
		Row:                 row,
		Documents:           make([]DocumentLink, 0, len(admission.DocumentSlots)),
		PaymentStatus:       PaymentStatusLabel(row.Application),
		PaymentVerification: PaymentVerificationLabel(row.Application),
		Reviewable:          Reviewable(row.Application),
	}
	for _, slot := range admission.DocumentSlots {
		detail.Documents = append(detail.Documents, resolveLink(ctx, linker, slot.Kind, slot.Label, row.DocumentRef(slot.Kind)))
	}
	detail.PaymentProof = resolveLink(ctx, linker, paymentProofKind, "Payment proof", row.PaymentProofURL)
	return detail
}

func resolveLink(ctx context.Context, linker storage.Linker, kind admission.DocumentKind, label, ref string) DocumentLink {
	link := DocumentLink{Kind: kind, Label: label, Present: strings.TrimSpace(ref) != ""}
	if !link.Present || linker == nil {
		return link
	}
	u, err := linker.Link(ctx, ref)
	if err != nil {
		log := logger.With("documents")
		log.Warn().Err(err).Str("kind", string(kind)).Msg("Failed to build document link")
		return link
	}
	link.URL = u
	return link
}
