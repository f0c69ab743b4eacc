package application

import (
	"context"

	"github.com/linskybing/admission-portal/internal/domain/admission"
	"github.com/linskybing/admission-portal/pkg/backend"
	"golang.org/x/sync/errgroup"
)

// List names.
const (
	ListVerifications = "verifications"
	ListPayments      = "payments"
)

// VerificationSource fetches the first page of applications and all
// applicants concurrently and joins them.
func VerificationSource(api backend.API, pageSize int) Fetcher {
	return func(ctx context.Context) ([]Row, error) {
		var (
			apps       []admission.Application
			applicants []admission.Applicant
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			apps, err = api.ListApplications(gctx, pageSize, 0)
			return err
		})
		g.Go(func() error {
			var err error
			applicants, err = api.ListApplicants(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return Reconcile(apps, applicants), nil
	}
}

// PaymentQueueSource fetches one page of applications and keeps those in
// the payment queue. Applicants are not joined, so names come from the
// application and guardian fields.
func PaymentQueueSource(api backend.API, pageSize int) Fetcher {
	return func(ctx context.Context) ([]Row, error) {
		apps, err := api.ListApplications(ctx, pageSize, 0)
		if err != nil {
			return nil, err
		}
		queue := make([]admission.Application, 0, len(apps))
		for _, app := range apps {
			if InPaymentQueue(app) {
				queue = append(queue, app)
			}
		}
		return Reconcile(queue, nil), nil
	}
}
