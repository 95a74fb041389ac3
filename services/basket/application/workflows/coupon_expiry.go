// Package workflows holds the basket context's Temporal workflows. The
// shared Temporal client plumbing lives in pkg/workflows; this package owns
// the domain-specific workflow and activity code.
package workflows

import (
	"context"
	"time"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	appsvcs "github.com/ghuser/basketctx/services/basket/application/services"
)

const (
	// CouponExpiryTaskQueue is the Temporal task queue the worker polls.
	CouponExpiryTaskQueue = "basketctx-coupon-expiry"

	// couponExpiryWorkflowID keeps the cron schedule a singleton.
	couponExpiryWorkflowID = "coupon-expiry-sweep"

	// couponExpiryCron runs the sweep every 15 minutes.
	couponExpiryCron = "*/15 * * * *"

	couponExpiryBatchSize = 100
)

// CouponExpiryActivities wraps the coupon service for Temporal execution.
type CouponExpiryActivities struct {
	svc *appsvcs.CouponService
}

// NewCouponExpiryActivities returns the activity set for the expiry sweep.
func NewCouponExpiryActivities(svc *appsvcs.CouponService) *CouponExpiryActivities {
	return &CouponExpiryActivities{svc: svc}
}

// DeactivateExpiredCoupons deactivates up to batchSize coupons whose
// validity period has lapsed and returns the count handled.
func (a *CouponExpiryActivities) DeactivateExpiredCoupons(ctx context.Context, batchSize int) (int, error) {
	return a.svc.DeactivateExpired(ctx, batchSize)
}

// CouponExpiryWorkflow sweeps expired-but-active coupons in batches until a
// sweep comes back empty. Each CouponDeactivated event it causes is
// published on the bus by the dispatch table.
func CouponExpiryWorkflow(ctx workflow.Context) error {
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval: time.Second,
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)
	log := workflow.GetLogger(ctx)

	total := 0
	for {
		var deactivated int
		if err := workflow.ExecuteActivity(ctx, "DeactivateExpiredCoupons", couponExpiryBatchSize).Get(ctx, &deactivated); err != nil {
			return err
		}
		total += deactivated
		if deactivated < couponExpiryBatchSize {
			break
		}
	}

	if total > 0 {
		log.Info("coupon expiry sweep complete", "deactivated", total)
	}
	return nil
}

// RegisterCouponExpiry registers the workflow and its activities on a
// Temporal worker polling CouponExpiryTaskQueue.
func RegisterCouponExpiry(w worker.Worker, acts *CouponExpiryActivities) {
	w.RegisterWorkflow(CouponExpiryWorkflow)
	w.RegisterActivity(acts.DeactivateExpiredCoupons)
}

// StartCouponExpirySchedule starts the cron workflow. Starting an already
// running schedule returns an AlreadyStarted error, which callers may treat
// as success.
func StartCouponExpirySchedule(ctx context.Context, c client.Client) error {
	_, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:           couponExpiryWorkflowID,
		TaskQueue:    CouponExpiryTaskQueue,
		CronSchedule: couponExpiryCron,
	}, CouponExpiryWorkflow)
	return err
}
