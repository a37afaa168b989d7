package background

import (
	"context"
	"log"
	"sync"
	"time"

	"tradedesk/internal/models"
	"tradedesk/internal/repositories"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler manages the recurring maintenance jobs: sweeping stale draft
// orders and flagging overdue invoices.
type JobScheduler struct {
	scheduler   gocron.Scheduler
	orderRepo   repositories.PurchaseOrderRepository
	invoiceRepo repositories.InvoiceRepository
	tenantRepo  repositories.TenantRepository
	draftMaxAge time.Duration
	jobs        map[string]gocron.Job
	mu          sync.RWMutex
}

func NewJobScheduler(orderRepo repositories.PurchaseOrderRepository,
	invoiceRepo repositories.InvoiceRepository, tenantRepo repositories.TenantRepository,
	draftMaxAge time.Duration) *JobScheduler {

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:   scheduler,
		orderRepo:   orderRepo,
		invoiceRepo: invoiceRepo,
		tenantRepo:  tenantRepo,
		draftMaxAge: draftMaxAge,
		jobs:        make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	staleDraftJob, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.sweepStaleDrafts, context.Background()),
		gocron.WithName("stale-draft-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create stale draft job: %v", err)
	} else {
		js.jobs["stale-drafts"] = staleDraftJob
	}

	overdueJob, err := js.scheduler.NewJob(
		gocron.DurationJob(6*time.Hour),
		gocron.NewTask(js.flagOverdueInvoices, context.Background()),
		gocron.WithName("overdue-invoice-flagging"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create overdue invoice job: %v", err)
	} else {
		js.jobs["overdue-invoices"] = overdueJob
	}

	log.Printf("Registered %d background jobs", len(js.jobs))
}

// sweepStaleDrafts cancels draft orders that have been idle past the
// configured age. Cancelling rather than deleting keeps the order number
// and its sample lines in the audit trail.
func (js *JobScheduler) sweepStaleDrafts(ctx context.Context) {
	tenants, err := js.tenantRepo.List(ctx, 1000, 0)
	if err != nil {
		log.Printf("stale draft sweep: failed to list tenants: %v", err)
		return
	}

	cutoff := time.Now().UTC().Add(-js.draftMaxAge)
	swept := 0
	for _, tenant := range tenants {
		drafts, err := js.orderRepo.ListDraftsOlderThan(ctx, tenant.ID, cutoff)
		if err != nil {
			log.Printf("stale draft sweep: tenant %s: %v", tenant.ID, err)
			continue
		}
		for _, draft := range drafts {
			if err := js.orderRepo.UpdateStatus(ctx, tenant.ID, draft.ID, models.OrderStatusCancelled, nil); err != nil {
				log.Printf("stale draft sweep: failed to cancel order %s: %v", draft.OrderNumber, err)
				continue
			}
			swept++
		}
	}
	if swept > 0 {
		log.Printf("stale draft sweep: cancelled %d draft order(s)", swept)
	}
}

// flagOverdueInvoices marks unpaid invoices past their due date as overdue.
func (js *JobScheduler) flagOverdueInvoices(ctx context.Context) {
	tenants, err := js.tenantRepo.List(ctx, 1000, 0)
	if err != nil {
		log.Printf("overdue invoice flagging: failed to list tenants: %v", err)
		return
	}

	now := time.Now().UTC()
	flagged := 0
	for _, tenant := range tenants {
		invoices, err := js.invoiceRepo.ListUnpaid(ctx, tenant.ID, 1000, 0)
		if err != nil {
			log.Printf("overdue invoice flagging: tenant %s: %v", tenant.ID, err)
			continue
		}
		for _, invoice := range invoices {
			if invoice.Status != models.InvoiceStatusUnpaid || invoice.DueDate == nil || invoice.DueDate.After(now) {
				continue
			}
			if err := js.invoiceRepo.UpdateStatus(ctx, tenant.ID, invoice.ID, models.InvoiceStatusOverdue); err != nil {
				log.Printf("overdue invoice flagging: failed to flag invoice %s: %v", invoice.InvoiceNumber, err)
				continue
			}
			flagged++
		}
	}
	if flagged > 0 {
		log.Printf("overdue invoice flagging: flagged %d invoice(s)", flagged)
	}
}
