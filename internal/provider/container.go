package provider

import (
	"github.com/brightpods/admin-api/internal/cache"
	"github.com/brightpods/admin-api/internal/config"
	"github.com/brightpods/admin-api/internal/logger"
	"github.com/brightpods/admin-api/internal/models"
	"github.com/brightpods/admin-api/internal/repository"
	"github.com/brightpods/admin-api/internal/service"
)

// Container wires repositories and services once per process.
type Container struct {
	Config *config.Config

	// Repositories
	FamilyRepo       repository.FamilyRepository
	EnrollmentRepo   repository.EnrollmentRepository
	OnboardingRepo   repository.OnboardingRepository
	LeadRepo         repository.LeadRepository
	InvoiceRepo      repository.InvoiceRepository
	PaymentRepo      repository.PaymentRepository
	EventOrderRepo   repository.EventOrderRepository
	WebhookEventRepo repository.WebhookEventRepository

	// Services
	LedgerService        *service.LedgerService
	SettlementService    *service.SettlementService
	WebhookService       *service.WebhookService
	LeadService          *service.LeadService
	OnboardingService    *service.OnboardingService
	ReconcileService     *service.ReconcileService
	LeadMigrationService *service.LeadMigrationService
}

// NewContainer initializes the container.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	c := &Container{Config: cfg}
	c.initRepositories()
	c.initServices()
	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.FamilyRepo = repository.NewFamilyRepository(db)
	c.EnrollmentRepo = repository.NewEnrollmentRepository(db)
	c.OnboardingRepo = repository.NewOnboardingRepository(db)
	c.LeadRepo = repository.NewLeadRepository(db)
	c.InvoiceRepo = repository.NewInvoiceRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
	c.EventOrderRepo = repository.NewEventOrderRepository(db)
	c.WebhookEventRepo = repository.NewWebhookEventRepository(db)
}

func (c *Container) initServices() {
	c.LedgerService = service.NewLedgerService(c.WebhookEventRepo)
	c.SettlementService = service.NewSettlementService(c.InvoiceRepo, c.PaymentRepo, c.EventOrderRepo)
	c.WebhookService = service.NewWebhookService(c.Config.Stripe, c.LedgerService, c.SettlementService)
	c.LeadService = service.NewLeadService(c.FamilyRepo, c.LeadRepo, c.EnrollmentRepo)
	c.OnboardingService = service.NewOnboardingService(c.EnrollmentRepo, c.OnboardingRepo, c.Config.Automation)
	c.ReconcileService = service.NewReconcileService(c.EnrollmentRepo)
	c.LeadMigrationService = service.NewLeadMigrationService(c.FamilyRepo, c.LeadRepo)
}
