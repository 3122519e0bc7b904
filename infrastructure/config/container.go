package config

import (
	"crewdispatch/application/usecases"
	"crewdispatch/domain/entities"
	"crewdispatch/domain/interfaces"
	"crewdispatch/infrastructure/logger"
	"crewdispatch/infrastructure/metrics"
	"crewdispatch/infrastructure/notifier"
	"crewdispatch/infrastructure/repository"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Container represents the dependency injection container
type Container struct {
	Config *Config

	// Infrastructure
	Logger   interfaces.Logger
	DB       *gorm.DB
	Metrics  *metrics.Metrics
	Notifier interfaces.Notifier

	// Repositories
	JobRepository        interfaces.JobRepository
	JobRequestRepository interfaces.JobRequestRepository
	StaffRepository      interfaces.StaffRepository
	CatalogRepository    interfaces.CatalogRepository
	WorkLogRepository    interfaces.WorkLogRepository
	SourceRepository     interfaces.SourceRepository
	AuditRepository      interfaces.AuditRepository
	TrashRepository      interfaces.TrashRepository
	UnitOfWorkFactory    interfaces.UnitOfWorkFactory

	// Use Cases
	PoolJobsUseCase        interfaces.PoolJobsUseCase
	ClaimJobUseCase        interfaces.ClaimJobUseCase
	AssignJobUseCase       interfaces.AssignJobUseCase
	ReturnJobUseCase       interfaces.ReturnJobUseCase
	UpdateJobStatusUseCase interfaces.UpdateJobStatusUseCase
	CreateJobUseCase       interfaces.CreateJobUseCase
	JobRequestUseCase      interfaces.JobRequestUseCase
	WorkLogUseCase         interfaces.WorkLogUseCase
	InvoiceUseCase         interfaces.InvoiceUseCase
	TrashUseCase           interfaces.TrashUseCase
}

// NewContainer creates a new dependency injection container
func NewContainer(config *Config) (*Container, error) {
	container := &Container{
		Config: config,
	}

	// Initialize logger
	container.Logger = logger.NewLogrusLogger(config.LogLevel)

	// Initialize metrics
	container.Metrics = metrics.NewMetrics()

	// Initialize notifier
	container.Notifier = notifier.NewWebhookNotifier(
		config.Webhook.URL,
		config.Webhook.AuthToken,
		container.Metrics,
		container.Logger,
	)

	// Initialize database
	if err := container.initDatabase(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize database")
	}

	// Initialize use cases
	container.initUseCases()

	return container, nil
}

// initDatabase initializes the database connection
func (c *Container) initDatabase() error {
	dsn := c.Config.Database.GetDatabaseDSN()

	// TranslateError maps driver duplicate-key failures onto
	// gorm.ErrDuplicatedKey, which the repositories turn into ErrConflict.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB")
	}

	sqlDB.SetMaxIdleConns(c.Config.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(c.Config.Database.ConnMaxLifetime)

	if err := db.AutoMigrate(
		&entities.Skill{},
		&entities.Service{},
		&entities.ServiceSkillRequirement{},
		&entities.Staff{},
		&entities.StaffSkill{},
		&entities.Booking{},
		&entities.Quote{},
		&entities.QuoteRequest{},
		&entities.Project{},
		&entities.Job{},
		&entities.JobRequest{},
		&entities.TimeLog{},
		&entities.MaterialLog{},
		&entities.ExpenseLog{},
		&entities.AssignmentAudit{},
	); err != nil {
		return errors.Wrap(err, "failed to run migrations")
	}

	c.DB = db

	// Initialize repositories
	c.JobRepository = repository.NewJobRepository(db)
	c.JobRequestRepository = repository.NewJobRequestRepository(db)
	c.StaffRepository = repository.NewStaffRepository(db)
	c.CatalogRepository = repository.NewCatalogRepository(db)
	c.WorkLogRepository = repository.NewWorkLogRepository(db)
	c.SourceRepository = repository.NewSourceRepository(db)
	c.AuditRepository = repository.NewAuditRepository(db)
	c.TrashRepository = repository.NewTrashRepository(db)
	c.UnitOfWorkFactory = repository.NewUnitOfWorkFactory(db)

	return nil
}

// initUseCases initializes use cases
func (c *Container) initUseCases() {
	c.PoolJobsUseCase = usecases.NewPoolJobsUseCase(
		c.JobRepository,
		c.StaffRepository,
		c.CatalogRepository,
		c.Logger,
	)

	c.ClaimJobUseCase = usecases.NewClaimJobUseCase(
		c.UnitOfWorkFactory,
		c.Notifier,
		c.Logger,
	)

	c.AssignJobUseCase = usecases.NewAssignJobUseCase(
		c.JobRepository,
		c.StaffRepository,
		c.CatalogRepository,
		c.UnitOfWorkFactory,
		c.Notifier,
		c.Logger,
	)

	c.ReturnJobUseCase = usecases.NewReturnJobUseCase(
		c.JobRepository,
		c.UnitOfWorkFactory,
		c.Notifier,
		c.Logger,
	)

	c.UpdateJobStatusUseCase = usecases.NewUpdateJobStatusUseCase(
		c.JobRepository,
		c.UnitOfWorkFactory,
		c.Notifier,
		c.Logger,
	)

	c.CreateJobUseCase = usecases.NewCreateJobUseCase(
		c.JobRepository,
		c.SourceRepository,
		c.Logger,
	)

	c.JobRequestUseCase = usecases.NewJobRequestUseCase(
		c.JobRepository,
		c.JobRequestRepository,
		c.StaffRepository,
		c.CatalogRepository,
		c.UnitOfWorkFactory,
		c.Notifier,
		c.Logger,
	)

	c.WorkLogUseCase = usecases.NewWorkLogUseCase(
		c.JobRepository,
		c.WorkLogRepository,
		c.Logger,
	)

	c.InvoiceUseCase = usecases.NewInvoiceUseCase(
		c.JobRepository,
		c.WorkLogRepository,
		c.UnitOfWorkFactory,
		c.Notifier,
		c.Logger,
	)

	c.TrashUseCase = usecases.NewTrashUseCase(
		c.TrashRepository,
		c.Logger,
	)
}

// Close closes all resources
func (c *Container) Close() error {
	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				c.Logger.Error("Failed to close database", "error", err)
			}
		}
	}

	return nil
}
