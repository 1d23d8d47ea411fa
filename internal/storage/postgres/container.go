package postgres

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/gravadigital/gamenight-api/internal/config"
	"github.com/gravadigital/gamenight-api/internal/logger"
)

// Container implements RepositoryContainer interface
type Container struct {
	db           *gorm.DB
	log          *log.Logger
	eventRepo    EventRepository
	personRepo   PersonRepository
	templateRepo TemplateRepository
	roundRepo    RoundRepository
}

// NewContainer creates a new repository container with all repositories initialized
func NewContainer(cfg *config.Config) (*Container, error) {
	log := logger.Repository("postgres_container")
	log.Info("Initializing PostgreSQL repository container...")

	// Establish database connection
	db, err := Connect(cfg)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Run migrations
	if err := AutoMigrate(db); err != nil {
		log.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	container := NewContainerWithDB(db)
	container.log = log

	// Perform health check
	if err := container.Health(); err != nil {
		log.Error("Container health check failed", "error", err)
		return nil, fmt.Errorf("container health check failed: %w", err)
	}

	log.Info("PostgreSQL repository container initialized successfully")
	return container, nil
}

// NewContainerWithDB creates a container with an existing database connection
func NewContainerWithDB(db *gorm.DB) *Container {
	return &Container{
		db:           db,
		log:          logger.Repository("postgres_container"),
		eventRepo:    NewPostgresEventRepository(db),
		personRepo:   NewPostgresPersonRepository(db),
		templateRepo: NewPostgresTemplateRepository(db),
		roundRepo:    NewPostgresRoundRepository(db),
	}
}

// Events returns the event repository
func (c *Container) Events() EventRepository {
	return c.eventRepo
}

// People returns the person repository
func (c *Container) People() PersonRepository {
	return c.personRepo
}

// Templates returns the game template repository
func (c *Container) Templates() TemplateRepository {
	return c.templateRepo
}

// Rounds returns the round repository
func (c *Container) Rounds() RoundRepository {
	return c.roundRepo
}

// Health performs a health check on the database connection and each table
func (c *Container) Health() error {
	c.log.Debug("Performing container health check...")

	if err := HealthCheck(c.db); err != nil {
		c.log.Error("Database health check failed", "error", err)
		return fmt.Errorf("database health check failed: %w", err)
	}

	tables := []string{"events", "event_games", "rounds", "people", "game_templates"}
	for _, table := range tables {
		var count int64
		if err := c.db.Table(table).Count(&count).Error; err != nil {
			c.log.Error("Table health check failed", "table", table, "error", err)
			return fmt.Errorf("table %s health check failed: %w", table, err)
		}
		c.log.Debug("Table health check passed", "table", table)
	}

	c.log.Debug("Container health check completed successfully")
	return nil
}

// Close gracefully shuts down the container and closes database connections
func (c *Container) Close() error {
	c.log.Info("Closing PostgreSQL repository container...")

	if c.db == nil {
		c.log.Warn("Database connection is nil, nothing to close")
		return nil
	}

	if err := Close(); err != nil {
		c.log.Error("Failed to close database connection", "error", err)
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	c.eventRepo = nil
	c.personRepo = nil
	c.templateRepo = nil
	c.roundRepo = nil
	c.db = nil

	c.log.Info("PostgreSQL repository container closed successfully")
	return nil
}

// CloseWithTimeout closes the container with a timeout
func (c *Container) CloseWithTimeout(timeout time.Duration) error {
	done := make(chan error, 1)

	go func() {
		done <- c.Close()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		c.log.Error("Container close operation timed out", "timeout", timeout)
		return fmt.Errorf("container close operation timed out after %v", timeout)
	}
}

// GetDB returns the underlying database connection (for advanced usage)
func (c *Container) GetDB() *gorm.DB {
	return c.db
}

// BeginTransaction starts a new database transaction
func (c *Container) BeginTransaction() (*TransactionContainer, error) {
	tx := c.db.Begin()
	if tx.Error != nil {
		c.log.Error("Failed to begin transaction", "error", tx.Error)
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	c.log.Debug("Database transaction started")
	return NewTransactionContainer(tx), nil
}

// TransactionContainer wraps repositories in a database transaction
type TransactionContainer struct {
	tx           *gorm.DB
	log          *log.Logger
	eventRepo    EventRepository
	personRepo   PersonRepository
	templateRepo TemplateRepository
	roundRepo    RoundRepository
}

// NewTransactionContainer creates a new transaction container
func NewTransactionContainer(tx *gorm.DB) *TransactionContainer {
	return &TransactionContainer{
		tx:           tx,
		log:          logger.Repository("postgres_transaction"),
		eventRepo:    NewPostgresEventRepository(tx),
		personRepo:   NewPostgresPersonRepository(tx),
		templateRepo: NewPostgresTemplateRepository(tx),
		roundRepo:    NewPostgresRoundRepository(tx),
	}
}

// Events returns the event repository within transaction
func (tc *TransactionContainer) Events() EventRepository {
	return tc.eventRepo
}

// People returns the person repository within transaction
func (tc *TransactionContainer) People() PersonRepository {
	return tc.personRepo
}

// Templates returns the game template repository within transaction
func (tc *TransactionContainer) Templates() TemplateRepository {
	return tc.templateRepo
}

// Rounds returns the round repository within transaction
func (tc *TransactionContainer) Rounds() RoundRepository {
	return tc.roundRepo
}

// Commit commits the transaction
func (tc *TransactionContainer) Commit() error {
	if err := tc.tx.Commit().Error; err != nil {
		tc.log.Error("Failed to commit transaction", "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback rolls back the transaction
func (tc *TransactionContainer) Rollback() error {
	if err := tc.tx.Rollback().Error; err != nil {
		tc.log.Error("Failed to rollback transaction", "error", err)
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}
