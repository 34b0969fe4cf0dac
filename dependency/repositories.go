package dependency

import (
	"fmt"

	"github.com/anjaliconnect/api/infrastructure/metrics/exporters"
	"github.com/anjaliconnect/api/infrastructure/persistence/database"
	"github.com/anjaliconnect/api/infrastructure/persistence/migration"
	"github.com/anjaliconnect/api/infrastructure/persistence/repository"
)

func (c *Container) initPersistence() error {
	if err := database.InitDb(c.Config, c.Logger); err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}

	db := database.GetDb()
	if err := migration.Up1(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	tracer := exporters.Tracer()
	c.MemberRepo = repository.NewMemberRepository(db, c.Logger.Log, tracer)
	c.PaymentRepo = repository.NewPaymentRepository(db, c.Logger.Log, tracer)
	c.AuditLogRepo = repository.NewAuditLogRepository(db, c.Logger.Log, tracer)

	c.Logger.Info("Repositories initialized successfully")
	return nil
}
