package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/application/auth"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/application/orders"
	"github.com/jhoicas/Almacen-api/internal/application/procurement"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	dominv "github.com/jhoicas/Almacen-api/internal/domain/inventory"
	infranotify "github.com/jhoicas/Almacen-api/internal/infrastructure/notify"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Almacen-api/internal/interfaces/http"
	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/logger"

	_ "github.com/jhoicas/Almacen-api/docs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	itemRepo := postgres.NewItemRepository(pool)
	movRepo := postgres.NewStockMovementRepository(pool)
	orderRepo := postgres.NewSalesOrderRepository(pool)
	reqRepo := postgres.NewStockRequirementRepository(pool)
	prRepo := postgres.NewPurchaseRequisitionRepository(pool)
	poRepo := postgres.NewPurchaseOrderRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	notifier := infranotify.NewDispatcher(cfg.Stock.NotifyBuffer, log)
	defer notifier.Close()

	urgencyPolicy := dominv.UrgencyPolicy{
		DeadlineCriticalDays:   cfg.Stock.DeadlineCriticalDays,
		DeadlineHighDays:       cfg.Stock.DeadlineHighDays,
		CriticalShortageFactor: decimal.NewFromInt(int64(cfg.Stock.CriticalShortageFactor)),
	}

	ledgerUC := inventory.NewLedgerUseCase(txRunner, itemRepo, movRepo, auditRepo, log)
	receiptUC := inventory.NewReceiptUseCase(txRunner, auditRepo, notifier, log)
	issueUC := inventory.NewIssueUseCase(txRunner, auditRepo, log)
	salesOrderUC := orders.NewSalesOrderUseCase(txRunner, orderRepo, reqRepo, auditRepo, log)
	generateUC := procurement.NewGenerateUseCase(txRunner, itemRepo, auditRepo, notifier, urgencyPolicy, log)
	workflowUC := procurement.NewWorkflowUseCase(txRunner, prRepo, poRepo)
	itemUC := usecase.NewItemUseCase(itemRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Almacén API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ItemUC:      itemUC,
		SupplierUC:  supplierUC,
		Ledger:      ledgerUC,
		Receipt:     receiptUC,
		Issue:       issueUC,
		SalesOrders: salesOrderUC,
		Generate:    generateUC,
		Workflow:    workflowUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
