package cmd

import (
	"context"
	"fmt"
	"log/slog"

	httpapi "emojiorder/internal/adapters/in/http"
	"emojiorder/internal/adapters/out/httpclient"
	"emojiorder/internal/adapters/out/ledger"
	"emojiorder/internal/adapters/out/memory"
	"emojiorder/internal/adapters/out/notify"
	"emojiorder/internal/adapters/out/payment"
	"emojiorder/internal/adapters/out/postgres"
	"emojiorder/internal/adapters/out/postgres/orderrepo"
	"emojiorder/internal/core/application/usecases/commands"
	"emojiorder/internal/core/application/usecases/queries"
	"emojiorder/internal/core/domain/model/catalog"
	"emojiorder/internal/core/domain/model/kernel"
	"emojiorder/internal/core/ports"
	"emojiorder/internal/jobs"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const userAgent = "emoji-order/1.0"

// CompositionRoot wires adapters, handlers and jobs for one process.
type CompositionRoot struct {
	cfg    Config
	logger *slog.Logger

	gormDB     *gorm.DB
	catalog    *catalog.Catalog
	uowFactory ports.UnitOfWorkFactory
	reader     ports.OrderReader
	clock      kernel.Clock

	notifier ports.Notifier
	gateway  ports.PaymentGateway
	ledger   ports.Ledger

	monitor *jobs.TransactionMonitorJob
}

// NewCompositionRoot connects to Postgres when DB_HOST is set and keeps
// orders in memory otherwise.
func NewCompositionRoot(cfg Config, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		cfg:    cfg,
		logger: logger,
		clock:  kernel.SystemClock{},
	}

	menu, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	c.catalog = menu

	if cfg.UsesPostgres() {
		db, err := postgres.Open(cfg.ConnectionSettings().DSN())
		if err != nil {
			return nil, err
		}
		c.gormDB = db
		c.uowFactory = postgres.NewGormUnitOfWorkFactory(db)
		c.reader = orderrepo.NewGormOrderReader(db)
		logger.Info("using postgres order store", "host", cfg.DBHost, "database", cfg.DBName)
	} else {
		store := memory.NewStore()
		c.uowFactory = memory.NewUnitOfWorkFactory(store)
		c.reader = store
		logger.Info("using in-memory order store")
	}

	c.notifier = c.createNotifier()
	c.gateway = c.createPaymentGateway()
	if cfg.EthRPCURL != "" {
		c.ledger = ledger.NewEthereumRPC(cfg.EthRPCURL, c.httpClient("ethereum"))
		c.monitor = jobs.NewTransactionMonitorJob(
			c.ledger,
			c.CreateApplyPaymentOutcomeCommandHandler(),
			c.clock,
			cfg.TxPollInterval,
			cfg.TxTimeout,
			logger,
		)
	} else {
		logger.Info("ETH_RPC_URL not set, transaction monitoring disabled")
	}

	return c, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	menu, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return menu, nil
}

func (c *CompositionRoot) httpOptions() httpclient.Options {
	return httpclient.Options{
		Timeout:   c.cfg.HTTPClientTimeout,
		RetryMax:  c.cfg.HTTPClientRetries,
		UserAgent: userAgent,
		Logger:    c.logger,
	}
}

func (c *CompositionRoot) httpClient(name string) *httpclient.Client {
	return httpclient.New(name, c.httpOptions())
}

func (c *CompositionRoot) createNotifier() ports.Notifier {
	if c.cfg.HomeAssistantURL == "" || c.cfg.HomeAssistantToken == "" {
		return notify.NewLogNotifier(c.logger)
	}
	return notify.NewHomeAssistant(c.cfg.HomeAssistantURL, c.cfg.HomeAssistantToken, c.httpClient("home assistant"), c.logger)
}

func (c *CompositionRoot) createPaymentGateway() ports.PaymentGateway {
	if c.cfg.PaymentAPIKey == "" {
		c.logger.Info("PAYMENT_API_KEY not set, using demo payments")
		return payment.NewDemoGateway(c.logger)
	}
	return payment.NewCommerceGateway(c.cfg.PaymentAPIURL, c.cfg.PaymentAPIKey, payment.NewChargeClient(c.httpOptions()))
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(
		c.orderUoWFactory(), kernel.RandomIDGenerator{}, c.clock, c.notifier, c.logger)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	return commands.NewUpdateOrderStatusCommandHandler(c.orderUoWFactory(), c.clock, c.notifier, c.logger)
}

func (c *CompositionRoot) CreateAttachPaymentReferenceCommandHandler() commands.AttachPaymentReferenceCommandHandler {
	return commands.NewAttachPaymentReferenceCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateCheckoutOrderCommandHandler() commands.CheckoutOrderCommandHandler {
	return commands.NewCheckoutOrderCommandHandler(c.orderUoWFactory(), c.reader, c.gateway, c.clock, c.logger)
}

func (c *CompositionRoot) CreateApplyPaymentOutcomeCommandHandler() *commands.ApplyPaymentOutcomeCommandHandler {
	h := commands.NewApplyPaymentOutcomeCommandHandler(c.orderUoWFactory(), c.clock, c.notifier, c.logger)
	return &h
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.reader)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.reader)
}

func (c *CompositionRoot) CreateGetOrderStatisticsQueryHandler() queries.GetOrderStatisticsQueryHandler {
	return queries.NewGetOrderStatisticsQueryHandler(c.reader)
}

// CreateJobManager returns the background jobs to run alongside the server.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	if c.monitor == nil {
		return jobs.NewJobManager()
	}
	return jobs.NewJobManager(c.monitor)
}

// CreateWebServer builds the echo instance serving the API.
func (c *CompositionRoot) CreateWebServer(ctx context.Context) (*echo.Echo, error) {
	deps := httpapi.Dependencies{
		Catalog:                       c.catalog,
		CreateOrderHandler:            c.CreateCreateOrderCommandHandler(),
		UpdateOrderStatusHandler:      c.CreateUpdateOrderStatusCommandHandler(),
		AttachPaymentReferenceHandler: c.CreateAttachPaymentReferenceCommandHandler(),
		CheckoutOrderHandler:          c.CreateCheckoutOrderCommandHandler(),
		ApplyPaymentOutcomeHandler:    *c.CreateApplyPaymentOutcomeCommandHandler(),
		GetOrderHandler:               c.CreateGetOrderQueryHandler(),
		ListOrdersHandler:             c.CreateListOrdersQueryHandler(),
		GetOrderStatisticsHandler:     c.CreateGetOrderStatisticsQueryHandler(),
		WebhookSecret:                 c.cfg.PaymentWebhookSecret,
		DefaultCurrency:               c.cfg.PaymentCurrency,
		DefaultRedirectURL:            c.cfg.PaymentRedirectURL,
	}
	if c.monitor != nil {
		deps.Watcher = c.monitor
	}

	return httpapi.NewEcho(ctx, httpapi.NewServer(deps, c.logger), c.logger)
}

// Close releases the database connection, if any.
func (c *CompositionRoot) Close() error {
	if c.gormDB == nil {
		return nil
	}
	sqlDB, err := c.gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
