package http

import (
	"io"
	"log/slog"
	"net/http"

	"emojiorder/internal/adapters/out/ledger"
	"emojiorder/internal/adapters/out/payment"
	"emojiorder/internal/core/application/usecases/commands"
	"emojiorder/internal/core/application/usecases/queries"
	"emojiorder/internal/core/domain/model/catalog"
	"emojiorder/internal/core/domain/model/kernel"
	"emojiorder/internal/core/domain/model/order"
	"emojiorder/internal/core/domain/services"
	"emojiorder/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// TransactionWatcher starts monitoring an on-chain payment for an order.
type TransactionWatcher interface {
	Watch(orderID kernel.UUID, txHash string) error
}

// Dependencies groups what the Server needs. Watcher may be nil, in which
// case transaction monitoring answers 503.
type Dependencies struct {
	Catalog *catalog.Catalog

	CreateOrderHandler            commands.CreateOrderCommandHandler
	UpdateOrderStatusHandler      commands.UpdateOrderStatusCommandHandler
	AttachPaymentReferenceHandler commands.AttachPaymentReferenceCommandHandler
	CheckoutOrderHandler          commands.CheckoutOrderCommandHandler
	ApplyPaymentOutcomeHandler    commands.ApplyPaymentOutcomeCommandHandler

	GetOrderHandler           queries.GetOrderQueryHandler
	ListOrdersHandler         queries.ListOrdersQueryHandler
	GetOrderStatisticsHandler queries.GetOrderStatisticsQueryHandler

	Watcher TransactionWatcher

	WebhookSecret      string
	DefaultCurrency    string
	DefaultRedirectURL string
}

// Server handles the /api/v1 routes and coordinates between HTTP and the
// application use cases.
type Server struct {
	catalog   *catalog.Catalog
	resolver  services.OrderResolver
	formatter services.OrderFormatter

	// Command handlers
	createOrderHandler            commands.CreateOrderCommandHandler
	updateOrderStatusHandler      commands.UpdateOrderStatusCommandHandler
	attachPaymentReferenceHandler commands.AttachPaymentReferenceCommandHandler
	checkoutOrderHandler          commands.CheckoutOrderCommandHandler
	applyPaymentOutcomeHandler    commands.ApplyPaymentOutcomeCommandHandler

	// Query handlers
	getOrderHandler           queries.GetOrderQueryHandler
	listOrdersHandler         queries.ListOrdersQueryHandler
	getOrderStatisticsHandler queries.GetOrderStatisticsQueryHandler

	watcher            TransactionWatcher
	webhookSecret      string
	defaultCurrency    string
	defaultRedirectURL string
	logger             *slog.Logger
}

func NewServer(deps Dependencies, logger *slog.Logger) *Server {
	return &Server{
		catalog:                       deps.Catalog,
		resolver:                      services.NewOrderResolver(deps.Catalog),
		formatter:                     services.NewOrderFormatter(),
		createOrderHandler:            deps.CreateOrderHandler,
		updateOrderStatusHandler:      deps.UpdateOrderStatusHandler,
		attachPaymentReferenceHandler: deps.AttachPaymentReferenceHandler,
		checkoutOrderHandler:          deps.CheckoutOrderHandler,
		applyPaymentOutcomeHandler:    deps.ApplyPaymentOutcomeHandler,
		getOrderHandler:               deps.GetOrderHandler,
		listOrdersHandler:             deps.ListOrdersHandler,
		getOrderStatisticsHandler:     deps.GetOrderStatisticsHandler,
		watcher:                       deps.Watcher,
		webhookSecret:                 deps.WebhookSecret,
		defaultCurrency:               deps.DefaultCurrency,
		defaultRedirectURL:            deps.DefaultRedirectURL,
		logger:                        logger.With("component", "http_server"),
	}
}

// GetMenu handles GET /api/v1/menu.
func (s *Server) GetMenu(ctx echo.Context) error {
	entries := s.catalog.Entries()

	response := make([]MenuItem, len(entries))
	for i, entry := range entries {
		response[i] = toMenuItem(entry)
	}

	return ctx.JSON(http.StatusOK, response)
}

// ResolveOrder handles POST /api/v1/orders/resolve - previews an order
// without storing it.
func (s *Server) ResolveOrder(ctx echo.Context) error {
	var body ResolveRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	resolved, err := s.resolver.Resolve(body.Emoji)
	if err != nil {
		return s.fail(ctx, err, "Failed to resolve order")
	}

	response := ResolvedOrder{
		Items:       make([]MenuItem, 0, len(resolved.Items())),
		Modifiers:   make([]MenuItem, 0, len(resolved.Modifiers())),
		TotalAmount: resolved.Total().String(),
	}
	for _, entry := range resolved.Items() {
		response.Items = append(response.Items, toMenuItem(entry))
	}
	for _, entry := range resolved.Modifiers() {
		response.Modifiers = append(response.Modifiers, toMenuItem(entry))
	}

	return ctx.JSON(http.StatusOK, response)
}

// CreateOrder handles POST /api/v1/orders. With checkout set, a payment charge
// is requested right after the order is stored.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body NewOrder
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	resolved, err := s.resolver.Resolve(body.Emoji)
	if err != nil {
		return s.fail(ctx, err, "Failed to resolve order")
	}

	cmd, err := commands.NewCreateOrderCommand(resolved, deref(body.CustomerName))
	if err != nil {
		return s.fail(ctx, err, "Failed to create order")
	}

	created, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err, "Failed to create order")
	}

	response := OrderWithPayment{Order: s.formatter.View(created)}
	if deref(body.Checkout) {
		current, paymentInfo := s.checkout(ctx, created, deref(body.Currency), deref(body.RedirectURL))
		response.Order = s.formatter.View(current)
		response.Payment = paymentInfo
	}

	return ctx.JSON(http.StatusCreated, response)
}

func (s *Server) checkout(ctx echo.Context, created *order.Order, currency, redirectURL string) (*order.Order, *Payment) {
	cmd, err := commands.NewCheckoutOrderCommand(created.ID(), s.currencyOrDefault(currency), s.redirectOrDefault(redirectURL))
	if err != nil {
		return created, &Payment{Error: err.Error()}
	}

	result, err := s.checkoutOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		s.logger.WarnContext(ctx.Request().Context(), "checkout after create failed",
			"order_id", created.ID().String(), "error", err)
		return created, &Payment{Error: err.Error()}
	}

	return result.Order, toPayment(result)
}

// ListOrders handles GET /api/v1/orders.
func (s *Server) ListOrders(ctx echo.Context) error {
	var params ListOrdersParams
	if err := runtime.BindQueryParameter("form", true, false, "status", ctx.QueryParams(), &params.Status); err != nil {
		return badRequest(ctx, "Invalid format for parameter status: "+err.Error())
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &params.Limit); err != nil {
		return badRequest(ctx, "Invalid format for parameter limit: "+err.Error())
	}

	status := order.Unknown
	if params.Status != nil {
		parsed, err := order.ParseStatus(*params.Status)
		if err != nil {
			return s.fail(ctx, err, "Invalid status")
		}
		status = parsed
	}
	limit := queries.DefaultListLimit
	if params.Limit != nil {
		limit = *params.Limit
	}

	query, err := queries.NewListOrdersQuery(status, limit)
	if err != nil {
		return s.fail(ctx, err, "Invalid list parameters")
	}

	orders, err := s.listOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err, "Failed to retrieve orders")
	}

	response := make([]Order, len(orders))
	for i, o := range orders {
		response[i] = s.formatter.View(o)
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOrderStatistics handles GET /api/v1/orders/statistics.
func (s *Server) GetOrderStatistics(ctx echo.Context) error {
	stats, err := s.getOrderStatisticsHandler.Handle(ctx.Request().Context(), queries.NewGetOrderStatisticsQuery())
	if err != nil {
		return s.fail(ctx, err, "Failed to compute statistics")
	}

	counts := make(map[string]int, len(stats.CountsByStatus))
	for status, count := range stats.CountsByStatus {
		counts[status.String()] = count
	}

	return ctx.JSON(http.StatusOK, Statistics{
		TotalOrders:       stats.TotalOrders,
		CountsByStatus:    counts,
		TotalRevenue:      stats.TotalRevenue.String(),
		AverageOrderValue: stats.AverageOrderValue.String(),
	})
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return s.fail(ctx, err, "Invalid order id")
	}

	found, err := s.findOrder(ctx, orderID)
	if err != nil {
		return s.fail(ctx, err, "Failed to retrieve order")
	}

	return ctx.JSON(http.StatusOK, s.formatter.View(found))
}

// UpdateOrderStatus handles PATCH /api/v1/orders/{orderId}/status.
func (s *Server) UpdateOrderStatus(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return s.fail(ctx, err, "Invalid order id")
	}

	var body StatusUpdate
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	status, err := order.ParseStatus(body.Status)
	if err != nil {
		return s.fail(ctx, err, "Invalid status")
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, status)
	if err != nil {
		return s.fail(ctx, err, "Invalid status update")
	}

	updated, err := s.updateOrderStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err, "Failed to update order status")
	}

	return ctx.JSON(http.StatusOK, s.formatter.View(updated))
}

// AttachPaymentReference handles PUT /api/v1/orders/{orderId}/payment.
func (s *Server) AttachPaymentReference(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return s.fail(ctx, err, "Invalid order id")
	}

	var body PaymentReference
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewAttachPaymentReferenceCommand(orderID, body.Reference, deref(body.PaymentURL))
	if err != nil {
		return s.fail(ctx, err, "Invalid payment reference")
	}

	updated, err := s.attachPaymentReferenceHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err, "Failed to attach payment reference")
	}

	return ctx.JSON(http.StatusOK, s.formatter.View(updated))
}

// CheckoutOrder handles POST /api/v1/orders/{orderId}/checkout. A payment
// provider outage is reported in the payment block with status 200, and the
// order stays pending.
func (s *Server) CheckoutOrder(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return s.fail(ctx, err, "Invalid order id")
	}

	var body CheckoutRequest
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewCheckoutOrderCommand(orderID, s.currencyOrDefault(deref(body.Currency)), s.redirectOrDefault(deref(body.RedirectURL)))
	if err != nil {
		return s.fail(ctx, err, "Invalid checkout request")
	}

	result, err := s.checkoutOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err, "Failed to check out order")
	}

	return ctx.JSON(http.StatusOK, OrderWithPayment{
		Order:   s.formatter.View(result.Order),
		Payment: toPayment(result),
	})
}

// MonitorTransaction handles POST /api/v1/orders/{orderId}/transactions.
func (s *Server) MonitorTransaction(ctx echo.Context) error {
	if s.watcher == nil {
		return ctx.JSON(http.StatusServiceUnavailable, Error{
			Code:    http.StatusServiceUnavailable,
			Message: "Transaction monitoring is not configured",
		})
	}

	orderID, err := orderIDParam(ctx)
	if err != nil {
		return s.fail(ctx, err, "Invalid order id")
	}

	var body TransactionRequest
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err = ledger.ValidateTxHash(body.TxHash); err != nil {
		return s.fail(ctx, err, "Invalid transaction hash")
	}

	if _, err = s.findOrder(ctx, orderID); err != nil {
		return s.fail(ctx, err, "Failed to retrieve order")
	}

	if err = s.watcher.Watch(orderID, body.TxHash); err != nil {
		return s.fail(ctx, err, "Failed to start monitoring")
	}

	return ctx.JSON(http.StatusAccepted, Monitoring{
		Status:  "monitoring",
		OrderID: orderID.Bytes(),
		TxHash:  body.TxHash,
	})
}

// PaymentWebhook handles POST /api/v1/payments/webhook. The body must carry
// a valid HMAC-SHA256 signature made with the shared webhook secret.
func (s *Server) PaymentWebhook(ctx echo.Context) error {
	if s.webhookSecret == "" {
		return ctx.JSON(http.StatusServiceUnavailable, Error{
			Code:    http.StatusServiceUnavailable,
			Message: "Payment webhook is not configured",
		})
	}

	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	if err = payment.VerifySignature(s.webhookSecret, body, ctx.Request().Header.Get(payment.SignatureHeader)); err != nil {
		s.logger.WarnContext(ctx.Request().Context(), "rejected webhook", "error", err)
		return s.fail(ctx, err, "Invalid webhook signature")
	}

	event, err := payment.ParseEvent(body)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	name, settles := event.Outcome()
	if !settles {
		return ctx.JSON(http.StatusOK, WebhookResult{Received: true, OrderID: event.OrderID})
	}

	orderID, err := kernel.UUIDFromString(event.OrderID)
	if err != nil {
		return badRequest(ctx, "Webhook event has no valid order id")
	}

	outcome, err := commands.ParsePaymentOutcome(name)
	if err != nil {
		return s.fail(ctx, err, "Invalid payment outcome")
	}

	cmd, err := commands.NewApplyPaymentOutcomeCommand(orderID, outcome)
	if err != nil {
		return s.fail(ctx, err, "Invalid payment outcome")
	}

	if _, err = s.applyPaymentOutcomeHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err, "Failed to apply payment outcome")
	}

	return ctx.JSON(http.StatusOK, WebhookResult{
		Received: true,
		OrderID:  orderID.String(),
		Outcome:  outcome.String(),
	})
}

func (s *Server) findOrder(ctx echo.Context, orderID kernel.UUID) (*order.Order, error) {
	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return nil, err
	}
	return s.getOrderHandler.Handle(ctx.Request().Context(), query)
}

func (s *Server) currencyOrDefault(currency string) string {
	if currency == "" {
		return s.defaultCurrency
	}
	return currency
}

func (s *Server) redirectOrDefault(redirectURL string) string {
	if redirectURL == "" {
		return s.defaultRedirectURL
	}
	return redirectURL
}

func orderIDParam(ctx echo.Context) (kernel.UUID, error) {
	var orderID openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "orderId", ctx.Param("orderId"), &orderID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("orderId", err)
	}
	return kernel.UUIDFromBytes(orderID[:])
}

func toMenuItem(entry catalog.Entry) MenuItem {
	return MenuItem{
		Token: entry.Token(),
		Name:  entry.Name(),
		Price: entry.Price().String(),
		Kind:  entry.Kind().String(),
	}
}

func toPayment(result commands.CheckoutResult) *Payment {
	if result.Degraded() {
		return &Payment{Error: result.PaymentError.Error()}
	}
	return &Payment{
		Reference:  result.Charge.Reference,
		PaymentURL: result.Charge.PaymentURL,
		Demo:       result.Charge.Demo,
	}
}
