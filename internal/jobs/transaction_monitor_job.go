package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"emojiorder/internal/core/application/usecases/commands"
	"emojiorder/internal/core/domain/model/kernel"
	"emojiorder/internal/core/domain/model/order"
	"emojiorder/internal/core/ports"
	"emojiorder/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

const (
	DefaultPollInterval = 8 * time.Second
	DefaultWatchTimeout = 30 * time.Minute
)

var ErrAlreadyWatching = errors.New("transaction is already being watched")

// PaymentOutcomeApplier settles an order once its transaction resolves.
type PaymentOutcomeApplier interface {
	Handle(ctx context.Context, cmd commands.ApplyPaymentOutcomeCommand) (*order.Order, error)
}

type watch struct {
	orderID  kernel.UUID
	txHash   string
	deadline time.Time
}

// TransactionMonitorJob polls the ledger for watched transactions. A mined
// transaction settles its order as paid or failed; one still unmined at its
// deadline settles it as timed out. Ledger calls never run under a lock.
type TransactionMonitorJob struct {
	ledger   ports.Ledger
	handler  PaymentOutcomeApplier
	clock    kernel.Clock
	interval time.Duration
	timeout  time.Duration
	cron     *cron.Cron
	logger   *slog.Logger

	// ctx is cancelled by Stop so in-flight ledger calls return early.
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	watches map[string]watch
}

func NewTransactionMonitorJob(
	ledger ports.Ledger,
	handler PaymentOutcomeApplier,
	clock kernel.Clock,
	interval time.Duration,
	timeout time.Duration,
	logger *slog.Logger,
) *TransactionMonitorJob {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if timeout <= 0 {
		timeout = DefaultWatchTimeout
	}

	logger = logger.With("component", "transaction_monitor_job")
	ctx, cancel := context.WithCancel(context.Background())
	return &TransactionMonitorJob{
		ledger:   ledger,
		handler:  handler,
		clock:    clock,
		interval: interval,
		timeout:  timeout,
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))),
		)),
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		watches: make(map[string]watch),
	}
}

// Watch starts monitoring txHash on behalf of orderID.
func (j *TransactionMonitorJob) Watch(orderID kernel.UUID, txHash string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if _, ok := j.watches[txHash]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyWatching, txHash)
	}

	j.watches[txHash] = watch{
		orderID:  orderID,
		txHash:   txHash,
		deadline: j.clock.Now().Add(j.timeout),
	}
	j.logger.Info("watching transaction", "order_id", orderID.String(), "tx_hash", txHash)
	return nil
}

// Pending reports how many transactions are still watched.
func (j *TransactionMonitorJob) Pending() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.watches)
}

// Start polls on the configured interval. Overlapping runs are skipped.
func (j *TransactionMonitorJob) Start() error {
	_, err := j.cron.AddFunc(fmt.Sprintf("@every %s", j.interval), func() {
		j.RunOnce(j.ctx)
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("transaction monitor started", "interval", j.interval.String(), "timeout", j.timeout.String())
	return nil
}

// Stop cancels a running poll and waits for it to return. The job cannot be
// restarted.
func (j *TransactionMonitorJob) Stop() {
	j.cancel()
	<-j.cron.Stop().Done()
	j.logger.Info("transaction monitor stopped")
}

// RunOnce checks every watched transaction once.
func (j *TransactionMonitorJob) RunOnce(ctx context.Context) {
	j.mu.Lock()
	batch := make([]watch, 0, len(j.watches))
	for _, w := range j.watches {
		batch = append(batch, w)
	}
	j.mu.Unlock()

	for _, w := range batch {
		if ctx.Err() != nil {
			return
		}
		outcome, settled := j.check(ctx, w)
		if !settled {
			continue
		}
		if j.settle(ctx, w, outcome) {
			j.mu.Lock()
			delete(j.watches, w.txHash)
			j.mu.Unlock()
		}
	}
}

func (j *TransactionMonitorJob) check(ctx context.Context, w watch) (commands.PaymentOutcome, bool) {
	receipt, found, err := j.ledger.TransactionReceipt(ctx, w.txHash)
	switch {
	case err != nil && ctx.Err() != nil:
		return commands.PaymentOutcomeUnknown, false
	case err != nil:
		j.logger.WarnContext(ctx, "ledger lookup failed", "tx_hash", w.txHash, "error", err)
	case found && receipt.Success:
		return commands.PaymentOutcomeSuccess, true
	case found:
		return commands.PaymentOutcomeFailed, true
	}

	if !j.clock.Now().Before(w.deadline) {
		return commands.PaymentOutcomeTimeout, true
	}
	return commands.PaymentOutcomeUnknown, false
}

// settle applies the outcome and reports whether the watch is finished.
// Orders that vanished or moved on make further polling pointless.
func (j *TransactionMonitorJob) settle(ctx context.Context, w watch, outcome commands.PaymentOutcome) bool {
	cmd, err := commands.NewApplyPaymentOutcomeCommand(w.orderID, outcome)
	if err != nil {
		j.logger.ErrorContext(ctx, "invalid payment outcome", "tx_hash", w.txHash, "error", err)
		return true
	}

	_, err = j.handler.Handle(ctx, cmd)
	switch {
	case err == nil:
		j.logger.InfoContext(ctx, "transaction settled",
			"order_id", w.orderID.String(), "tx_hash", w.txHash, "outcome", outcome.String())
		return true
	case errors.Is(err, errs.ErrObjectNotFound), errors.Is(err, order.ErrInvalidTransition):
		j.logger.WarnContext(ctx, "transaction outcome discarded",
			"order_id", w.orderID.String(), "tx_hash", w.txHash, "outcome", outcome.String(), "error", err)
		return true
	default:
		j.logger.ErrorContext(ctx, "applying transaction outcome failed",
			"order_id", w.orderID.String(), "tx_hash", w.txHash, "error", err)
		return false
	}
}
