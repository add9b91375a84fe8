// Package jobs provides scheduled background tasks for the order service.
//
// Jobs are built on github.com/robfig/cron/v3 and managed through JobManager:
//
//	monitor := jobs.NewTransactionMonitorJob(ledger, applyOutcomeHandler, clock, 8*time.Second, 30*time.Minute, logger)
//	jobManager := jobs.NewJobManager(monitor)
//
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// # Transaction monitoring
//
// TransactionMonitorJob polls the ledger every interval ("@every 8s" by
// default) for each watched transaction hash:
//
//   - receipt with status 1: the order is settled with PaymentOutcomeSuccess
//   - receipt with status 0: PaymentOutcomeFailed
//   - no receipt by the deadline: PaymentOutcomeTimeout
//
// Ledger errors are logged and retried on the next tick. A poll still running
// when the next tick fires is skipped. Stop cancels a running poll; its
// watches stay pending.
package jobs
