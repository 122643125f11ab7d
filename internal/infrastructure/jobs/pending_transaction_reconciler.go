package jobs

import (
	"context"
	"log"
	"time"

	"github.com/dalikhouaja008/B-rich-backend/internal/domain/entities"
	"github.com/dalikhouaja008/B-rich-backend/internal/domain/repositories"
)

// reconcileBatchSize caps how many pending records one pass re-checks.
const reconcileBatchSize = 100

// PendingTransactionReconciler settles transaction records that were left
// pending after a confirmation timeout: it re-polls the ledger for each
// signature and flips the record to success or failed once the network
// has an answer.
type PendingTransactionReconciler struct {
	txRepo   repositories.TransactionRepository
	gateway  repositories.LedgerGateway
	interval time.Duration
	stop     chan struct{}
}

func NewPendingTransactionReconciler(txRepo repositories.TransactionRepository, gateway repositories.LedgerGateway, interval time.Duration) *PendingTransactionReconciler {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &PendingTransactionReconciler{
		txRepo:   txRepo,
		gateway:  gateway,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (j *PendingTransactionReconciler) Start(ctx context.Context) {
	log.Println("🕐 Starting pending transaction reconciler...")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("⏹️ Pending transaction reconciler stopped (context cancelled)")
			return
		case <-j.stop:
			log.Println("⏹️ Pending transaction reconciler stopped")
			return
		case <-ticker.C:
			j.ReconcileOnce(ctx)
		}
	}
}

func (j *PendingTransactionReconciler) Stop() {
	close(j.stop)
}

// ReconcileOnce runs a single settlement pass. Records the network still
// reports as in flight stay pending for the next pass.
func (j *PendingTransactionReconciler) ReconcileOnce(ctx context.Context) {
	pending, err := j.txRepo.GetPending(ctx, reconcileBatchSize)
	if err != nil {
		log.Printf("❌ Error fetching pending transactions: %v", err)
		return
	}
	if len(pending) == 0 {
		return
	}

	log.Printf("🔄 Re-checking %d pending transactions...", len(pending))

	settled := 0
	for _, record := range pending {
		status, err := j.gateway.GetSignatureStatus(ctx, record.Signature)
		if err != nil {
			log.Printf("❌ Error polling signature %s: %v", record.Signature, err)
			continue
		}
		if !status.Terminal() {
			continue
		}

		next := entities.TransactionStatusSuccess
		if status.State == entities.ConfirmationFailed {
			next = entities.TransactionStatusFailed
		}
		if err := j.txRepo.UpdateStatus(ctx, record.Signature, next); err != nil {
			log.Printf("❌ Error settling transaction %s: %v", record.Signature, err)
			continue
		}
		settled++
	}

	if settled > 0 {
		log.Printf("✅ Settled %d pending transactions", settled)
	}
}
