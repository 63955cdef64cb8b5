package payment

import (
	"errors"
	"fmt"
	"sync"

	"github.com/heliospay/tuition-api/models"
)

var (
	// ErrRecordNotFound means no ledger entry carries the given hash.
	ErrRecordNotFound = errors.New("payment record not found")

	// ErrStatusFinal rejects any mutation of a record already in a terminal
	// status. pending -> confirmed|failed is the only legal transition.
	ErrStatusFinal = errors.New("payment status is final")
)

// Ledger is the in-memory, append-mostly list of payment records. Its only two
// mutations are Prepend and a targeted terminal transition by transaction
// hash. Records are never deleted or reordered; newest-first is the storage
// order for display, each record keeping its own timestamp as ground truth.
type Ledger struct {
	mu      sync.RWMutex
	records []*models.PaymentRecord
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// Prepend inserts a new record at the head of the list.
func (l *Ledger) Prepend(rec *models.PaymentRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append([]*models.PaymentRecord{rec}, l.records...)
}

// Transition moves the record matching txHash into a terminal status and
// returns a copy of the updated record.
func (l *Ledger) Transition(txHash string, status models.PaymentStatus) (models.PaymentRecord, error) {
	if !status.Terminal() {
		return models.PaymentRecord{}, fmt.Errorf("cannot transition to non-terminal status %q", status)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, rec := range l.records {
		if rec.TransactionHash != txHash {
			continue
		}
		if rec.Status.Terminal() {
			return models.PaymentRecord{}, fmt.Errorf("%w: %s is %s", ErrStatusFinal, txHash, rec.Status)
		}
		rec.Status = status
		return *rec, nil
	}
	return models.PaymentRecord{}, fmt.Errorf("%w: %s", ErrRecordNotFound, txHash)
}

// List returns copies of all records, newest first.
func (l *Ledger) List() []models.PaymentRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.PaymentRecord, 0, len(l.records))
	for _, rec := range l.records {
		out = append(out, *rec)
	}
	return out
}

// Find returns a copy of the record with the given receipt id.
func (l *Ledger) Find(receiptID string) (models.PaymentRecord, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, rec := range l.records {
		if rec.ReceiptID == receiptID {
			return *rec, true
		}
	}
	return models.PaymentRecord{}, false
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}
