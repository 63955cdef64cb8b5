package payment

import (
	"errors"
	"testing"

	"github.com/heliospay/tuition-api/models"
)

func pendingRecord(receiptID, txHash string) *models.PaymentRecord {
	return &models.PaymentRecord{
		ReceiptID:       receiptID,
		TransactionHash: txHash,
		Status:          models.StatusPending,
	}
}

func TestLedgerPrependsNewestFirst(t *testing.T) {
	l := NewLedger()
	l.Prepend(pendingRecord("PAY-1", "0xaaa"))
	l.Prepend(pendingRecord("PAY-2", "0xbbb"))

	list := l.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 records, got %d", len(list))
	}
	if list[0].ReceiptID != "PAY-2" || list[1].ReceiptID != "PAY-1" {
		t.Errorf("expected newest first, got %s then %s", list[0].ReceiptID, list[1].ReceiptID)
	}
}

func TestLedgerTransitionIsTerminal(t *testing.T) {
	l := NewLedger()
	l.Prepend(pendingRecord("PAY-1", "0xaaa"))

	rec, err := l.Transition("0xaaa", models.StatusConfirmed)
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if rec.Status != models.StatusConfirmed {
		t.Errorf("status: got %s, want confirmed", rec.Status)
	}

	if _, err := l.Transition("0xaaa", models.StatusFailed); !errors.Is(err, ErrStatusFinal) {
		t.Errorf("expected ErrStatusFinal, got %v", err)
	}
	if _, err := l.Transition("0xaaa", models.StatusConfirmed); !errors.Is(err, ErrStatusFinal) {
		t.Errorf("expected ErrStatusFinal on repeat, got %v", err)
	}
}

func TestLedgerTransitionRejectsPendingTarget(t *testing.T) {
	l := NewLedger()
	l.Prepend(pendingRecord("PAY-1", "0xaaa"))

	if _, err := l.Transition("0xaaa", models.StatusPending); err == nil {
		t.Error("expected error for non-terminal target status")
	}
}

func TestLedgerTransitionUnknownHash(t *testing.T) {
	l := NewLedger()

	if _, err := l.Transition("0xmissing", models.StatusFailed); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestLedgerFindByReceiptID(t *testing.T) {
	l := NewLedger()
	l.Prepend(pendingRecord("PAY-1", "0xaaa"))

	if _, found := l.Find("PAY-1"); !found {
		t.Error("expected to find PAY-1")
	}
	if _, found := l.Find("PAY-2"); found {
		t.Error("did not expect to find PAY-2")
	}
}
