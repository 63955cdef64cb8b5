// Package payment drives the submission workflow: validate the form, sign the
// authentication message, submit the transfer, await confirmation and keep the
// ledger of attempts consistent with what was actually broadcast.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/heliospay/tuition-api/catalog"
	"github.com/heliospay/tuition-api/models"
	"github.com/heliospay/tuition-api/wallet"
)

var (
	// ErrValidation wraps form validation failures. They never reach the
	// wallet boundary.
	ErrValidation = errors.New("validation failed")

	// ErrPaymentInFlight rejects a submission while another one is running.
	ErrPaymentInFlight = errors.New("a payment is already being processed")
)

// Workflow owns the ledger and coordinates one submission attempt at a time
// against the wallet gateway. The optional gorm handle mirrors every record
// into a write-through archive, the canonical ledger staying in memory.
type Workflow struct {
	gateway *wallet.Gateway
	catalog *catalog.Catalog
	ledger  *Ledger
	db      *gorm.DB

	inFlight atomic.Bool
}

func NewWorkflow(gw *wallet.Gateway, cat *catalog.Catalog, db *gorm.DB) *Workflow {
	return &Workflow{
		gateway: gw,
		catalog: cat,
		ledger:  NewLedger(),
		db:      db,
	}
}

// Ledger exposes the attempt history for read-only projections.
func (w *Workflow) Ledger() *Ledger {
	return w.ledger
}

// Result is the outcome of one submission attempt. Record is populated as
// soon as a transaction hash exists, whatever happens afterwards.
type Result struct {
	Record      models.PaymentRecord
	Confirmed   bool
	FormCleared bool
}

// intent carries the resolved fields of one attempt. Constructed on
// submission, consumed immediately, then discarded.
type intent struct {
	Institution string
	Department  string
	Semester    string
	Amount      string
	Recipient   string
}

func (w *Workflow) buildIntent(form *Form) (*intent, error) {
	if form.IsCustom {
		return &intent{
			Institution: strings.TrimSpace(form.CustomInstitution),
			Department:  strings.TrimSpace(form.CustomDepartment),
			Semester:    strings.TrimSpace(form.CustomSemester),
			Amount:      strings.TrimSpace(form.CustomAmount),
			// Each attempt pays a freshly generated address, not the
			// institution's catalog address.
			Recipient: wallet.RandomAddress(),
		}, nil
	}

	inst := w.catalog.Find(form.InstitutionID)
	if inst == nil {
		return nil, fmt.Errorf("%w: unknown institution %q", ErrValidation, form.InstitutionID)
	}
	dept := w.catalog.FindDepartment(form.InstitutionID, form.DepartmentID)
	if dept == nil {
		return nil, fmt.Errorf("%w: unknown department %q", ErrValidation, form.DepartmentID)
	}

	return &intent{
		Institution: inst.Name,
		Department:  dept.Name,
		Semester:    strings.TrimSpace(form.Semester),
		Amount:      dept.TuitionFee,
		Recipient:   wallet.RandomAddress(),
	}, nil
}

// Submit runs one attempt through the state machine. Only one attempt may be
// in flight; callers hitting ErrPaymentInFlight should retry after the current
// one settles.
//
// Failure contract: any error before a transaction hash exists leaves the
// ledger untouched. Once a hash exists a record exists, and any later failure
// marks that record failed by hash lookup. The form is cleared only on a
// confirmed outcome so the user can retry failed inputs unchanged.
func (w *Workflow) Submit(ctx context.Context, form *Form, ownerID uint) (*Result, error) {
	if !w.inFlight.CompareAndSwap(false, true) {
		return nil, ErrPaymentInFlight
	}
	defer w.inFlight.Store(false)

	att := newAttempt()
	if err := att.advance(StageValidating); err != nil {
		return nil, err
	}
	if err := form.Validate(w.catalog); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	state := w.gateway.State()
	if !state.IsConnected {
		return nil, wallet.ErrNotConnected
	}

	in, err := w.buildIntent(form)
	if err != nil {
		return nil, err
	}

	if err := att.advance(StageSigning); err != nil {
		return nil, err
	}
	log.Debug().Str("stage", att.stage.String()).Str("institution", in.Institution).Msg("payment attempt")

	authMessage := fmt.Sprintf("Sign to authenticate payment for %s - %s - %s",
		in.Institution, in.Department, in.Semester)
	if _, err := w.gateway.Sign(ctx, authMessage); err != nil {
		return nil, fmt.Errorf("signing rejected: %w", err)
	}

	if err := att.advance(StageSubmitting); err != nil {
		return nil, err
	}

	handle, err := w.gateway.Send(ctx, in.Recipient, in.Amount)
	if err != nil {
		return nil, fmt.Errorf("submission failed: %w", err)
	}

	// Durability point: a hash exists, so a record exists.
	now := time.Now()
	rec := &models.PaymentRecord{
		TokenID:         ownerID,
		ReceiptID:       fmt.Sprintf("PAY-%d", now.UnixMilli()),
		StudentAddress:  state.Address,
		StudentID:       strings.TrimSpace(form.StudentID),
		StudentName:     strings.TrimSpace(form.StudentName),
		Institution:     in.Institution,
		Department:      in.Department,
		Semester:        in.Semester,
		IsCustom:        form.IsCustom,
		Amount:          in.Amount,
		TransactionHash: handle.Hash,
		Timestamp:       now.UnixMilli(),
		Status:          models.StatusPending,
	}
	if form.IsCustom {
		rec.CustomInstitution = in.Institution
		rec.CustomDepartment = in.Department
		rec.CustomSemester = in.Semester
	}
	w.ledger.Prepend(rec)
	w.archive(rec)

	if err := att.submitted(handle.Hash); err != nil {
		return nil, err
	}
	log.Info().Str("tx", handle.Hash).Str("recipient", in.Recipient).Str("amount", in.Amount).Msg("payment submitted")

	confirmed, err := w.gateway.AwaitConfirmation(ctx, handle)
	if err != nil {
		// The wait itself failed after broadcast: never lose track of the
		// transaction, mark this record failed.
		failed := w.settle(att, handle.Hash, models.StatusFailed)
		return &Result{Record: failed}, fmt.Errorf("confirmation wait failed: %w", err)
	}

	if !confirmed {
		failed := w.settle(att, handle.Hash, models.StatusFailed)
		log.Warn().Str("tx", handle.Hash).Msg("payment failed on chain")
		return &Result{Record: failed}, nil
	}

	settled := w.settle(att, handle.Hash, models.StatusConfirmed)
	if err := w.gateway.RefreshBalance(ctx); err != nil {
		log.Error().Err(err).Msg("balance refresh after payment failed")
	}
	form.Reset()
	log.Info().Str("tx", handle.Hash).Msg("payment confirmed")

	return &Result{Record: settled, Confirmed: true, FormCleared: true}, nil
}

func (w *Workflow) settle(att *attempt, txHash string, status models.PaymentStatus) models.PaymentRecord {
	stage := StageConfirmed
	if status == models.StatusFailed {
		stage = StageFailed
	}
	if err := att.advance(stage); err != nil {
		log.Error().Err(err).Msg("attempt state out of sync")
	}

	rec, err := w.ledger.Transition(txHash, status)
	if err != nil {
		log.Error().Err(err).Str("tx", txHash).Msg("ledger transition failed")
		return models.PaymentRecord{}
	}
	w.archiveUpdate(txHash, status)
	return rec
}

func (w *Workflow) archive(rec *models.PaymentRecord) {
	if w.db == nil {
		return
	}
	if err := w.db.Save(rec).Error; err != nil {
		log.Error().Err(err).Str("receipt", rec.ReceiptID).Msg("payment archive write failed")
	}
}

func (w *Workflow) archiveUpdate(txHash string, status models.PaymentStatus) {
	if w.db == nil {
		return
	}
	err := w.db.Model(&models.PaymentRecord{}).
		Where("transaction_hash = ?", txHash).
		Update("status", status).Error
	if err != nil {
		log.Error().Err(err).Str("tx", txHash).Msg("payment archive update failed")
	}
}
