package payment

import "fmt"

// Stage is the explicit state of one submission attempt:
//
//	Idle -> Validating -> Signing -> Submitting -> AwaitingConfirmation -> Confirmed | Failed
//
// Failed is additionally reachable from Signing and Submitting (pre-hash
// aborts). Entering AwaitingConfirmation requires a transaction hash, so
// "confirmed but no hash" is unrepresentable.
type Stage int

const (
	StageIdle Stage = iota
	StageValidating
	StageSigning
	StageSubmitting
	StageAwaitingConfirmation
	StageConfirmed
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageValidating:
		return "validating"
	case StageSigning:
		return "signing"
	case StageSubmitting:
		return "submitting"
	case StageAwaitingConfirmation:
		return "awaiting_confirmation"
	case StageConfirmed:
		return "confirmed"
	case StageFailed:
		return "failed"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Terminal reports whether no further transition is allowed.
func (s Stage) Terminal() bool {
	return s == StageConfirmed || s == StageFailed
}

var stageTransitions = map[Stage][]Stage{
	StageIdle:                 {StageValidating},
	StageValidating:           {StageSigning, StageFailed},
	StageSigning:              {StageSubmitting, StageFailed},
	StageSubmitting:           {StageAwaitingConfirmation, StageFailed},
	StageAwaitingConfirmation: {StageConfirmed, StageFailed},
}

func canTransition(from, to Stage) bool {
	for _, next := range stageTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// attempt tracks one submission through the state machine.
type attempt struct {
	stage  Stage
	txHash string
}

func newAttempt() *attempt {
	return &attempt{stage: StageIdle}
}

func (a *attempt) advance(next Stage) error {
	if !canTransition(a.stage, next) {
		return fmt.Errorf("illegal stage transition %s -> %s", a.stage, next)
	}
	if next == StageAwaitingConfirmation && a.txHash == "" {
		return fmt.Errorf("cannot await confirmation without a transaction hash")
	}
	a.stage = next
	return nil
}

// submitted records the durability point: a transaction hash exists, so a
// ledger record must exist too.
func (a *attempt) submitted(txHash string) error {
	a.txHash = txHash
	return a.advance(StageAwaitingConfirmation)
}
