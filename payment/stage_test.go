package payment

import "testing"

func TestAttemptHappyPath(t *testing.T) {
	a := newAttempt()

	for _, next := range []Stage{StageValidating, StageSigning, StageSubmitting} {
		if err := a.advance(next); err != nil {
			t.Fatalf("advance to %s: %v", next, err)
		}
	}
	if err := a.submitted("0xaaa"); err != nil {
		t.Fatalf("submitted: %v", err)
	}
	if a.stage != StageAwaitingConfirmation {
		t.Errorf("stage: got %s", a.stage)
	}
	if err := a.advance(StageConfirmed); err != nil {
		t.Fatalf("advance to confirmed: %v", err)
	}
	if !a.stage.Terminal() {
		t.Error("confirmed should be terminal")
	}
}

func TestAttemptRejectsIllegalTransitions(t *testing.T) {
	a := newAttempt()
	if err := a.advance(StageSigning); err == nil {
		t.Error("idle -> signing should be illegal")
	}
	if err := a.advance(StageConfirmed); err == nil {
		t.Error("idle -> confirmed should be illegal")
	}
}

func TestAttemptNeedsHashToAwait(t *testing.T) {
	a := newAttempt()
	for _, next := range []Stage{StageValidating, StageSigning, StageSubmitting} {
		if err := a.advance(next); err != nil {
			t.Fatalf("advance to %s: %v", next, err)
		}
	}
	if err := a.advance(StageAwaitingConfirmation); err == nil {
		t.Error("awaiting confirmation without a hash should be illegal")
	}
}

func TestTerminalStagesHaveNoExit(t *testing.T) {
	for _, s := range []Stage{StageConfirmed, StageFailed} {
		for target := StageIdle; target <= StageFailed; target++ {
			if canTransition(s, target) {
				t.Errorf("%s -> %s should be illegal", s, target)
			}
		}
	}
}
