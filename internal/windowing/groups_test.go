package windowing_test

import (
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/btang/toolchat/internal/windowing"
)

func TestGroupTurns_PairsAdjacentUseAndResult(t *testing.T) {
	msgs := []anthropic.MessageParam{
		User(T("hi")),
		Asst(TU("a")),
		User(TR("a", "result")),
		Asst(T("done")),
	}
	groups := windowing.GroupTurns(msgs)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d: %+v", len(groups), groups)
	}
	if !groups[1].Pair() || groups[1].Start != 1 || groups[1].End != 3 {
		t.Fatalf("expected pair over [1,3), got %+v", groups[1])
	}
	if groups[0].Pair() || groups[2].Pair() {
		t.Fatalf("unexpected pairs: %+v", groups)
	}
}

func TestGroupTurns_ParallelToolUse_RequiresAllResults(t *testing.T) {
	// Both ids covered: one pair.
	paired := windowing.GroupTurns([]anthropic.MessageParam{
		Asst(TU("a"), TU("b")),
		User(TR("a", "ra"), TR("b", "rb")),
	})
	if len(paired) != 1 || !paired[0].Pair() {
		t.Fatalf("expected single pair, got %+v", paired)
	}

	// Missing result for "b": singletons.
	broken := windowing.GroupTurns([]anthropic.MessageParam{
		Asst(TU("a"), TU("b")),
		User(TR("a", "ra")),
	})
	if len(broken) != 2 || broken[0].Pair() {
		t.Fatalf("expected singleton fallback, got %+v", broken)
	}
}

func TestGroupTurns_ResultAfterTextIsInvalid(t *testing.T) {
	groups := windowing.GroupTurns([]anthropic.MessageParam{
		Asst(TU("a")),
		User(T("note first"), TR("a", "late result")),
	})
	if len(groups) != 2 || groups[0].Pair() {
		t.Fatalf("expected singleton fallback for bad ordering, got %+v", groups)
	}
}

func TestGroupTurns_TrailingTextAfterResultsAllowed(t *testing.T) {
	groups := windowing.GroupTurns([]anthropic.MessageParam{
		Asst(TU("a")),
		User(TR("a", "result"), T("and a comment")),
	})
	if len(groups) != 1 || !groups[0].Pair() {
		t.Fatalf("expected pair with trailing text, got %+v", groups)
	}
}

func TestGroupTurns_ExtraResultsRejected(t *testing.T) {
	groups := windowing.GroupTurns([]anthropic.MessageParam{
		Asst(TU("a")),
		User(TR("a", "ra"), TR("b", "rb")),
	})
	if len(groups) != 2 || groups[0].Pair() {
		t.Fatalf("expected singleton fallback for extra result, got %+v", groups)
	}
}
