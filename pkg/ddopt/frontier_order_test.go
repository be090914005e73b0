package ddopt

import "testing"

func TestFrontierPopsByUBThenLPLen(t *testing.T) {
	entries := []FrontierNode[int]{
		{State: 0, UB: 300, LPLen: 42},
		{State: 1, UB: 100, LPLen: 2},
		{State: 2, UB: 150, LPLen: 24},
		{State: 3, UB: 60, LPLen: 13},
		{State: 4, UB: 700, LPLen: 65},
		{State: 5, UB: 100, LPLen: 19},
	}

	f := NewFrontier[int](MaxUB[int]{})
	for _, e := range entries {
		f.Push(e)
	}

	wantStates := []int{4, 0, 2, 5, 1, 3}
	for _, want := range wantStates {
		got, err := f.Pop()
		if err != nil {
			t.Fatalf("Pop: %v", err)
		}
		if got.State != want {
			t.Fatalf("expected state %d next, got %d", want, got.State)
		}
	}
	if f.Len() != 0 {
		t.Fatalf("expected an empty frontier, got %d entries left", f.Len())
	}
	if _, err := f.Pop(); err != ErrNoSuchElement {
		t.Fatalf("expected ErrNoSuchElement on an empty frontier, got %v", err)
	}
}

func TestNoDupFrontierKeepsHigherUBOnCollision(t *testing.T) {
	f := NewNoDupFrontier[int](MaxUB[int]{})
	f.Push(FrontierNode[int]{State: 1, UB: 10, LPLen: 1})
	f.Push(FrontierNode[int]{State: 1, UB: 20, LPLen: 1})
	f.Push(FrontierNode[int]{State: 1, UB: 5, LPLen: 1})

	if f.Len() != 1 {
		t.Fatalf("expected deduplication to a single entry, got %d", f.Len())
	}
	got, err := f.Pop()
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if got.UB != 20 {
		t.Fatalf("expected the higher UB (20) to survive, got %d", got.UB)
	}
}

func TestNoDupFrontierTieBreaksOnLongerLPLen(t *testing.T) {
	f := NewNoDupFrontier[int](MaxUB[int]{})
	f.Push(FrontierNode[int]{State: 1, UB: 10, LPLen: 1})
	f.Push(FrontierNode[int]{State: 1, UB: 10, LPLen: 9})

	got, err := f.Pop()
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if got.LPLen != 9 {
		t.Fatalf("expected the longer lp_len (9) to survive a UB tie, got %d", got.LPLen)
	}
}
