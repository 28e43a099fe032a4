package focus

import "testing"

func TestDecide(t *testing.T) {
	tests := []struct {
		name        string
		completed   int
		cycleLength int
		wantLong    bool
		wantActions []Action
	}{
		{"first session", 1, 4, false, []Action{ActionReset, ActionStartShortBreak}},
		{"third session", 3, 4, false, []Action{ActionReset, ActionStartShortBreak}},
		{"fourth session", 4, 4, true, []Action{ActionReset, ActionStartLongBreak}},
		{"eighth session", 8, 4, true, []Action{ActionReset, ActionStartLongBreak}},
		{"ninth session", 9, 4, false, []Action{ActionReset, ActionStartShortBreak}},
		{"cycle of two", 2, 2, true, []Action{ActionReset, ActionStartLongBreak}},
		{"invalid cycle uses default", 4, 0, true, []Action{ActionReset, ActionStartLongBreak}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Decide(tt.completed, tt.cycleLength)
			if decision.LongBreak != tt.wantLong {
				t.Fatalf("expected long=%v, got %v", tt.wantLong, decision.LongBreak)
			}
			if decision.CompletedWorkCycles != tt.completed {
				t.Fatalf("expected completed %d, got %d", tt.completed, decision.CompletedWorkCycles)
			}
			if len(decision.Options) != len(tt.wantActions) {
				t.Fatalf("expected %d options, got %d", len(tt.wantActions), len(decision.Options))
			}
			for i, action := range tt.wantActions {
				if decision.Options[i].Action != action {
					t.Fatalf("option %d: expected %s, got %s", i, action, decision.Options[i].Action)
				}
			}
		})
	}
}

func TestDecideIsDeterministic(t *testing.T) {
	first := Decide(4, 4)
	second := Decide(4, 4)
	if first.Message != second.Message || first.Title != second.Title {
		t.Fatal("expected identical decisions for identical input")
	}
}

func TestBreakOverOffersSingleOption(t *testing.T) {
	decision := BreakOver("short_break", 2)
	if len(decision.Options) != 1 || decision.Options[0].Action != ActionReset {
		t.Fatalf("unexpected options: %+v", decision.Options)
	}
	if decision.Allows(ActionStartShortBreak) {
		t.Fatal("break expiry must not offer another break")
	}
}
