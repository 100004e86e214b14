package formula

import "testing"

func mustEnv(t *testing.T) *Env {
	t.Helper()
	env, err := NewEnv()
	if err != nil {
		t.Fatalf("NewEnv: %v", err)
	}
	return env
}

func TestHook_NilIsIdentity(t *testing.T) {
	var h *Hook
	if got := h.Apply(17, 3); got != 17 {
		t.Errorf("Apply = %d, want 17", got)
	}
	if h.String() != "" {
		t.Errorf("String = %q, want empty", h.String())
	}
}

func TestCompile_Empty(t *testing.T) {
	h, err := mustEnv(t).Compile("   ")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if h != nil {
		t.Errorf("blank expression should compile to nil, got %v", h)
	}
}

func TestHook_Apply(t *testing.T) {
	env := mustEnv(t)

	tests := []struct {
		expr  string
		power int
		round int
		want  int
	}{
		{"power * 2", 10, 1, 20},
		{"power + round", 10, 4, 14},
		{"pct(power, 150)", 10, 1, 15},
		{"round > 3 ? power + 5 : power", 10, 5, 15},
		{"round > 3 ? power + 5 : power", 10, 2, 10},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			h, err := env.Compile(tt.expr)
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}
			if got := h.Apply(tt.power, tt.round); got != tt.want {
				t.Errorf("Apply(%d, %d) = %d, want %d", tt.power, tt.round, got, tt.want)
			}
			if h.String() != tt.expr {
				t.Errorf("String = %q", h.String())
			}
		})
	}
}

func TestHook_EvalErrorKeepsPower(t *testing.T) {
	h, err := mustEnv(t).Compile("power / (round - round)")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if got := h.Apply(9, 1); got != 9 {
		t.Errorf("division by zero: Apply = %d, want 9", got)
	}
}

func TestCompile_Errors(t *testing.T) {
	env := mustEnv(t)
	for _, expr := range []string{
		"power +",  // syntax
		"mana * 2", // undeclared variable
		`"strong"`, // not an int
	} {
		if _, err := env.Compile(expr); err == nil {
			t.Errorf("Compile(%q) should fail", expr)
		}
	}
}

func TestCompileSet(t *testing.T) {
	set, err := CompileSet("power + 1", "", "power - 1")
	if err != nil {
		t.Fatalf("CompileSet: %v", err)
	}

	if got := set.PlayerSkill.Apply(10, 1); got != 11 {
		t.Errorf("PlayerSkill = %d, want 11", got)
	}
	if set.PlayerAttack != nil {
		t.Error("empty hook should be nil")
	}
	if got := set.PlayerAttack.Apply(10, 1); got != 10 {
		t.Errorf("PlayerAttack = %d, want 10", got)
	}
	if got := set.EnemyAttack.Apply(10, 1); got != 9 {
		t.Errorf("EnemyAttack = %d, want 9", got)
	}

	if _, err := CompileSet("", "power +", ""); err == nil {
		t.Error("bad hook should fail the set")
	}
}

func TestSet_Hooks(t *testing.T) {
	set, err := CompileSet("power * 2", "", "power + round")
	if err != nil {
		t.Fatalf("CompileSet: %v", err)
	}

	h := set.Hooks()
	if got := h.PlayerSkill(10, 1); got != 20 {
		t.Errorf("PlayerSkill = %d, want 20", got)
	}
	if got := h.PlayerAttack(10, 1); got != 10 {
		t.Errorf("PlayerAttack = %d, want 10", got)
	}
	if got := h.EnemyAttack(10, 3); got != 13 {
		t.Errorf("EnemyAttack = %d, want 13", got)
	}
}
