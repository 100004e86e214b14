// Package formula compiles the attack-power modifier hooks. A hook is a CEL
// expression over the base power and the combat round that yields the
// adjusted power as an int.
package formula

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"

	"github.com/nathoo/drgrpg/engine/combat"
)

// Hook is a compiled modifier. The zero value and nil are the identity.
type Hook struct {
	expr string
	prg  cel.Program
}

// Env is the shared CEL environment for hooks.
type Env struct {
	env *cel.Env
}

// NewEnv declares the hook variables and helper functions.
func NewEnv() (*Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("power", cel.IntType),
		cel.Variable("round", cel.IntType),

		cel.Function("pct",
			cel.Overload("pct_int_int",
				[]*cel.Type{cel.IntType, cel.IntType},
				cel.IntType,
				cel.BinaryBinding(func(v, p ref.Val) ref.Val {
					base := v.Value().(int64)
					percent := p.Value().(int64)
					return types.Int(base * percent / 100)
				}),
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Env{env: env}, nil
}

// Compile builds a hook. An empty expression yields nil (identity).
func (e *Env) Compile(expr string) (*Hook, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil
	}
	ast, iss := e.env.Compile(expr)
	if iss.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.IntType) && !ast.OutputType().IsExactType(cel.DynType) {
		return nil, fmt.Errorf("compile %q: result must be int, got %s", expr, ast.OutputType())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}
	return &Hook{expr: expr, prg: prg}, nil
}

// Apply runs the hook. Evaluation failures and non-int results leave power
// unchanged.
func (h *Hook) Apply(power, round int) int {
	if h == nil || h.prg == nil {
		return power
	}
	out, _, err := h.prg.Eval(map[string]any{
		"power": int64(power),
		"round": int64(round),
	})
	if err != nil {
		return power
	}
	switch v := out.Value().(type) {
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		return int(v)
	}
	return power
}

// String returns the source expression.
func (h *Hook) String() string {
	if h == nil {
		return ""
	}
	return h.expr
}

// Set holds the three combat hooks.
type Set struct {
	PlayerSkill  *Hook
	PlayerAttack *Hook
	EnemyAttack  *Hook
}

// CompileSet compiles the three hook expressions.
func CompileSet(playerSkill, playerAttack, enemyAttack string) (Set, error) {
	env, err := NewEnv()
	if err != nil {
		return Set{}, err
	}
	var s Set
	if s.PlayerSkill, err = env.Compile(playerSkill); err != nil {
		return Set{}, fmt.Errorf("player skill hook: %w", err)
	}
	if s.PlayerAttack, err = env.Compile(playerAttack); err != nil {
		return Set{}, fmt.Errorf("player attack hook: %w", err)
	}
	if s.EnemyAttack, err = env.Compile(enemyAttack); err != nil {
		return Set{}, fmt.Errorf("enemy attack hook: %w", err)
	}
	return s, nil
}

// Hooks adapts the set to the combat resolver.
func (s Set) Hooks() combat.Hooks {
	return combat.Hooks{
		PlayerSkill:  s.PlayerSkill.Apply,
		PlayerAttack: s.PlayerAttack.Apply,
		EnemyAttack:  s.EnemyAttack.Apply,
	}
}
