// Package engine provides the Turn() orchestrator that wires together the
// player, room, and combat resolvers into a single request/response turn.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nathoo/drgrpg/content"
	"github.com/nathoo/drgrpg/engine/combat"
	"github.com/nathoo/drgrpg/engine/delta"
	"github.com/nathoo/drgrpg/engine/player"
	"github.com/nathoo/drgrpg/engine/rng"
	"github.com/nathoo/drgrpg/engine/room"
	"github.com/nathoo/drgrpg/store"
	"github.com/nathoo/drgrpg/types"
)

// DefaultThrottle is the minimum time between two turns of one player.
const DefaultThrottle = 3 * time.Second

// ErrPlayerNotFound is returned when the requesting player has no record.
var ErrPlayerNotFound = errors.New("player not found")

// Store persists player records between turns.
type Store interface {
	Load(ctx context.Context, id int) (types.PlayerRecord, error)
	Save(ctx context.Context, rec types.PlayerRecord) error
}

// Engine resolves turns against shared content. It holds no per-player
// state, so one Engine serves every request.
type Engine struct {
	Content   content.Lookup
	Players   Store
	Hooks     combat.Hooks
	Messages  player.Messages
	Throttle  time.Duration
	StartRoom string
	Clock     func() time.Time
	NewRNG    func() *rng.RNG
	Log       *zap.Logger
}

// New creates an engine with default throttle, clock, and randomness.
func New(l content.Lookup, players Store) *Engine {
	return &Engine{
		Content:   l,
		Players:   players,
		Messages:  player.DefaultMessages(),
		Throttle:  DefaultThrottle,
		StartRoom: player.DefaultStartRoom,
		Clock:     time.Now,
		NewRNG:    func() *rng.RNG { return rng.New(time.Now().UnixNano()) },
		Log:       zap.NewNop(),
	}
}

// turn is the scratch state of one Turn call.
type turn struct {
	e         *Engine
	log       *zap.Logger
	p         *player.Player
	rng       *rng.RNG
	room      *room.Room
	combat    *combat.Combat
	out       delta.Payload
	firstTurn bool
}

// Turn processes one batch of player actions and returns what the client
// needs to update.
func (e *Engine) Turn(ctx context.Context, playerID int, actions []types.Action) (delta.Payload, error) {
	start := e.Clock()
	rec, err := e.Players.Load(ctx, playerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrPlayerNotFound, playerID)
		}
		return nil, fmt.Errorf("loading player %d: %w", playerID, err)
	}

	g := e.NewRNG()
	t := &turn{
		e:   e,
		log: e.Log.With(zap.Int("player", playerID)),
		p:   player.Load(rec, player.Deps{Content: e.Content, RNG: g, Messages: e.Messages}),
		rng: g,
		out: delta.Payload{},
	}
	now := start.Unix()

	// 1. Throttle: persist only the access time and ask the client to wait.
	if e.tooFrequent(t.p.LastAccess(), now, actions) {
		t.log.Debug("turn throttled", zap.Int64("last_access", t.p.LastAccess()))
		if err := e.Players.Save(ctx, t.p.Record(now)); err != nil {
			return nil, fmt.Errorf("saving player %d: %w", playerID, err)
		}
		out := delta.Payload{}
		out.Add("pause", true)
		return out, nil
	}

	// 2. Player actions, in order.
	t.resolveRoom()
	for _, a := range actions {
		t.dispatch(a)
	}

	// 3. Natural regeneration outside of battle.
	if !t.p.InBattle() {
		t.p.HealNaturally()
	}

	// 4. One round of combat.
	if !t.firstTurn && t.p.InBattle() {
		t.out.Add("combat", t.combatant().ExecuteBattleTurn())
	}

	// 5. Persist. Nothing after this point changes the player.
	if err := e.Players.Save(ctx, t.p.Record(now)); err != nil {
		return nil, fmt.Errorf("saving player %d: %w", playerID, err)
	}

	// 6. Compose.
	t.compose()

	t.log.Debug("turn resolved",
		zap.Int("actions", len(actions)),
		zap.Strings("keys", t.out.Keys()),
		zap.Duration("elapsed", e.Clock().Sub(start)),
	)
	return t.out, nil
}

// tooFrequent reports whether this turn came too soon after the last one.
// A player's first ever turn and a client's first turn after loading are
// never throttled.
func (e *Engine) tooFrequent(last, now int64, actions []types.Action) bool {
	if last == 0 {
		return false
	}
	for _, a := range actions {
		if isFirstTurn(a) {
			return false
		}
	}
	return time.Duration(now-last)*time.Second < e.Throttle
}

func isFirstTurn(a types.Action) bool {
	return a.Name == "system" && argString(a.Arg) == "first-turn"
}

// resolveRoom loads the player's room, relocating them to the start room
// when their recorded room no longer exists.
func (t *turn) resolveRoom() {
	c := t.e.Content
	if r, ok := room.FromTemplateID(c, t.p.CurrentRoom(), t.p); ok {
		t.room = r
		return
	}
	r, ok := room.FromTitle(c, t.e.StartRoom, t.p)
	if !ok {
		t.log.Warn("player room unresolvable",
			zap.Int("room", t.p.CurrentRoom()),
			zap.String("start_room", t.e.StartRoom),
		)
		return
	}
	t.log.Info("relocating player to start room", zap.Int("from", t.p.CurrentRoom()), zap.Int("to", r.ID()))
	t.room = r
	t.p.MoveTo(r.ID())
}

// combatant returns the turn's combat resolver, creating it once.
func (t *turn) combatant() *combat.Combat {
	if t.combat == nil {
		t.combat = combat.New(t.p, t.rng, t.e.Hooks)
	}
	return t.combat
}

// dispatch routes one action. Unknown actions are ignored.
func (t *turn) dispatch(a types.Action) {
	p := t.p
	switch a.Name {
	case "combat":
		switch argString(a.Arg) {
		case "hunt":
			if p.Dirty.Moved || p.InBattle() || t.room == nil {
				return
			}
			if nc, ok := t.combatant().InitiateNewBattle(t.room); ok {
				t.out.Add("new_combat", nc)
			}
		case "flee":
			t.out.Add("fleeCombat", t.combatant().Flee())
		}

	case "movePlayer":
		if p.Dirty.Moved || p.InBattle() || t.room == nil {
			return
		}
		id, ok := t.room.HasExit(argString(a.Arg))
		if !ok {
			return
		}
		next, ok := room.FromTemplateID(t.e.Content, id, p)
		if !ok {
			t.log.Warn("exit leads to unknown room", zap.Int("room", t.room.ID()), zap.Int("to", id))
			return
		}
		t.room = next
		p.MoveTo(id)

	case "roomObjectAction":
		if t.room != nil {
			t.room.ProcessObjectAction(argString(a.Arg))
		}

	case "equip_item":
		if it, ok := itemArg(a.Arg); ok {
			p.Equip(it)
		}
	case "unequip_item":
		if it, ok := itemArg(a.Arg); ok {
			p.Unequip(it)
		}
	case "drop_item":
		if it, ok := itemArg(a.Arg); ok {
			p.Drop(it)
		}

	case "use_skill":
		p.UseSkill(argString(a.Arg))

	case "system":
		if argString(a.Arg) == "first-turn" {
			t.setupFirstTurn()
		}

	default:
		t.log.Debug("ignoring unknown action", zap.String("action", a.Name))
	}
}

// Identity is the client's player identity block.
type Identity struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// setupFirstTurn sends a full snapshot to a client that just loaded.
func (t *turn) setupFirstTurn() {
	t.firstTurn = true
	p := t.p
	t.out.Add("playerIdentity", Identity{Name: p.Name(), Avatar: p.Avatar()})
	p.MarkAllChanged()

	// Show a battle in progress without playing a round of it.
	if p.InBattle() {
		t.out.Add("new_combat", t.combatant().InitiateExistingBattle())
		t.out.Add("pause", true)
	}
	t.out.Add("achievements", p.AllAchievements())
}
