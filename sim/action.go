package sim

import (
	"fmt"

	"github.com/vl4deee11/lifesim/geom"
)

// ActionKind is ordered by application priority: all deaths of a tick are
// applied first, then meals, moves and finally births.
type ActionKind int

const (
	ActionDie ActionKind = iota
	ActionEat
	ActionMove
	ActionBreed

	numActionKinds
)

func (k ActionKind) String() string {
	switch k {
	case ActionDie:
		return "die"
	case ActionEat:
		return "eat"
	case ActionMove:
		return "move"
	case ActionBreed:
		return "breed"
	}
	return fmt.Sprintf("ActionKind(%d)", int(k))
}

// Action is a state change proposed by a dweller for the current tick.
// Prey is set for eat actions, Target for moves.
type Action struct {
	Kind   ActionKind
	Actor  ID
	Prey   ID
	Target geom.Point
}

func Die(actor ID) Action {
	return Action{Kind: ActionDie, Actor: actor}
}

func Eat(actor, prey ID) Action {
	return Action{Kind: ActionEat, Actor: actor, Prey: prey}
}

func Move(actor ID, target geom.Point) Action {
	return Action{Kind: ActionMove, Actor: actor, Target: target}
}

func Breed(actor ID) Action {
	return Action{Kind: ActionBreed, Actor: actor}
}

func (a Action) String() string {
	switch a.Kind {
	case ActionEat:
		return fmt.Sprintf("eat(#%d, #%d)", a.Actor, a.Prey)
	case ActionMove:
		return fmt.Sprintf("move(#%d, %v)", a.Actor, a.Target)
	}
	return fmt.Sprintf("%s(#%d)", a.Kind, a.Actor)
}
