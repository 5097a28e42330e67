package actorutil

import (
	"testing"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
)

type namedState string

func (s namedState) Name() string            { return string(s) }
func (s namedState) Receive(_ actor.Context) {}

func TestActorWithStatesTracksName(t *testing.T) {
	s := ActorWithStates{Behavior: actor.NewBehavior()}
	assert.Equal(t, "", s.StateName())

	s.Become(namedState("idle"))
	assert.Equal(t, "idle", s.StateName())

	s.BecomeStacked(namedState("polling"))
	assert.Equal(t, "polling", s.StateName())

	s.UnbecomeStacked()
	assert.Equal(t, "idle", s.StateName())

	s.Become(namedState("done"))
	assert.Equal(t, "done", s.StateName())
}
