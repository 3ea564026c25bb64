package mystery_test

import (
	"io"
	"testing"

	"github.com/myrjola/gumshoe/internal/mystery"
	"github.com/myrjola/gumshoe/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

// newTestWorld builds a small fixed case: Cora stabbed Alice in the study at
// 21 o'clock over the inheritance. The study holds one person at a time.
func newTestWorld(t *testing.T) *mystery.World {
	t.Helper()

	persons := []mystery.Person{
		{ID: "alice", Name: "Alice Ashdown", Reliability: 1, Victim: true},
		{ID: "bram", Name: "Bram Byrne", Traits: []mystery.Trait{mystery.TraitComposed}, Reliability: 0.9, Motive: "an unpaid loan"},
		{ID: "cora", Name: "Cora Crane", Traits: []mystery.Trait{mystery.TraitComposed}, Reliability: 0.5, Motive: "the inheritance"},
		{ID: "dane", Name: "Dane Dunmore", Traits: []mystery.Trait{mystery.TraitNervous}, Reliability: 0.4, Motive: "a professional rivalry"},
		{ID: "elsa", Name: "Elsa Egerton", Traits: []mystery.Trait{mystery.TraitErratic, mystery.TraitHostile}, Reliability: 0.3, Motive: "an old feud"},
	}
	locations := []mystery.Location{
		{ID: "study", Name: "Study", SoleOccupancy: true, Connections: []mystery.LocationID{"library", "lounge"}},
		{ID: "library", Name: "Library", Connections: []mystery.LocationID{"study", "kitchen"}},
		{ID: "kitchen", Name: "Kitchen", Connections: []mystery.LocationID{"library", "lounge"}},
		{ID: "lounge", Name: "Lounge", Connections: []mystery.LocationID{"study", "kitchen", "garden"}},
		{ID: "garden", Name: "Garden", Connections: []mystery.LocationID{"lounge"}},
	}
	weapons := []mystery.Weapon{
		{ID: "dagger", Name: "Dagger"},
		{ID: "rope", Name: "Rope"},
		{ID: "candlestick", Name: "Candlestick"},
	}
	timeline := []mystery.Event{
		{ID: "e1", Hour: 19, Actor: "alice", Activity: "writing letters", Location: "study"},
		{ID: "e2", Hour: 19, Actor: "bram", Activity: "reading", Location: "library"},
		{ID: "e3", Hour: 19, Actor: "cora", Activity: "fixing a drink", Location: "kitchen"},
		{ID: "e4", Hour: 19, Actor: "dane", Activity: "pruning roses", Location: "garden"},
		{ID: "e5", Hour: 19, Actor: "elsa", Activity: "playing cards", Location: "lounge"},
		{ID: "e6", Hour: 20, Actor: "alice", Activity: "reading", Location: "library"},
		{ID: "e7", Hour: 20, Actor: "bram", Activity: "reading", Location: "library"},
		{ID: "e8", Hour: 20, Actor: "cora", Activity: "playing cards", Location: "lounge"},
		{ID: "e9", Hour: 20, Actor: "dane", Activity: "carrying rope", Location: "garden", Weapon: "rope"},
		{ID: "e10", Hour: 20, Actor: "elsa", Activity: "playing cards", Location: "lounge"},
		{ID: "e11", Hour: 21, Actor: "alice", Activity: "dozing off", Location: "study"},
		{ID: "crime", Hour: 21, Actor: "cora", Activity: "murder", Location: "study", Weapon: "dagger", Crime: true},
		{ID: "e12", Hour: 21, Actor: "bram", Activity: "reading", Location: "library"},
		{ID: "e13", Hour: 21, Actor: "dane", Activity: "smoking on the terrace", Location: "garden"},
		{ID: "e14", Hour: 21, Actor: "elsa", Activity: "fixing a drink", Location: "kitchen"},
		{ID: "e15", Hour: 22, Actor: "bram", Activity: "dozing off", Location: "lounge"},
		{ID: "e16", Hour: 22, Actor: "cora", Activity: "fixing a drink", Location: "kitchen"},
		{ID: "e17", Hour: 22, Actor: "dane", Activity: "playing cards", Location: "lounge"},
		{ID: "e18", Hour: 22, Actor: "elsa", Activity: "playing cards", Location: "lounge"},
	}
	relations := []mystery.Relationship{
		{A: "cora", B: "alice", Kind: mystery.RelationFamily},
		{A: "bram", B: "alice", Kind: mystery.RelationFriend},
		{A: "elsa", B: "alice", Kind: mystery.RelationRival},
	}
	solution := mystery.Solution{
		Culprit:  "cora",
		Victim:   "alice",
		Weapon:   "dagger",
		Location: "study",
		Motive:   "the inheritance",
		Hour:     21,
	}

	world, err := mystery.NewWorld("case-test", 42, persons, locations, weapons, timeline, relations, solution)
	require.NoError(t, err, "fixture world must validate")
	return world
}

func newTestSession(t *testing.T) *mystery.Session {
	t.Helper()
	logger := testhelpers.NewLogger(io.Discard)
	session, err := mystery.NewSession(newTestWorld(t), mystery.DefaultSessionConfig(), logger)
	require.NoError(t, err, "fixture session must start")
	return session
}

func whereabouts(subject mystery.PersonID, hour int) mystery.Topic {
	return mystery.Topic{Kind: mystery.TopicWhereabouts, Subject: subject, Hour: hour}
}
