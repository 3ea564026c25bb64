package mystery_test

import (
	"testing"

	"github.com/myrjola/gumshoe/internal/mystery"
	"github.com/stretchr/testify/require"
)

func TestNewWorld_validation(t *testing.T) {
	persons := []mystery.Person{
		{ID: "a", Name: "A", Reliability: 0.5, Victim: true},
		{ID: "b", Name: "B", Reliability: 0.5},
	}
	locations := []mystery.Location{{ID: "hall", Name: "Hall"}}
	weapons := []mystery.Weapon{{ID: "pipe", Name: "Pipe"}}
	crime := mystery.Event{ID: "crime", Hour: 21, Actor: "b", Activity: "murder", Location: "hall", Weapon: "pipe", Crime: true}
	solution := mystery.Solution{Culprit: "b", Victim: "a", Weapon: "pipe", Location: "hall", Motive: "spite", Hour: 21}

	tests := []struct {
		name    string
		mutate  func(p []mystery.Person, tl []mystery.Event, s mystery.Solution) ([]mystery.Person, []mystery.Event, mystery.Solution)
		wantErr bool
	}{
		{
			name: "valid",
			mutate: func(p []mystery.Person, tl []mystery.Event, s mystery.Solution) ([]mystery.Person, []mystery.Event, mystery.Solution) {
				return p, tl, s
			},
			wantErr: false,
		},
		{
			name: "duplicate person",
			mutate: func(p []mystery.Person, tl []mystery.Event, s mystery.Solution) ([]mystery.Person, []mystery.Event, mystery.Solution) {
				return append(p, mystery.Person{ID: "b", Name: "B again", Reliability: 0.5}), tl, s
			},
			wantErr: true,
		},
		{
			name: "reliability out of range",
			mutate: func(p []mystery.Person, tl []mystery.Event, s mystery.Solution) ([]mystery.Person, []mystery.Event, mystery.Solution) {
				p[1].Reliability = 1.5
				return p, tl, s
			},
			wantErr: true,
		},
		{
			name: "event references unknown location",
			mutate: func(p []mystery.Person, tl []mystery.Event, s mystery.Solution) ([]mystery.Person, []mystery.Event, mystery.Solution) {
				tl = append(tl, mystery.Event{ID: "x", Hour: 22, Actor: "b", Activity: "pacing", Location: "cellar"})
				return p, tl, s
			},
			wantErr: true,
		},
		{
			name: "no crime event",
			mutate: func(p []mystery.Person, tl []mystery.Event, s mystery.Solution) ([]mystery.Person, []mystery.Event, mystery.Solution) {
				return p, nil, s
			},
			wantErr: true,
		},
		{
			name: "crime event does not match solution",
			mutate: func(p []mystery.Person, tl []mystery.Event, s mystery.Solution) ([]mystery.Person, []mystery.Event, mystery.Solution) {
				s.Hour = 22
				return p, tl, s
			},
			wantErr: true,
		},
		{
			name: "culprit is the victim",
			mutate: func(p []mystery.Person, tl []mystery.Event, s mystery.Solution) ([]mystery.Person, []mystery.Event, mystery.Solution) {
				s.Culprit = "a"
				return p, tl, s
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := make([]mystery.Person, len(persons))
			copy(p, persons)
			tl := []mystery.Event{crime}
			p, tl, s := tt.mutate(p, tl, solution)

			world, err := mystery.NewWorld("case", 1, p, locations, weapons, tl, nil, s)

			if tt.wantErr {
				require.ErrorIs(t, err, mystery.ErrInvalidWorld)
				require.Nil(t, world)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, world)
		})
	}
}

func TestWorld_Resolve(t *testing.T) {
	world := newTestWorld(t)

	tests := []struct {
		name  string
		topic mystery.Topic
		want  mystery.FactValue
	}{
		{
			name:  "whereabouts at known hour",
			topic: whereabouts("bram", 20),
			want:  mystery.LocationValue("library"),
		},
		{
			name:  "whereabouts at unknown hour",
			topic: whereabouts("bram", 3),
			want:  mystery.NotApplicable(),
		},
		{
			name:  "whereabouts of unknown person",
			topic: whereabouts("zed", 20),
			want:  mystery.NotApplicable(),
		},
		{
			name:  "activity",
			topic: mystery.Topic{Kind: mystery.TopicActivity, Subject: "dane", Hour: 19},
			want:  mystery.TextValue("pruning roses"),
		},
		{
			name:  "weapon handled",
			topic: mystery.Topic{Kind: mystery.TopicWeapon, Subject: "dane"},
			want:  mystery.WeaponValue("rope"),
		},
		{
			name:  "no weapon handled",
			topic: mystery.Topic{Kind: mystery.TopicWeapon, Subject: "bram"},
			want:  mystery.NotApplicable(),
		},
		{
			name:  "relationship to victim",
			topic: mystery.Topic{Kind: mystery.TopicRelationship, Subject: "cora"},
			want:  mystery.RelationValue(mystery.RelationFamily),
		},
		{
			name:  "relationship defaults to stranger",
			topic: mystery.Topic{Kind: mystery.TopicRelationship, Subject: "dane"},
			want:  mystery.RelationValue(mystery.RelationStranger),
		},
		{
			name:  "witness saw person in same room",
			topic: mystery.Topic{Kind: mystery.TopicWitness, Subject: "bram", Object: "alice", Hour: 20},
			want:  mystery.BoolValue(true),
		},
		{
			name:  "witness did not see person",
			topic: mystery.Topic{Kind: mystery.TopicWitness, Subject: "bram", Object: "cora", Hour: 20},
			want:  mystery.BoolValue(false),
		},
		{
			name:  "motive",
			topic: mystery.Topic{Kind: mystery.TopicMotive, Subject: "elsa"},
			want:  mystery.TextValue("an old feud"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, world.Resolve(tt.topic))
		})
	}
}

func TestWorld_PublicTimelineHidesCrime(t *testing.T) {
	world := newTestWorld(t)

	for _, e := range world.PublicTimeline() {
		require.False(t, e.Crime, "crime event leaked into the public timeline")
	}
	require.Len(t, world.PublicTimeline(), 18)
}

func TestWorld_SuspectsExcludeVictim(t *testing.T) {
	world := newTestWorld(t)

	suspects := world.Suspects()
	require.Len(t, suspects, 4)
	for _, s := range suspects {
		require.False(t, s.Victim)
	}
	require.Equal(t, "Alice Ashdown", world.Victim().Name)
	require.Equal(t, 21, world.MurderHour())
}
