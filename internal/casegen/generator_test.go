package casegen_test

import (
	"context"
	"io"
	"testing"

	"github.com/myrjola/gumshoe/internal/casegen"
	"github.com/myrjola/gumshoe/internal/mystery"
	"github.com/myrjola/gumshoe/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func newGenerator(t *testing.T, cfg casegen.Config) *casegen.Generator {
	t.Helper()
	g, err := casegen.NewGenerator(cfg, testhelpers.NewLogger(io.Discard))
	require.NoError(t, err)
	return g
}

func TestNewGenerator_ConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     casegen.Config
		wantErr bool
	}{
		{name: "defaults", cfg: casegen.DefaultConfig()},
		{name: "maximum cast", cfg: casegen.Config{Suspects: 7, StartHour: 19, MurderHour: 21, EndHour: 22}},
		{name: "too few suspects", cfg: casegen.Config{Suspects: 1, StartHour: 19, MurderHour: 21, EndHour: 22}, wantErr: true},
		{name: "cast larger than template pool", cfg: casegen.Config{Suspects: 20, StartHour: 19, MurderHour: 21, EndHour: 22}, wantErr: true},
		{name: "murder before the evening starts", cfg: casegen.Config{Suspects: 4, StartHour: 21, MurderHour: 20, EndHour: 22}, wantErr: true},
		{name: "murder after the evening ends", cfg: casegen.Config{Suspects: 4, StartHour: 19, MurderHour: 23, EndHour: 22}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := casegen.NewGenerator(tt.cfg, testhelpers.NewLogger(io.Discard))
			if tt.wantErr {
				require.ErrorIs(t, err, casegen.ErrBadConfig)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestGenerator_ProducesValidWorlds(t *testing.T) {
	g := newGenerator(t, casegen.DefaultConfig())

	for seed := int64(1); seed <= 25; seed++ {
		world, err := g.Generate(seed)
		require.NoError(t, err, "seed %d", seed)

		suspects := world.Suspects()
		require.Len(t, suspects, 4)
		require.True(t, world.Victim().Victim)
		require.Equal(t, 21, world.MurderHour())

		for _, e := range world.PublicTimeline() {
			require.False(t, e.Crime, "the crime never appears in the public timeline")
		}

		// Every suspect can account for the murder hour.
		for _, s := range suspects {
			v := world.Resolve(mystery.Topic{Kind: mystery.TopicWhereabouts, Subject: s.ID, Hour: 21})
			require.Equal(t, mystery.ValueLocation, v.Kind, "seed %d suspect %s", seed, s.ID)
		}
	}
}

func TestGenerator_SameSeedSameCase(t *testing.T) {
	g := newGenerator(t, casegen.DefaultConfig())

	first, err := g.Generate(42)
	require.NoError(t, err)
	second, err := g.Generate(42)
	require.NoError(t, err)

	require.Equal(t, first.Suspects(), second.Suspects())
	require.Equal(t, first.Victim(), second.Victim())
	require.Equal(t, first.PublicTimeline(), second.PublicTimeline())
	require.NotEqual(t, first.CaseID, second.CaseID, "case ids are unique per generation")
}

func TestGenerator_DifferentSeedsDiffer(t *testing.T) {
	g := newGenerator(t, casegen.DefaultConfig())

	first, err := g.Generate(1)
	require.NoError(t, err)
	second, err := g.Generate(2)
	require.NoError(t, err)

	require.NotEqual(t, first.PublicTimeline(), second.PublicTimeline())
}

func TestGenerator_WorldsArePlayable(t *testing.T) {
	g := newGenerator(t, casegen.DefaultConfig())
	ctx := context.Background()

	world, err := g.Generate(7)
	require.NoError(t, err)

	session, err := mystery.NewSession(world, mystery.DefaultSessionConfig(), testhelpers.NewLogger(io.Discard))
	require.NoError(t, err)

	for _, s := range world.Suspects() {
		answer, err := session.Ask(ctx, s.ID,
			mystery.Topic{Kind: mystery.TopicWhereabouts, Subject: s.ID, Hour: world.MurderHour()}, true)
		require.NoError(t, err)
		require.NotZero(t, answer.Statement.Seq)
	}
}
