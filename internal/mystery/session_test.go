package mystery_test

import (
	"context"
	"testing"

	"github.com/myrjola/gumshoe/internal/mystery"
	"github.com/stretchr/testify/require"
)

func TestSession_AskResolvesEndToEnd(t *testing.T) {
	session := newTestSession(t)
	ctx := context.Background()

	answer, err := session.Ask(ctx, "bram", whereabouts("bram", 20), false)
	require.NoError(t, err)
	require.Equal(t, 1, answer.Statement.Seq)
	require.Equal(t, mystery.PersonID("bram"), answer.Statement.Speaker)
	require.Contains(t, []mystery.TruthStatus{mystery.Truthful, mystery.Lie, mystery.Evasive},
		answer.Statement.Status)
	require.GreaterOrEqual(t, answer.Suspicion, 0.0)
	require.LessOrEqual(t, answer.Suspicion, 1.0)

	answer, err = session.Ask(ctx, "dane", whereabouts("dane", 20), false)
	require.NoError(t, err)
	require.Equal(t, 2, answer.Statement.Seq, "sequence numbers grow across speakers")
}

func TestSession_AskRejectsUnknownAndVictim(t *testing.T) {
	session := newTestSession(t)
	ctx := context.Background()

	_, err := session.Ask(ctx, "nobody", whereabouts("nobody", 20), false)
	require.ErrorIs(t, err, mystery.ErrUnknownSuspect)

	_, err = session.Ask(ctx, "alice", whereabouts("alice", 20), false)
	require.ErrorIs(t, err, mystery.ErrUnknownSuspect, "the victim cannot be interrogated")

	require.False(t, session.Done(), "a rejected question does not end the session")
}

func TestSession_UnknownTopicEntityYieldsNoKnowledge(t *testing.T) {
	session := newTestSession(t)

	answer, err := session.Ask(context.Background(), "bram", mystery.Topic{
		Kind: mystery.TopicWitness, Subject: "bram", Object: "phantom", Hour: 20,
	}, false)
	require.NoError(t, err, "questions about unknown entities are answered, not rejected")
	require.Equal(t, mystery.Evasive, answer.Statement.Status)
	require.True(t, answer.Statement.Value.IsNone())
}

func TestSession_ReplayIsDeterministic(t *testing.T) {
	ask := func(t *testing.T) []mystery.Statement {
		t.Helper()
		session := newTestSession(t)
		ctx := context.Background()
		for _, s := range session.World().Suspects() {
			for _, hour := range []int{19, 20, 21} {
				_, err := session.Ask(ctx, s.ID, whereabouts(s.ID, hour), hour == 21)
				require.NoError(t, err)
			}
		}
		return session.Statements(mystery.Filter{})
	}

	first := ask(t)
	second := ask(t)
	require.Equal(t, first, second, "the same case seed and question order replays identically")
}

// Pressing the culprit on the murder hour must never produce an unbroken run
// of truthful answers: the policy caps truthfulness on sensitive topics for
// the guilty.
func TestSession_CulpritCracksUnderPressure(t *testing.T) {
	session := newTestSession(t)
	ctx := context.Background()

	nonTruthful := 0
	for i := 0; i < 20; i++ {
		answer, err := session.Ask(ctx, "cora", whereabouts("cora", 21), true)
		require.NoError(t, err)
		if answer.Statement.Status != mystery.Truthful {
			nonTruthful++
		}
	}
	require.Positive(t, nonTruthful, "twenty pressing questions must shake loose at least one deflection")
}

func TestSession_AccuseCorrect(t *testing.T) {
	session := newTestSession(t)
	ctx := context.Background()

	for i, s := range session.World().Suspects() {
		_, err := session.Ask(ctx, s.ID, whereabouts(s.ID, 21), true)
		require.NoError(t, err, "question %d", i)
	}

	outcome, err := session.Accuse(ctx, "cora", "dagger", "study")
	require.NoError(t, err)
	require.True(t, outcome.Verdict.Correct)
	require.True(t, outcome.Verdict.CulpritRight)
	require.Equal(t, mystery.PersonID("cora"), outcome.Verdict.Solution.Culprit)
	require.Equal(t, 4, outcome.Stats.Questions)
	require.GreaterOrEqual(t, outcome.Score, 120.0, "a quick correct solve earns base plus speed bonus")
	require.True(t, session.Done())
}

func TestSession_AccuseWrongStillEndsSession(t *testing.T) {
	session := newTestSession(t)
	ctx := context.Background()

	outcome, err := session.Accuse(ctx, "bram", "rope", "garden")
	require.NoError(t, err)
	require.False(t, outcome.Verdict.Correct)
	require.False(t, outcome.Verdict.WeaponRight)
	require.Equal(t, mystery.PersonID("cora"), outcome.Verdict.Solution.Culprit,
		"the reveal names the real solution even after a wrong accusation")
	require.Equal(t, mystery.WeaponID("dagger"), outcome.Verdict.Solution.Weapon)
	require.True(t, session.Done())
}

func TestSession_PartialAccusation(t *testing.T) {
	session := newTestSession(t)

	outcome, err := session.Accuse(context.Background(), "cora", "rope", "study")
	require.NoError(t, err)
	require.False(t, outcome.Verdict.Correct, "the full triple must match")
	require.True(t, outcome.Verdict.CulpritRight)
	require.False(t, outcome.Verdict.WeaponRight)
	require.True(t, outcome.Verdict.LocationRight)
}

func TestSession_OverRejectsFurtherPlay(t *testing.T) {
	session := newTestSession(t)
	ctx := context.Background()

	_, err := session.Accuse(ctx, "cora", "dagger", "study")
	require.NoError(t, err)

	_, err = session.Ask(ctx, "bram", whereabouts("bram", 20), false)
	require.ErrorIs(t, err, mystery.ErrSessionOver)
	_, err = session.Accuse(ctx, "cora", "dagger", "study")
	require.ErrorIs(t, err, mystery.ErrSessionOver)
}

func TestSession_AccuseUnknownSuspect(t *testing.T) {
	session := newTestSession(t)

	_, err := session.Accuse(context.Background(), "nobody", "dagger", "study")
	require.ErrorIs(t, err, mystery.ErrUnknownSuspect)
	require.False(t, session.Done(), "a bad accusation attempt does not end the session")
}

func TestSession_StatsAccounting(t *testing.T) {
	session := newTestSession(t)
	ctx := context.Background()

	for _, s := range session.World().Suspects() {
		for _, hour := range []int{19, 20, 21, 22} {
			_, err := session.Ask(ctx, s.ID, whereabouts(s.ID, hour), hour == 21)
			require.NoError(t, err)
		}
	}

	outcome, err := session.Accuse(ctx, "cora", "dagger", "study")
	require.NoError(t, err)
	require.Equal(t, 16, outcome.Stats.Questions)
	require.Equal(t, outcome.Stats.Questions,
		outcome.Stats.Truthful+outcome.Stats.Lies+outcome.Stats.Evasions,
		"every question lands in exactly one truth status bucket")
}
