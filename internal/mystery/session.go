package mystery

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/myrjola/gumshoe/internal/errors"
)

var (
	ErrSessionOver    = errors.NewSentinel("session is over")
	ErrUnknownSuspect = errors.NewSentinel("unknown suspect")
)

// SessionConfig bundles the tunables for one session.
type SessionConfig struct {
	Policy  PolicyConfig
	Tracker TrackerConfig
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Policy:  DefaultPolicyConfig(),
		Tracker: DefaultTrackerConfig(),
	}
}

// Answer is the structured outcome of one question, handed to the rendering
// layer: the recorded statement plus any findings it triggered.
type Answer struct {
	Statement Statement
	Findings  []Finding
	Suspicion float64
}

// Outcome resolves an accusation and ends the session.
type Outcome struct {
	Verdict Verdict
	Score   float64
	Stats   Stats
}

// Stats summarizes a finished interrogation.
type Stats struct {
	Questions      int
	Truthful       int
	Lies           int
	Evasions       int
	Contradictions int
	Corroborations int
}

// Session owns the case world, ledger, engine, policy, composer, and tracker
// for one game. It is single-threaded and turn-based: each Ask fully resolves
// before the next is accepted. Concurrent sessions each get their own
// Session; nothing is shared.
type Session struct {
	world    *World
	ledger   *Ledger
	engine   *Engine
	policy   *Policy
	composer *Composer
	tracker  *Tracker
	logger   *slog.Logger

	findings  []Finding
	questions int
	done      bool
}

var knownTraits = map[Trait]bool{
	TraitNervous:  true,
	TraitComposed: true,
	TraitHostile:  true,
	TraitErratic:  true,
}

// NewSession wires the subsystem together around a validated world. The
// random source is seeded from the world so a case replays identically.
// Misconfigured policies and unknown suspect traits fail here, before any
// interrogation begins.
func NewSession(world *World, cfg SessionConfig, logger *slog.Logger) (*Session, error) {
	for _, s := range world.Suspects() {
		for _, trait := range s.Traits {
			if !knownTraits[trait] {
				return nil, errors.Wrap(ErrDegeneratePolicy, "unknown trait",
					slog.String("suspect", string(s.ID)), slog.String("trait", string(trait)))
			}
		}
	}

	seed := uint64(world.Seed) //nolint:gosec // game seed, not security sensitive
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	ledger := NewLedger()
	policy, err := NewPolicy(cfg.Policy, world, rng, logger)
	if err != nil {
		return nil, errors.Wrap(err, "configure deception policy")
	}

	return &Session{
		world:    world,
		ledger:   ledger,
		engine:   NewEngine(world, ledger, logger),
		policy:   policy,
		composer: NewComposer(world, ledger, rng, logger),
		tracker:  NewTracker(cfg.Tracker, world.Suspects(), logger),
		logger:   logger.With("source", "Session", "case", world.CaseID),
	}, nil
}

// Ask resolves one question end to end: the policy picks a truth status, the
// composer builds and records the statement, the engine derives findings, and
// the tracker folds them into the suspicion score.
//
// A topic about entities the world doesn't know resolves to a no-knowledge
// answer rather than an error; asking a person who doesn't exist is the one
// caller bug reported as ErrUnknownSuspect.
func (s *Session) Ask(ctx context.Context, speaker PersonID, topic Topic, sensitive bool) (Answer, error) {
	if s.done {
		return Answer{}, ErrSessionOver
	}
	profile, ok := s.world.Person(speaker)
	if !ok || profile.Victim {
		return Answer{}, errors.Wrap(ErrUnknownSuspect, "cannot interrogate",
			slog.String("speaker", string(speaker)))
	}

	status := s.policy.Decide(profile, topic, sensitive)
	st, err := s.composer.Compose(profile, topic, status)
	if err != nil {
		// Ledger ordering violations mean the caller double-processed a
		// question. The session cannot be trusted afterwards.
		s.done = true
		return Answer{}, errors.Wrap(err, "record statement")
	}

	findings := s.engine.Check(st)
	suspicion := s.tracker.Update(st, findings)
	s.findings = append(s.findings, findings...)
	s.questions++

	s.logger.DebugContext(ctx, "question resolved",
		slog.Int("seq", st.Seq),
		slog.String("speaker", string(speaker)),
		slog.String("status", st.Status.String()),
		slog.Int("findings", len(findings)))

	return Answer{Statement: st, Findings: findings, Suspicion: suspicion}, nil
}

// Accuse commits the player to a final answer. This is the only path that
// reads the solution. The session ends regardless of the verdict.
func (s *Session) Accuse(ctx context.Context, culprit PersonID, weapon WeaponID, location LocationID) (Outcome, error) {
	if s.done {
		return Outcome{}, ErrSessionOver
	}
	if _, ok := s.world.Person(culprit); !ok {
		return Outcome{}, errors.Wrap(ErrUnknownSuspect, "accused person does not exist",
			slog.String("culprit", string(culprit)))
	}
	s.done = true

	verdict := s.world.evaluateAccusation(culprit, weapon, location)
	stats := s.stats()
	score := s.score(verdict, stats)

	s.logger.InfoContext(ctx, "accusation resolved",
		slog.Bool("correct", verdict.Correct),
		slog.Float64("score", score))

	return Outcome{Verdict: verdict, Score: score, Stats: stats}, nil
}

func (s *Session) stats() Stats {
	stats := Stats{Questions: s.questions}
	for _, st := range s.ledger.All() {
		switch st.Status {
		case Truthful:
			stats.Truthful++
		case Lie:
			stats.Lies++
		case Evasive:
			stats.Evasions++
		}
	}
	for _, f := range s.findings {
		switch f.Kind {
		case Contradiction:
			stats.Contradictions++
		case Corroboration:
			stats.Corroborations++
		}
	}
	return stats
}

// score follows the classic arcade formula: flat base, penalty for a wrong
// accusation, bonus for a quick solve and for every contradiction uncovered.
func (s *Session) score(verdict Verdict, stats Stats) float64 {
	score := 100.0
	if !verdict.Correct {
		score -= 50
	}
	switch {
	case stats.Questions <= 10:
		score += 20
	case stats.Questions < 20:
		score += 10
	}
	score += 5 * float64(stats.Contradictions)
	if score < 0 {
		score = 0
	}
	return score
}

// Done reports whether an accusation has ended the session.
func (s *Session) Done() bool {
	return s.done
}

// World exposes the case world for read-only consumers such as the timeline
// view. The world hides its solution.
func (s *Session) World() *World {
	return s.world
}

// Statements is the read-only query surface for the analysis views.
func (s *Session) Statements(f Filter) []Statement {
	return s.ledger.Statements(f)
}

// Findings returns the full finding history in discovery order.
func (s *Session) Findings() []Finding {
	out := make([]Finding, len(s.findings))
	copy(out, s.findings)
	return out
}

// Suspicion returns the current suspicion scores per suspect.
func (s *Session) Suspicion() map[PersonID]float64 {
	return s.tracker.Scores()
}

// ReplaySuspicion recomputes the scores from the ledger alone. Exposed for
// the analysis view's self-check and pinned by tests.
func (s *Session) ReplaySuspicion() map[PersonID]float64 {
	return Replay(s.tracker.cfg, s.world, s.ledger, s.logger)
}
