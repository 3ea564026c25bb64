package mystery

import "log/slog"

// TrackerConfig holds the suspicion increments. The relative weighting is a
// gameplay tunable; the defaults follow the ordering contradiction > evasion
// > corroboration.
type TrackerConfig struct {
	ContradictionIncrement float64 `env:"GUMSHOE_CONTRADICTION_INCREMENT" envDefault:"0.15"`
	EvasionIncrement       float64 `env:"GUMSHOE_EVASION_INCREMENT" envDefault:"0.05"`
	CorroborationDecrement float64 `env:"GUMSHOE_CORROBORATION_DECREMENT" envDefault:"0.03"`
}

func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		ContradictionIncrement: 0.15,
		EvasionIncrement:       0.05,
		CorroborationDecrement: 0.03,
	}
}

// Tracker derives a per-suspect suspicion score from accumulated findings.
// The score is a cache over the ledger, not independent state: Replay
// reproduces it exactly from an empty tracker.
type Tracker struct {
	cfg    TrackerConfig
	scores map[PersonID]float64
	logger *slog.Logger
}

const initialSuspicion = 0.5

func NewTracker(cfg TrackerConfig, suspects []Person, logger *slog.Logger) *Tracker {
	scores := make(map[PersonID]float64, len(suspects))
	for _, s := range suspects {
		scores[s.ID] = initialSuspicion
	}
	return &Tracker{
		cfg:    cfg,
		scores: scores,
		logger: logger.With("source", "Tracker"),
	}
}

// Update folds one settled statement and its findings into the scores and
// returns the speaker's new score. Contradictions raise suspicion for every
// person they implicate, the claims' subjects included, corroborations lower
// it slightly, and an evasion counts against the speaker even though it
// triggers no findings.
func (t *Tracker) Update(st Statement, findings []Finding) float64 {
	if st.Status == Evasive {
		t.bump(st.Speaker, t.cfg.EvasionIncrement)
	}
	for _, f := range findings {
		switch f.Kind {
		case Contradiction:
			for _, id := range f.implicated() {
				t.bump(id, t.cfg.ContradictionIncrement)
			}
		case Corroboration:
			t.bump(f.Speaker, -t.cfg.CorroborationDecrement)
		}
	}
	return t.scores[st.Speaker]
}

func (t *Tracker) bump(id PersonID, delta float64) {
	score, ok := t.scores[id]
	if !ok {
		return
	}
	score += delta
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	t.scores[id] = score
}

// Score returns the current suspicion score for the suspect.
func (t *Tracker) Score(id PersonID) float64 {
	return t.scores[id]
}

// Scores returns a copy of all suspicion scores.
func (t *Tracker) Scores() map[PersonID]float64 {
	out := make(map[PersonID]float64, len(t.scores))
	for id, score := range t.scores {
		out[id] = score
	}
	return out
}

// Replay recomputes suspicion scores from scratch by running the full ledger
// through a fresh consistency engine and tracker. The result must equal the
// incrementally updated scores; the tests hold this law.
func Replay(cfg TrackerConfig, world *World, ledger *Ledger, logger *slog.Logger) map[PersonID]float64 {
	replayLedger := NewLedger()
	engine := NewEngine(world, replayLedger, logger)
	tracker := NewTracker(cfg, world.Suspects(), logger)
	for _, st := range ledger.All() {
		unsaved := st
		unsaved.Seq = 0
		seq, err := replayLedger.Append(unsaved)
		if err != nil {
			// Only reachable with a tampered ledger copy.
			continue
		}
		replayed := st
		replayed.Seq = seq
		tracker.Update(replayed, engine.Check(replayed))
	}
	return tracker.Scores()
}
