package mystery

import (
	"log/slog"
	"math/rand/v2"

	"github.com/myrjola/gumshoe/internal/errors"
)

// PolicyConfig holds the tunable weights of the deception policy. The zero
// value is unusable; start from DefaultPolicyConfig.
type PolicyConfig struct {
	// SensitiveLieBoost shifts probability mass from truthful to lie when the
	// topic implicates the speaker.
	SensitiveLieBoost float64 `env:"GUMSHOE_SENSITIVE_LIE_BOOST" envDefault:"0.30"`
	// SensitiveEvadeBoost does the same toward evasion.
	SensitiveEvadeBoost float64 `env:"GUMSHOE_SENSITIVE_EVADE_BOOST" envDefault:"0.15"`
	// GuiltPressure is added to the lie weight when a culpable speaker faces
	// a sensitive topic.
	GuiltPressure float64 `env:"GUMSHOE_GUILT_PRESSURE" envDefault:"0.35"`
	// NervousEvadeBoost raises the evasive weight for nervous suspects.
	NervousEvadeBoost float64 `env:"GUMSHOE_NERVOUS_EVADE_BOOST" envDefault:"0.20"`
	// ComposedLieDamp lowers the lie weight for composed suspects.
	ComposedLieDamp float64 `env:"GUMSHOE_COMPOSED_LIE_DAMP" envDefault:"0.15"`
	// HostileLieBoost raises the lie weight for hostile suspects.
	HostileLieBoost float64 `env:"GUMSHOE_HOSTILE_LIE_BOOST" envDefault:"0.15"`
	// MinTruthful, MinEvasive, and MaxLie bound the final distribution. They
	// keep the culprit solvable: the lie probability never reaches 1 and the
	// evasive probability never reaches 0, so repeated questioning always has
	// a chance of shaking the story loose.
	MinTruthful float64 `env:"GUMSHOE_MIN_TRUTHFUL" envDefault:"0.05"`
	MinEvasive  float64 `env:"GUMSHOE_MIN_EVASIVE" envDefault:"0.05"`
	MaxLie      float64 `env:"GUMSHOE_MAX_LIE" envDefault:"0.85"`
}

func DefaultPolicyConfig() PolicyConfig {
	return PolicyConfig{
		SensitiveLieBoost:   0.30,
		SensitiveEvadeBoost: 0.15,
		GuiltPressure:       0.35,
		NervousEvadeBoost:   0.20,
		ComposedLieDamp:     0.15,
		HostileLieBoost:     0.15,
		MinTruthful:         0.05,
		MinEvasive:          0.05,
		MaxLie:              0.85,
	}
}

var ErrDegeneratePolicy = errors.NewSentinel("deception policy weights are degenerate")

// Validate fails fast on weights that could produce an invalid distribution,
// so a malformed configuration never reaches an interrogation.
func (c PolicyConfig) Validate() error {
	for name, v := range map[string]float64{
		"SensitiveLieBoost":   c.SensitiveLieBoost,
		"SensitiveEvadeBoost": c.SensitiveEvadeBoost,
		"GuiltPressure":       c.GuiltPressure,
		"NervousEvadeBoost":   c.NervousEvadeBoost,
		"ComposedLieDamp":     c.ComposedLieDamp,
		"HostileLieBoost":     c.HostileLieBoost,
	} {
		if v < 0 || v > 1 {
			return errors.Wrap(ErrDegeneratePolicy, "weight out of range",
				slog.String("weight", name), slog.Float64("value", v))
		}
	}
	if c.MinTruthful <= 0 || c.MinEvasive <= 0 {
		return errors.Wrap(ErrDegeneratePolicy, "lower bounds must be positive")
	}
	if c.MaxLie >= 1 {
		return errors.Wrap(ErrDegeneratePolicy, "MaxLie must be below 1")
	}
	if c.MinTruthful+c.MinEvasive >= 1 {
		return errors.Wrap(ErrDegeneratePolicy, "lower bounds leave no room for lies")
	}
	return nil
}

// Distribution is a categorical distribution over the three truth statuses.
// The fields sum to 1 after normalization.
type Distribution struct {
	Truthful float64
	Lie      float64
	Evasive  float64
}

// Policy decides, per answer, whether a suspect tells the truth, lies, or
// evades. Each call draws fresh from the distribution; the same suspect may
// answer the same topic differently on repeated asking. Keeping committed
// stories straight is the consistency engine's job, not the policy's.
type Policy struct {
	cfg    PolicyConfig
	world  *World
	rng    *rand.Rand
	logger *slog.Logger
}

// NewPolicy validates the configuration and binds the policy to a world and
// a seeded random source. The source makes sessions replayable.
func NewPolicy(cfg PolicyConfig, world *World, rng *rand.Rand, logger *slog.Logger) (*Policy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Policy{
		cfg:    cfg,
		world:  world,
		rng:    rng,
		logger: logger.With("source", "Policy"),
	}, nil
}

// Distribute computes the answer distribution for a speaker facing a topic.
// It is a pure function of its inputs, which keeps the policy auditable: the
// tests pin the formula down and Decide only adds the draw.
func (p *Policy) Distribute(profile Person, topic Topic, sensitive bool) Distribution {
	// Reliability splits the base mass: a fully reliable suspect starts all
	// truthful, an unreliable one splits the remainder toward deception.
	d := Distribution{
		Truthful: profile.Reliability,
		Lie:      (1 - profile.Reliability) * 0.6,
		Evasive:  (1 - profile.Reliability) * 0.4,
	}

	if sensitive {
		shift := p.cfg.SensitiveLieBoost + p.cfg.SensitiveEvadeBoost
		d.Truthful *= 1 - shift
		d.Lie += p.cfg.SensitiveLieBoost
		d.Evasive += p.cfg.SensitiveEvadeBoost
	}

	if profile.HasTrait(TraitNervous) {
		d.Evasive += p.cfg.NervousEvadeBoost
	}
	if profile.HasTrait(TraitComposed) {
		d.Lie -= p.cfg.ComposedLieDamp
		if d.Lie < 0 {
			d.Lie = 0
		}
	}
	if profile.HasTrait(TraitHostile) {
		d.Lie += p.cfg.HostileLieBoost
	}

	// Guilt pressure comes from a single derived bit, never from the
	// solution record itself.
	if sensitive && p.world.culpable(profile.ID) {
		d.Lie += p.cfg.GuiltPressure
	}

	return p.bound(d)
}

// bound normalizes the distribution and enforces the solvability floors: the
// culprit is never certain to lie and never unable to waver.
func (p *Policy) bound(d Distribution) Distribution {
	total := d.Truthful + d.Lie + d.Evasive
	if total <= 0 {
		// All mass eliminated by trait damping; fall back to honesty.
		return Distribution{Truthful: 1}
	}
	d.Truthful /= total
	d.Lie /= total
	d.Evasive /= total

	if d.Truthful < p.cfg.MinTruthful {
		d.Truthful = p.cfg.MinTruthful
	}
	if d.Evasive < p.cfg.MinEvasive {
		d.Evasive = p.cfg.MinEvasive
	}
	if d.Lie > p.cfg.MaxLie {
		d.Lie = p.cfg.MaxLie
	}
	total = d.Truthful + d.Lie + d.Evasive
	d.Truthful /= total
	d.Lie /= total
	d.Evasive /= total
	return d
}

// Decide draws once against the distribution.
func (p *Policy) Decide(profile Person, topic Topic, sensitive bool) TruthStatus {
	d := p.Distribute(profile, topic, sensitive)
	roll := p.rng.Float64()
	var status TruthStatus
	switch {
	case roll < d.Truthful:
		status = Truthful
	case roll < d.Truthful+d.Lie:
		status = Lie
	default:
		status = Evasive
	}
	p.logger.Debug("decided truth status",
		slog.String("speaker", string(profile.ID)),
		slog.String("topic", topic.Key()),
		slog.Bool("sensitive", sensitive),
		slog.String("status", status.String()))
	return status
}
