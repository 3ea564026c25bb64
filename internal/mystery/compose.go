package mystery

import (
	"log/slog"
	"math/rand/v2"
	"sort"
)

// Composer turns a truth-status decision into the structured content of an
// answer and records it on the ledger. When lying it fabricates a plausible
// alternative from the same value domain as the truth, and keeps the false
// story stable across repeated questioning unless the suspect is erratic.
type Composer struct {
	world  *World
	ledger *Ledger
	rng    *rand.Rand
	logger *slog.Logger
	// liesTold caches the false value per (speaker, topic) so a consistent
	// liar keeps lying the same way.
	liesTold map[string]FactValue
}

func NewComposer(world *World, ledger *Ledger, rng *rand.Rand, logger *slog.Logger) *Composer {
	return &Composer{
		world:    world,
		ledger:   ledger,
		rng:      rng,
		logger:   logger.With("source", "Composer"),
		liesTold: make(map[string]FactValue),
	}
}

// Compose builds the statement for the decided truth status, appends it to
// the ledger, and returns it with its assigned sequence number. A lie with no
// plausible alternative value degrades to an evasion rather than failing.
func (c *Composer) Compose(speaker Person, topic Topic, status TruthStatus) (Statement, error) {
	var value FactValue
	switch status {
	case Truthful:
		value = c.world.Resolve(topic)
		if value.IsNone() {
			// Nothing to truthfully say; an honest shrug is still an answer.
			status = Evasive
		}
	case Evasive:
		value = NotApplicable()
	case Lie:
		value = c.falseValue(speaker, topic)
		if value.IsNone() {
			status = Evasive
		}
	}

	st := Statement{
		Speaker: speaker.ID,
		Topic:   topic,
		Value:   value,
		Status:  status,
	}
	seq, err := c.ledger.Append(st)
	if err != nil {
		return Statement{}, err
	}
	st.Seq = seq

	c.logger.Debug("composed statement",
		slog.Int("seq", st.Seq),
		slog.String("speaker", string(speaker.ID)),
		slog.String("topic", topic.Key()),
		slog.String("status", status.String()))
	return st, nil
}

func (c *Composer) falseValue(speaker Person, topic Topic) FactValue {
	key := string(speaker.ID) + "|" + topic.Key()
	if cached, ok := c.liesTold[key]; ok && !speaker.HasTrait(TraitErratic) {
		return cached
	}

	truth := c.world.Resolve(topic)
	var value FactValue
	switch topic.Kind {
	case TopicWhereabouts:
		value = c.falseLocation(speaker, topic, truth)
	case TopicActivity:
		value = c.falseActivity(truth)
	case TopicWeapon:
		value = c.falseWeapon(truth)
	case TopicRelationship:
		value = c.falseRelation(truth)
	case TopicWitness:
		if truth.Kind == ValueBool {
			value = BoolValue(!truth.Bool)
		}
	case TopicMotive:
		// Deny having any grudge at all.
		value = TextValue("no grudge worth mentioning")
		if truth.Equal(value) {
			value = NotApplicable()
		}
	}

	if !value.IsNone() {
		c.liesTold[key] = value
	}
	return value
}

// falseLocation picks a stand-in location: never the true one, never a
// sole-occupancy spot someone else has already credibly claimed for that
// hour, and preferably somewhere connected to places the suspect really
// visited so the story holds up.
func (c *Composer) falseLocation(speaker Person, topic Topic, truth FactValue) FactValue {
	visited := make(map[LocationID]bool)
	for _, e := range c.world.timeline {
		if e.Actor == speaker.ID {
			visited[e.Location] = true
		}
	}

	claimed := make(map[LocationID]bool)
	for _, st := range c.ledger.All() {
		if st.Speaker != speaker.ID &&
			st.Status != Evasive &&
			st.Topic.Kind == TopicWhereabouts &&
			st.Topic.Hour == topic.Hour &&
			st.Value.Kind == ValueLocation {
			claimed[st.Value.Location] = true
		}
	}

	var candidates []Location
	for _, loc := range c.world.Locations() {
		if truth.Kind == ValueLocation && loc.ID == truth.Location {
			continue
		}
		if loc.SoleOccupancy && claimed[loc.ID] {
			// Trivially impossible: the spot is already spoken for.
			continue
		}
		candidates = append(candidates, loc)
	}
	if len(candidates) == 0 {
		return NotApplicable()
	}
	// Map iteration order leaks into Locations(); sort for reproducible draws.
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })

	// Prefer places the suspect plausibly frequents.
	var plausible []Location
	for _, loc := range candidates {
		if visited[loc.ID] {
			plausible = append(plausible, loc)
			continue
		}
		for _, conn := range loc.Connections {
			if visited[conn] {
				plausible = append(plausible, loc)
				break
			}
		}
	}
	if len(plausible) > 0 {
		candidates = plausible
	}
	return LocationValue(candidates[c.rng.IntN(len(candidates))].ID)
}

// innocentActivities is the pool of cover stories, after the Clue tradition.
var innocentActivities = []string{
	"reading", "playing cards", "writing letters", "listening to the gramophone",
	"smoking on the terrace", "dozing off", "fixing a drink",
}

func (c *Composer) falseActivity(truth FactValue) FactValue {
	var candidates []string
	for _, a := range innocentActivities {
		if truth.Kind == ValueText && a == truth.Text {
			continue
		}
		candidates = append(candidates, a)
	}
	if len(candidates) == 0 {
		return NotApplicable()
	}
	return TextValue(candidates[c.rng.IntN(len(candidates))])
}

func (c *Composer) falseWeapon(truth FactValue) FactValue {
	var candidates []Weapon
	for _, wp := range c.world.Weapons() {
		if truth.Kind == ValueWeapon && wp.ID == truth.Weapon {
			continue
		}
		if wp.ID == c.world.crime.Weapon {
			// Nobody volunteers the murder weapon.
			continue
		}
		candidates = append(candidates, wp)
	}
	if len(candidates) == 0 {
		return NotApplicable()
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })
	return WeaponValue(candidates[c.rng.IntN(len(candidates))].ID)
}

func (c *Composer) falseRelation(truth FactValue) FactValue {
	// Downplay: claim the most distant relation that isn't the truth.
	for _, k := range []RelationshipKind{RelationStranger, RelationColleague, RelationFriend} {
		if truth.Kind == ValueRelation && truth.Relation == k {
			continue
		}
		return RelationValue(k)
	}
	return NotApplicable()
}
