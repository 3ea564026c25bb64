// Package mystery implements the testimony and consistency subsystem of the
// game: the case world ground truth, the statement ledger, the consistency
// engine, the deception policy, the response composer, and the suspicion
// tracker. One Session owns one instance of each; nothing in this package is
// shared between sessions.
package mystery

import (
	"log/slog"

	"github.com/myrjola/gumshoe/internal/errors"
)

type (
	PersonID   string
	LocationID string
	WeaponID   string
	EventID    string
)

// Trait parameterizes the deception policy for a suspect.
type Trait string

const (
	TraitNervous  Trait = "nervous"
	TraitComposed Trait = "composed"
	TraitHostile  Trait = "hostile"
	// TraitErratic makes a liar re-roll their false story on repeated
	// questioning instead of sticking to it.
	TraitErratic Trait = "erratic"
)

// RelationshipKind describes how a suspect relates to the victim.
type RelationshipKind string

const (
	RelationFriend    RelationshipKind = "friend"
	RelationRival     RelationshipKind = "rival"
	RelationLover     RelationshipKind = "lover"
	RelationFamily    RelationshipKind = "family"
	RelationColleague RelationshipKind = "colleague"
	RelationStranger  RelationshipKind = "stranger"
	RelationDebtor    RelationshipKind = "debtor"
)

type Person struct {
	ID          PersonID
	Name        string
	Traits      []Trait
	Reliability float64 // in [0,1], lower means more likely to lie
	Motive      string  // the grudge this person would admit to under questioning
	Victim      bool
}

// HasTrait reports whether the person carries the given trait.
func (p Person) HasTrait(trait Trait) bool {
	for _, t := range p.Traits {
		if t == trait {
			return true
		}
	}
	return false
}

type Location struct {
	ID          LocationID
	Name        string
	Description string
	// SoleOccupancy marks a location that holds one person at a time, so two
	// suspects claiming to have been there at the same hour cannot both be
	// telling the truth.
	SoleOccupancy bool
	Connections   []LocationID
}

type Weapon struct {
	ID          WeaponID
	Name        string
	Description string
}

// Event is one entry in the ground-truth timeline. Every person has at most
// one event per hour, which is what makes whereabouts resolution total.
type Event struct {
	ID          EventID
	Hour        int // 24h clock
	Actor       PersonID
	Activity    string
	Location    LocationID
	Weapon      WeaponID // zero if no weapon was involved
	Crime       bool
	Description string
}

type Relationship struct {
	A    PersonID
	B    PersonID
	Kind RelationshipKind
}

// Solution is the hidden answer to the case. It is read by exactly one code
// path: World.evaluateAccusation, reached through Session.Accuse. The
// deception policy and composer never see it.
type Solution struct {
	Culprit  PersonID
	Victim   PersonID
	Weapon   WeaponID
	Location LocationID
	Motive   string
	Hour     int
}

var ErrInvalidWorld = errors.NewSentinel("case world violates integrity constraints")

// World is the immutable ground truth for one case. Construct it with
// NewWorld, which validates referential integrity once; afterwards the world
// is read-only for the rest of the session.
type World struct {
	CaseID    string
	Seed      int64
	persons   map[PersonID]Person
	order     []PersonID // persons in generation order for stable iteration
	locations map[LocationID]Location
	weapons   map[WeaponID]Weapon
	timeline  []Event // chronological
	relations []Relationship
	solution  Solution
	crime     Event
}

// NewWorld validates the generated case and freezes it. A world that fails
// validation never reaches the player.
func NewWorld(
	caseID string,
	seed int64,
	persons []Person,
	locations []Location,
	weapons []Weapon,
	timeline []Event,
	relations []Relationship,
	solution Solution,
) (*World, error) {
	w := World{
		CaseID:    caseID,
		Seed:      seed,
		persons:   make(map[PersonID]Person, len(persons)),
		order:     make([]PersonID, 0, len(persons)),
		locations: make(map[LocationID]Location, len(locations)),
		weapons:   make(map[WeaponID]Weapon, len(weapons)),
		timeline:  timeline,
		relations: relations,
		solution:  solution,
	}

	for _, p := range persons {
		if _, ok := w.persons[p.ID]; ok {
			return nil, errors.Wrap(ErrInvalidWorld, "duplicate person", slog.String("id", string(p.ID)))
		}
		if p.Reliability < 0 || p.Reliability > 1 {
			return nil, errors.Wrap(ErrInvalidWorld, "reliability out of range",
				slog.String("id", string(p.ID)), slog.Float64("reliability", p.Reliability))
		}
		w.persons[p.ID] = p
		w.order = append(w.order, p.ID)
	}
	for _, l := range locations {
		if _, ok := w.locations[l.ID]; ok {
			return nil, errors.Wrap(ErrInvalidWorld, "duplicate location", slog.String("id", string(l.ID)))
		}
		w.locations[l.ID] = l
	}
	for _, wp := range weapons {
		if _, ok := w.weapons[wp.ID]; ok {
			return nil, errors.Wrap(ErrInvalidWorld, "duplicate weapon", slog.String("id", string(wp.ID)))
		}
		w.weapons[wp.ID] = wp
	}

	if err := w.validateReferences(); err != nil {
		return nil, err
	}
	if err := w.validateCrime(); err != nil {
		return nil, err
	}

	return &w, nil
}

func (w *World) validateReferences() error {
	for _, l := range w.locations {
		for _, conn := range l.Connections {
			if _, ok := w.locations[conn]; !ok {
				return errors.Wrap(ErrInvalidWorld, "dangling location connection",
					slog.String("from", string(l.ID)), slog.String("to", string(conn)))
			}
		}
	}
	prevHour := -1
	for _, e := range w.timeline {
		if _, ok := w.persons[e.Actor]; !ok {
			return errors.Wrap(ErrInvalidWorld, "event actor unknown", slog.String("event", string(e.ID)))
		}
		if _, ok := w.locations[e.Location]; !ok {
			return errors.Wrap(ErrInvalidWorld, "event location unknown", slog.String("event", string(e.ID)))
		}
		if e.Weapon != "" {
			if _, ok := w.weapons[e.Weapon]; !ok {
				return errors.Wrap(ErrInvalidWorld, "event weapon unknown", slog.String("event", string(e.ID)))
			}
		}
		if e.Hour < prevHour {
			return errors.Wrap(ErrInvalidWorld, "timeline out of order", slog.String("event", string(e.ID)))
		}
		prevHour = e.Hour
	}
	for _, r := range w.relations {
		if _, ok := w.persons[r.A]; !ok {
			return errors.Wrap(ErrInvalidWorld, "relationship references unknown person", slog.String("id", string(r.A)))
		}
		if _, ok := w.persons[r.B]; !ok {
			return errors.Wrap(ErrInvalidWorld, "relationship references unknown person", slog.String("id", string(r.B)))
		}
	}
	return nil
}

func (w *World) validateCrime() error {
	s := w.solution
	if _, ok := w.persons[s.Culprit]; !ok {
		return errors.Wrap(ErrInvalidWorld, "solution culprit unknown")
	}
	victim, ok := w.persons[s.Victim]
	if !ok || !victim.Victim {
		return errors.Wrap(ErrInvalidWorld, "solution victim unknown or not marked as victim")
	}
	if s.Culprit == s.Victim {
		return errors.Wrap(ErrInvalidWorld, "culprit and victim are the same person")
	}
	if _, ok = w.weapons[s.Weapon]; !ok {
		return errors.Wrap(ErrInvalidWorld, "solution weapon unknown")
	}
	if _, ok = w.locations[s.Location]; !ok {
		return errors.Wrap(ErrInvalidWorld, "solution location unknown")
	}

	var crimes []Event
	for _, e := range w.timeline {
		if e.Crime {
			crimes = append(crimes, e)
		}
	}
	if len(crimes) != 1 {
		return errors.Wrap(ErrInvalidWorld, "expected exactly one crime event", slog.Int("count", len(crimes)))
	}
	crime := crimes[0]
	if crime.Actor != s.Culprit || crime.Location != s.Location || crime.Hour != s.Hour || crime.Weapon != s.Weapon {
		return errors.Wrap(ErrInvalidWorld, "crime event does not match solution")
	}
	w.crime = crime
	return nil
}

// Person returns the person for the id.
func (w *World) Person(id PersonID) (Person, bool) {
	p, ok := w.persons[id]
	return p, ok
}

// Suspects returns every living person, in stable order.
func (w *World) Suspects() []Person {
	suspects := make([]Person, 0, len(w.order))
	for _, id := range w.order {
		if p := w.persons[id]; !p.Victim {
			suspects = append(suspects, p)
		}
	}
	return suspects
}

// Victim returns the murder victim. The body is public knowledge.
func (w *World) Victim() Person {
	return w.persons[w.solution.Victim]
}

// MurderHour is public knowledge established by the coroner.
func (w *World) MurderHour() int {
	return w.solution.Hour
}

func (w *World) Location(id LocationID) (Location, bool) {
	l, ok := w.locations[id]
	return l, ok
}

func (w *World) Weapon(id WeaponID) (Weapon, bool) {
	wp, ok := w.weapons[id]
	return wp, ok
}

// Locations returns all locations. Order is unspecified.
func (w *World) Locations() []Location {
	locations := make([]Location, 0, len(w.locations))
	for _, l := range w.locations {
		locations = append(locations, l)
	}
	return locations
}

// Weapons returns all weapons. Order is unspecified.
func (w *World) Weapons() []Weapon {
	weapons := make([]Weapon, 0, len(w.weapons))
	for _, wp := range w.weapons {
		weapons = append(weapons, wp)
	}
	return weapons
}

// PublicTimeline returns the events a player may review in the timeline view.
// The crime event stays hidden; finding it is the point of the game.
func (w *World) PublicTimeline() []Event {
	public := make([]Event, 0, len(w.timeline))
	for _, e := range w.timeline {
		if !e.Crime {
			public = append(public, e)
		}
	}
	return public
}

// RelationToVictim returns the suspect's relationship to the victim,
// defaulting to stranger when no relationship was generated.
func (w *World) RelationToVictim(id PersonID) RelationshipKind {
	for _, r := range w.relations {
		if (r.A == id && r.B == w.solution.Victim) || (r.B == id && r.A == w.solution.Victim) {
			return r.Kind
		}
	}
	return RelationStranger
}

// culpable reports whether the person committed the murder. It exists so the
// deception policy can apply guilt pressure from a single derived bit instead
// of reading the Solution record.
func (w *World) culpable(id PersonID) bool {
	return id == w.solution.Culprit
}

// Verdict is the outcome of an accusation. It reveals the solution, which is
// why only Session.Accuse constructs one.
type Verdict struct {
	Correct       bool
	CulpritRight  bool
	WeaponRight   bool
	LocationRight bool
	Solution      Solution
}

func (w *World) evaluateAccusation(culprit PersonID, weapon WeaponID, location LocationID) Verdict {
	v := Verdict{
		CulpritRight:  culprit == w.solution.Culprit,
		WeaponRight:   weapon == w.solution.Weapon,
		LocationRight: location == w.solution.Location,
		Solution:      w.solution,
	}
	v.Correct = v.CulpritRight && v.WeaponRight && v.LocationRight
	return v
}
