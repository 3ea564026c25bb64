// Package casegen procedurally generates case worlds from embedded entity
// templates. Generation is fully determined by the seed; the resulting world
// is validated before it is handed to a session.
package casegen

import (
	_ "embed"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/internal/mystery"
)

//go:embed templates.yaml
var templatesYAML []byte

var ErrBadConfig = errors.NewSentinel("invalid case generation config")

// Config holds the generation tunables.
type Config struct {
	Suspects   int `env:"GUMSHOE_SUSPECTS" envDefault:"4"`
	StartHour  int `env:"GUMSHOE_START_HOUR" envDefault:"19"`
	MurderHour int `env:"GUMSHOE_MURDER_HOUR" envDefault:"21"`
	EndHour    int `env:"GUMSHOE_END_HOUR" envDefault:"22"`
}

func DefaultConfig() Config {
	return Config{Suspects: 4, StartHour: 19, MurderHour: 21, EndHour: 22}
}

type personTemplate struct {
	Name   string   `yaml:"name"`
	Traits []string `yaml:"traits"`
}

type locationTemplate struct {
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	SoleOccupancy bool   `yaml:"sole_occupancy"`
}

type weaponTemplate struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type templates struct {
	Persons    []personTemplate   `yaml:"persons"`
	Locations  []locationTemplate `yaml:"locations"`
	Weapons    []weaponTemplate   `yaml:"weapons"`
	Activities []string           `yaml:"activities"`
	Motives    []string           `yaml:"motives"`
}

const (
	caseLocations = 6
	caseWeapons   = 6
)

// Generator builds case worlds from the embedded template pools.
type Generator struct {
	cfg    Config
	tmpl   templates
	logger *slog.Logger
}

func NewGenerator(cfg Config, logger *slog.Logger) (*Generator, error) {
	var tmpl templates
	if err := yaml.Unmarshal(templatesYAML, &tmpl); err != nil {
		return nil, errors.Wrap(err, "parse embedded case templates")
	}

	switch {
	case cfg.Suspects < 2:
		return nil, errors.Wrap(ErrBadConfig, "need at least two suspects",
			slog.Int("suspects", cfg.Suspects))
	case cfg.Suspects+1 > len(tmpl.Persons):
		return nil, errors.Wrap(ErrBadConfig, "not enough person templates",
			slog.Int("suspects", cfg.Suspects), slog.Int("templates", len(tmpl.Persons)))
	case len(tmpl.Locations) < caseLocations || len(tmpl.Weapons) < caseWeapons:
		return nil, errors.Wrap(ErrBadConfig, "entity template pools too small")
	case cfg.StartHour >= cfg.MurderHour || cfg.MurderHour > cfg.EndHour:
		return nil, errors.Wrap(ErrBadConfig, "hours must satisfy start < murder <= end",
			slog.Int("start", cfg.StartHour), slog.Int("murder", cfg.MurderHour), slog.Int("end", cfg.EndHour))
	}

	return &Generator{cfg: cfg, tmpl: tmpl, logger: logger.With("source", "Generator")}, nil
}

// Generate builds a complete validated case world. The same seed always
// produces the same case apart from the uuid-based case id.
func (g *Generator) Generate(seed int64) (*mystery.World, error) {
	s := uint64(seed) //nolint:gosec // game seed, not security sensitive
	rng := rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))

	persons := g.castSuspects(rng)
	victim := &persons[rng.IntN(len(persons))]
	victim.Victim = true
	culprit := victim
	for culprit.Victim {
		culprit = &persons[rng.IntN(len(persons))]
	}

	locations := g.furnishLocations(rng)
	weapons := make([]mystery.Weapon, caseWeapons)
	for i, tm := range sample(rng, g.tmpl.Weapons, caseWeapons) {
		weapons[i] = mystery.Weapon{ID: mystery.WeaponID(slug(tm.Name)), Name: tm.Name, Description: tm.Description}
	}

	solution := mystery.Solution{
		Culprit:  culprit.ID,
		Victim:   victim.ID,
		Weapon:   weapons[rng.IntN(len(weapons))].ID,
		Location: locations[rng.IntN(len(locations))].ID,
		Motive:   culprit.Motive,
		Hour:     g.cfg.MurderHour,
	}

	timeline := g.plotTimeline(rng, persons, locations, weapons, solution)
	relations := g.entangle(rng, persons, *victim)

	caseID := "case-" + uuid.NewString()
	world, err := mystery.NewWorld(caseID, seed, persons, locations, weapons, timeline, relations, solution)
	if err != nil {
		return nil, errors.Wrap(err, "assemble generated case", slog.Int64("seed", seed))
	}

	g.logger.Debug("generated case",
		slog.String("case", caseID),
		slog.Int64("seed", seed),
		slog.Int("suspects", len(persons)-1),
		slog.Int("events", len(timeline)))
	return world, nil
}

func (g *Generator) castSuspects(rng *rand.Rand) []mystery.Person {
	cast := sample(rng, g.tmpl.Persons, g.cfg.Suspects+1)
	persons := make([]mystery.Person, len(cast))
	for i, tm := range cast {
		traits := make([]mystery.Trait, len(tm.Traits))
		for j, t := range tm.Traits {
			traits[j] = mystery.Trait(t)
		}
		persons[i] = mystery.Person{
			ID:          mystery.PersonID(slug(tm.Name)),
			Name:        tm.Name,
			Traits:      traits,
			Reliability: 0.3 + rng.Float64()*0.6,
			Motive:      g.tmpl.Motives[rng.IntN(len(g.tmpl.Motives))],
		}
	}
	return persons
}

func (g *Generator) furnishLocations(rng *rand.Rand) []mystery.Location {
	chosen := sample(rng, g.tmpl.Locations, caseLocations)

	haveSole := false
	for _, tm := range chosen {
		haveSole = haveSole || tm.SoleOccupancy
	}
	if !haveSole {
		// A sole-occupancy room is what makes exclusivity findings possible.
		chosen[0].SoleOccupancy = true
	}

	locations := make([]mystery.Location, len(chosen))
	for i, tm := range chosen {
		locations[i] = mystery.Location{
			ID:            mystery.LocationID(slug(tm.Name)),
			Name:          tm.Name,
			Description:   tm.Description,
			SoleOccupancy: tm.SoleOccupancy,
		}
	}

	// Sparse symmetric floor plan: every room connects to two or three others.
	adjacency := make(map[int]map[int]bool, len(locations))
	for i := range locations {
		adjacency[i] = make(map[int]bool)
	}
	for i := range locations {
		degree := 2 + rng.IntN(2)
		for _, j := range rng.Perm(len(locations)) {
			if len(adjacency[i]) >= degree {
				break
			}
			if j == i {
				continue
			}
			adjacency[i][j] = true
			adjacency[j][i] = true
		}
	}
	for i := range locations {
		for j := range adjacency[i] {
			locations[i].Connections = append(locations[i].Connections, locations[j].ID)
		}
	}
	return locations
}

// plotTimeline gives every living person exactly one event per hour, so
// whereabouts questions always have a ground-truth answer. The culprit's
// murder-hour event is the crime; the victim shares the room and then
// disappears from the timeline.
func (g *Generator) plotTimeline(
	rng *rand.Rand,
	persons []mystery.Person,
	locations []mystery.Location,
	weapons []mystery.Weapon,
	solution mystery.Solution,
) []mystery.Event {
	var timeline []mystery.Event
	eventSeq := 0
	nextID := func() mystery.EventID {
		eventSeq++
		return mystery.EventID(fmt.Sprintf("e%d", eventSeq))
	}

	for hour := g.cfg.StartHour; hour <= g.cfg.EndHour; hour++ {
		soleClaimed := make(map[mystery.LocationID]bool)
		for _, p := range persons {
			switch {
			case p.Victim && hour > solution.Hour:
				continue
			case p.ID == solution.Culprit && hour == solution.Hour:
				timeline = append(timeline, mystery.Event{
					ID:          nextID(),
					Hour:        hour,
					Actor:       p.ID,
					Activity:    "committing the murder",
					Location:    solution.Location,
					Weapon:      solution.Weapon,
					Crime:       true,
					Description: fmt.Sprintf("%s murdered the victim", p.Name),
				})
				continue
			case p.Victim && hour == solution.Hour:
				timeline = append(timeline, g.idleEvent(rng, nextID(), p, hour, solution.Location))
				continue
			}

			loc := g.pickRoom(rng, locations, soleClaimed, solution, hour)
			e := g.idleEvent(rng, nextID(), p, hour, loc.ID)
			if rng.Float64() < 0.15 {
				// An occasional red herring: somebody seen handling a weapon
				// that is not the murder weapon.
				wp := weapons[rng.IntN(len(weapons))]
				if wp.ID != solution.Weapon {
					e.Weapon = wp.ID
					e.Activity = "carrying the " + strings.ToLower(wp.Name)
					e.Description = fmt.Sprintf("%s was carrying the %s", p.Name, strings.ToLower(wp.Name))
				}
			}
			timeline = append(timeline, e)
		}
	}
	return timeline
}

func (g *Generator) idleEvent(rng *rand.Rand, id mystery.EventID, p mystery.Person, hour int, loc mystery.LocationID) mystery.Event {
	activity := g.tmpl.Activities[rng.IntN(len(g.tmpl.Activities))]
	return mystery.Event{
		ID:          id,
		Hour:        hour,
		Actor:       p.ID,
		Activity:    activity,
		Location:    loc,
		Description: fmt.Sprintf("%s was %s", p.Name, activity),
	}
}

// pickRoom chooses a room for an innocent hour: never a sole-occupancy room
// someone already holds this hour, and never the murder room during the
// murder hour so the crime has no accidental witnesses.
func (g *Generator) pickRoom(
	rng *rand.Rand,
	locations []mystery.Location,
	soleClaimed map[mystery.LocationID]bool,
	solution mystery.Solution,
	hour int,
) mystery.Location {
	var candidates []mystery.Location
	for _, loc := range locations {
		if loc.SoleOccupancy && soleClaimed[loc.ID] {
			continue
		}
		if hour == solution.Hour && loc.ID == solution.Location {
			continue
		}
		candidates = append(candidates, loc)
	}
	loc := candidates[rng.IntN(len(candidates))]
	if loc.SoleOccupancy {
		soleClaimed[loc.ID] = true
	}
	return loc
}

func (g *Generator) entangle(rng *rand.Rand, persons []mystery.Person, victim mystery.Person) []mystery.Relationship {
	kinds := []mystery.RelationshipKind{
		mystery.RelationFriend, mystery.RelationRival, mystery.RelationLover,
		mystery.RelationFamily, mystery.RelationColleague, mystery.RelationDebtor,
	}
	var relations []mystery.Relationship
	for _, p := range persons {
		if p.Victim || rng.Float64() >= 0.7 {
			continue
		}
		relations = append(relations, mystery.Relationship{
			A:    p.ID,
			B:    victim.ID,
			Kind: kinds[rng.IntN(len(kinds))],
		})
	}
	return relations
}

func sample[T any](rng *rand.Rand, pool []T, n int) []T {
	out := make([]T, n)
	for i, j := range rng.Perm(len(pool))[:n] {
		out[i] = pool[j]
	}
	return out
}

func slug(name string) string {
	s := strings.ToLower(name)
	s = strings.NewReplacer(".", "", ",", "", "'", "").Replace(s)
	return strings.ReplaceAll(s, " ", "-")
}
