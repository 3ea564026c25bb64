// Package realizer turns recorded statements into spoken lines. Template
// choice is derived from the statement's sequence number, so a transcript
// renders identically on every replay.
package realizer

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/myrjola/gumshoe/internal/mystery"
)

type Realizer struct {
	world  *mystery.World
	logger *slog.Logger
}

func New(world *mystery.World, logger *slog.Logger) *Realizer {
	return &Realizer{world: world, logger: logger.With("source", "Realizer")}
}

// Committed answers share one pool per topic: a lie must sound exactly as
// confident as the truth, or the pool itself would give the liar away.
var committedTemplates = map[mystery.TopicKind][]string{
	mystery.TopicWhereabouts: {
		"I was in the %s.",
		"The %s. I was there the whole hour.",
		"I spent that hour in the %s.",
		"In the %s, as anyone will tell you.",
	},
	mystery.TopicActivity: {
		"I was %s.",
		"Busy %s, nothing more.",
		"I spent the time %s.",
		"Just %s, the whole while.",
	},
	mystery.TopicWeapon: {
		"I did handle the %s earlier, yes.",
		"Only the %s, and quite innocently.",
		"The %s passed through my hands, I admit.",
	},
	mystery.TopicMotive: {
		"There was %s between us, I admit.",
		"You will hear about %s sooner or later, so yes.",
		"%s. That is all it ever was.",
	},
}

var evasiveTemplates = map[mystery.TopicKind][]string{
	mystery.TopicWhereabouts: {
		"I could not say exactly where I was.",
		"Here and there. It was a long evening.",
		"My memory of that hour is not what it should be.",
	},
	mystery.TopicActivity: {
		"Nothing out of the ordinary.",
		"I kept myself busy, that is all.",
		"I could not tell you in any detail.",
	},
	mystery.TopicWeapon: {
		"I do not go about the house armed.",
		"Weapons are not really my concern.",
	},
	mystery.TopicWitness: {
		"I was not paying attention to who was about.",
		"I could not say who saw whom.",
	},
	mystery.TopicRelationship: {
		"We were acquainted. Leave it at that.",
		"I would rather not discuss the household's affairs.",
	},
	mystery.TopicMotive: {
		"I had no quarrel worth the name.",
		"You will have to ask someone fonder of gossip.",
	},
}

var witnessTemplates = map[bool][]string{
	true: {
		"Yes, %s was right there with me.",
		"I did see %s then, as it happens.",
	},
	false: {
		"No, I never laid eyes on %s at that hour.",
		"%s? Not that I saw.",
	},
}

var relationPhrases = map[mystery.RelationshipKind]string{
	mystery.RelationFriend:    "we were friends, good friends",
	mystery.RelationRival:     "rivals, I suppose you would say",
	mystery.RelationLover:     "we were close. Very close",
	mystery.RelationFamily:    "family. For whatever that counts",
	mystery.RelationColleague: "we worked together, nothing more",
	mystery.RelationStranger:  "we barely knew each other",
	mystery.RelationDebtor:    "there was money between us",
}

// Render produces the spoken line for a recorded statement.
func (r *Realizer) Render(st mystery.Statement) string {
	line := r.baseLine(st)

	speaker, ok := r.world.Person(st.Speaker)
	if !ok {
		return line
	}
	return r.flavour(speaker, st.Seq, line)
}

func (r *Realizer) baseLine(st mystery.Statement) string {
	if st.Status == mystery.Evasive || st.Value.IsNone() {
		return pick(evasiveTemplates[st.Topic.Kind], st.Seq)
	}

	switch st.Topic.Kind {
	case mystery.TopicWitness:
		name := string(st.Topic.Object)
		if p, ok := r.world.Person(st.Topic.Object); ok {
			name = p.Name
		}
		return fmt.Sprintf(pick(witnessTemplates[st.Value.Bool], st.Seq), name)
	case mystery.TopicRelationship:
		if phrase, ok := relationPhrases[st.Value.Relation]; ok {
			return strings.ToUpper(phrase[:1]) + phrase[1:] + "."
		}
		return pick(evasiveTemplates[mystery.TopicRelationship], st.Seq)
	default:
		pool, ok := committedTemplates[st.Topic.Kind]
		if !ok {
			return st.Value.String()
		}
		return fmt.Sprintf(pick(pool, st.Seq), r.valueText(st.Value))
	}
}

func (r *Realizer) valueText(v mystery.FactValue) string {
	switch v.Kind {
	case mystery.ValueLocation:
		if loc, ok := r.world.Location(v.Location); ok {
			return strings.ToLower(loc.Name)
		}
	case mystery.ValueWeapon:
		if wp, ok := r.world.Weapon(v.Weapon); ok {
			return strings.ToLower(wp.Name)
		}
	case mystery.ValueText:
		return v.Text
	}
	return v.String()
}

// flavour adds a trait-coloured tic. Only the jittery traits show; a composed
// suspect delivers the bare line.
func (r *Realizer) flavour(speaker mystery.Person, seq int, line string) string {
	switch {
	case speaker.HasTrait(mystery.TraitNervous):
		nervous := []string{"Well... %s", "%s At least, I think so.", "%s Why do you ask?"}
		return fmt.Sprintf(pick(nervous, seq), line)
	case speaker.HasTrait(mystery.TraitHostile):
		hostile := []string{"If you must know: %s", "%s Now are we done?", "%s Not that it is any of your business."}
		return fmt.Sprintf(pick(hostile, seq), line)
	default:
		return line
	}
}

func pick(pool []string, seq int) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[seq%len(pool)]
}
