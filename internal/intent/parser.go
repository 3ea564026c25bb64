// Package intent reduces typed player questions to the closed topic set the
// interrogation core understands. There is no general language understanding:
// a fixed regex table either recognizes an intent or the shell reprompts.
package intent

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/myrjola/gumshoe/internal/mystery"
)

// Kind is the recognized intent of one line of player input.
type Kind int

const (
	KindUnknown Kind = iota
	KindWhereabouts
	KindActivity
	KindWeapon
	KindWitness
	KindRelationship
	KindMotive
	KindAccuse
	KindHelp
)

func (k Kind) String() string {
	switch k {
	case KindWhereabouts:
		return "whereabouts"
	case KindActivity:
		return "activity"
	case KindWeapon:
		return "weapon"
	case KindWitness:
		return "witness"
	case KindRelationship:
		return "relationship"
	case KindMotive:
		return "motive"
	case KindAccuse:
		return "accuse"
	case KindHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Accusation carries whatever pieces of the final answer the player named.
// The shell prompts for the missing parts before committing.
type Accusation struct {
	Culprit  mystery.PersonID
	Weapon   mystery.WeaponID
	Location mystery.LocationID
}

// Result is the parsed form of one input line. Topic is meaningful for the
// question kinds; Accusation only for KindAccuse.
type Result struct {
	Kind       Kind
	Topic      mystery.Topic
	Sensitive  bool
	Accusation Accusation
}

// The table is ordered: the first matching pattern decides the intent, so the
// more specific phrasings sit above the catch-alls.
var intentPatterns = []struct {
	kind    Kind
	pattern *regexp.Regexp
}{
	{KindHelp, regexp.MustCompile(`^\s*(help|\?)\s*$|what can i ask|suggest`)},
	{KindAccuse, regexp.MustCompile(`\baccuse\b|\bit was\b.*\bwith\b|you (did it|killed|murdered)`)},
	{KindWitness, regexp.MustCompile(`who saw|did (you|anyone|anybody) see|anyone see|\bwitness\b|were you with`)},
	{KindWeapon, regexp.MustCompile(`\bweapon\b|carrying|holding|what (did|were) you (use|handle)`)},
	{KindRelationship, regexp.MustCompile(`relationship|how (do|did) you know|related to|know the victim`)},
	{KindMotive, regexp.MustCompile(`\bmotive\b|\bgrudge\b|why would you|reason to (hurt|harm|want)`)},
	{KindActivity, regexp.MustCompile(`what (were|was) .*(doing|up to)|what did .* do\b|\bactivity\b`)},
	{KindWhereabouts, regexp.MustCompile(`\bwhere\b|whereabouts|location of`)},
}

var hourPattern = regexp.MustCompile(`\b(\d{1,2})(?::\d{2})?\s*(am|pm|o'?clock)?\b`)

var periodHours = map[string]int{
	"morning":   9,
	"afternoon": 14,
	"evening":   19,
	"night":     22,
	"midnight":  0,
	"noon":      12,
}

// Parser resolves input lines against one case world, so entity mentions map
// to the ids of that case.
type Parser struct {
	world *mystery.World
}

func NewParser(world *mystery.World) *Parser {
	return &Parser{world: world}
}

// Parse classifies one line of input in the context of the suspect currently
// being questioned. Unrecognized input yields KindUnknown; it never reaches
// the interrogation core.
func (p *Parser) Parse(input string, current mystery.PersonID) Result {
	text := strings.ToLower(strings.TrimSpace(input))
	if text == "" {
		return Result{}
	}

	kind := KindUnknown
	for _, entry := range intentPatterns {
		if entry.pattern.MatchString(text) {
			kind = entry.kind
			break
		}
	}

	switch kind {
	case KindUnknown, KindHelp:
		return Result{Kind: kind}
	case KindAccuse:
		return Result{Kind: KindAccuse, Accusation: p.parseAccusation(text)}
	}

	subject := current
	if named, ok := p.findPerson(text); ok && !p.isCurrentReference(text) {
		subject = named
	}

	topic := mystery.Topic{Subject: subject}
	switch kind {
	case KindWhereabouts:
		topic.Kind = mystery.TopicWhereabouts
		topic.Hour = p.hourIn(text)
	case KindActivity:
		topic.Kind = mystery.TopicActivity
		topic.Hour = p.hourIn(text)
	case KindWeapon:
		topic.Kind = mystery.TopicWeapon
	case KindWitness:
		topic.Kind = mystery.TopicWitness
		topic.Subject = current
		topic.Hour = p.hourIn(text)
		if named, ok := p.findPerson(text); ok && named != current {
			topic.Object = named
		} else {
			topic.Object = p.world.Victim().ID
		}
	case KindRelationship:
		topic.Kind = mystery.TopicRelationship
	case KindMotive:
		topic.Kind = mystery.TopicMotive
	}

	return Result{Kind: kind, Topic: topic, Sensitive: p.sensitive(topic)}
}

// sensitive marks the topics that put a suspect under pressure: anything
// touching the murder hour, the weapon, or their own motive.
func (p *Parser) sensitive(topic mystery.Topic) bool {
	switch topic.Kind {
	case mystery.TopicWeapon, mystery.TopicMotive:
		return true
	case mystery.TopicWhereabouts, mystery.TopicActivity, mystery.TopicWitness:
		return topic.Hour == p.world.MurderHour()
	default:
		return false
	}
}

// hourIn extracts an hour mention, defaulting to the murder hour so "where
// were you?" asks about the moment that matters.
func (p *Parser) hourIn(text string) int {
	for word, hour := range periodHours {
		if strings.Contains(text, word) {
			return hour
		}
	}
	if m := hourPattern.FindStringSubmatch(text); m != nil {
		hour, err := strconv.Atoi(m[1])
		if err == nil && hour <= 23 {
			if m[2] == "pm" && hour < 12 {
				hour += 12
			}
			if m[2] == "am" && hour == 12 {
				hour = 0
			}
			return hour
		}
	}
	return p.world.MurderHour()
}

func (p *Parser) parseAccusation(text string) Accusation {
	var acc Accusation
	if named, ok := p.findPerson(text); ok {
		acc.Culprit = named
	}
	for _, wp := range p.world.Weapons() {
		if strings.Contains(text, strings.ToLower(wp.Name)) {
			acc.Weapon = wp.ID
			break
		}
	}
	for _, loc := range p.world.Locations() {
		if strings.Contains(text, strings.ToLower(loc.Name)) {
			acc.Location = loc.ID
			break
		}
	}
	return acc
}

// findPerson matches a full name or any name word longer than three letters,
// so "scarlet" finds Miss Scarlet.
func (p *Parser) findPerson(text string) (mystery.PersonID, bool) {
	for _, person := range p.allPersons() {
		name := strings.ToLower(person.Name)
		if strings.Contains(text, name) {
			return person.ID, true
		}
		for _, word := range strings.Fields(name) {
			word = strings.Trim(word, ".")
			if len(word) > 3 && containsWord(text, word) {
				return person.ID, true
			}
		}
	}
	return "", false
}

func (p *Parser) allPersons() []mystery.Person {
	persons := p.world.Suspects()
	return append(persons, p.world.Victim())
}

// isCurrentReference reports whether the question addresses the suspect being
// questioned directly, which outranks any name also present in the line.
func (p *Parser) isCurrentReference(text string) bool {
	return containsWord(text, "you") || containsWord(text, "your")
}

func containsWord(text, word string) bool {
	for _, w := range strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == ',' || r == '?' || r == '.' || r == '!' || r == '\''
	}) {
		if w == word {
			return true
		}
	}
	return false
}

// Suggestions returns example questions for the help view.
func (p *Parser) Suggestions() []string {
	return []string{
		"Where were you at 9pm?",
		"What were you doing in the evening?",
		"Did anyone see you?",
		"What weapon were you carrying?",
		"How did you know the victim?",
		"Why would you want them dead?",
		"accuse <name> with the <weapon> in the <location>",
	}
}
