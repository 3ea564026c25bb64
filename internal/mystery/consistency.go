package mystery

import (
	"fmt"
	"log/slog"
)

// FindingKind separates statements that clash from statements that agree.
type FindingKind int

const (
	Contradiction FindingKind = iota
	Corroboration
)

func (k FindingKind) String() string {
	if k == Contradiction {
		return "contradiction"
	}
	return "corroboration"
}

// Finding is derived evidence: either two statements on the same topic with
// incompatible fact values, or a statement measured against a true event.
// Findings are recomputable from the ledger plus the world; they are never
// primary state.
type Finding struct {
	Kind         FindingKind
	Speaker      PersonID // speaker of the newer statement
	Other        PersonID // the other speaker, when statement-vs-statement
	Subject      PersonID // person the newer statement is about, for contradictions
	OtherSubject PersonID // person the older statement is about
	Seq          int      // sequence number of the newer statement
	Prior        int      // sequence number of the older statement, zero when event-based
	Event        EventID  // backing event for ground-truth findings, zero otherwise
	Detail       string   // display hint for the rendering layer
}

// implicated lists each distinct person a contradiction casts doubt on: the
// speakers of both statements and any third party they were speaking about.
func (f Finding) implicated() []PersonID {
	ids := make([]PersonID, 0, 4)
	for _, id := range []PersonID{f.Speaker, f.Other, f.Subject, f.OtherSubject} {
		if id == "" {
			continue
		}
		seen := false
		for _, have := range ids {
			if have == id {
				seen = true
				break
			}
		}
		if !seen {
			ids = append(ids, id)
		}
	}
	return ids
}

// Engine evaluates each new statement against the ledger and the world. It
// holds no state of its own, which is what makes suspicion replay exact.
type Engine struct {
	world  *World
	ledger *Ledger
	logger *slog.Logger
}

func NewEngine(world *World, ledger *Ledger, logger *slog.Logger) *Engine {
	return &Engine{
		world:  world,
		ledger: ledger,
		logger: logger.With("source", "Engine"),
	}
}

// Check returns every finding the new statement triggers, in rule order:
// self-contradiction, cross-speaker conflict on the same topic, cross-suspect
// exclusivity, ground-truth conflict, then corroboration. Evasive statements
// commit to nothing and trigger nothing. Only statements already in the
// ledger with a smaller sequence number are consulted, so replaying the
// ledger through a fresh engine reproduces the findings exactly.
func (e *Engine) Check(st Statement) []Finding {
	if st.Status == Evasive || st.Value.IsNone() {
		return nil
	}

	var findings []Finding
	findings = append(findings, e.checkSelf(st)...)
	findings = append(findings, e.checkCrossSpeaker(st)...)
	findings = append(findings, e.checkExclusivity(st)...)
	if f, ok := e.checkGroundTruth(st); ok {
		findings = append(findings, f)
	}
	findings = append(findings, e.checkCorroboration(st)...)

	if len(findings) > 0 {
		e.logger.Debug("statement checked",
			slog.Int("seq", st.Seq),
			slog.String("speaker", string(st.Speaker)),
			slog.Int("findings", len(findings)))
	}
	return findings
}

// checkSelf flags the speaker changing their own story: a prior committed
// statement on the same topic with a different fact value.
func (e *Engine) checkSelf(st Statement) []Finding {
	var findings []Finding
	priors := e.ledger.Statements(Filter{Speaker: st.Speaker, Topic: &st.Topic, Before: st.Seq})
	for _, prior := range priors {
		if prior.Status == Evasive || prior.Value.IsNone() {
			continue
		}
		if prior.Value.Comparable(st.Value) && !prior.Value.Equal(st.Value) {
			findings = append(findings, Finding{
				Kind:         Contradiction,
				Speaker:      st.Speaker,
				Other:        st.Speaker,
				Subject:      st.Topic.Subject,
				OtherSubject: st.Topic.Subject,
				Seq:          st.Seq,
				Prior:        prior.Seq,
				Detail: fmt.Sprintf("%s first said %s, now says %s",
					st.Speaker, prior.Value, st.Value),
			})
		}
	}
	return findings
}

// checkCrossSpeaker flags two speakers committing to different fact values on
// the same topic. The timeline gives every person one place and one activity
// per hour, so differing accounts of the same subject cannot both be true,
// whoever gave them.
func (e *Engine) checkCrossSpeaker(st Statement) []Finding {
	var findings []Finding
	for _, prior := range e.ledger.Statements(Filter{Topic: &st.Topic, Before: st.Seq}) {
		if prior.Speaker == st.Speaker || prior.Status == Evasive || prior.Value.IsNone() {
			continue
		}
		if prior.Value.Comparable(st.Value) && !prior.Value.Equal(st.Value) {
			findings = append(findings, Finding{
				Kind:         Contradiction,
				Speaker:      st.Speaker,
				Other:        prior.Speaker,
				Subject:      st.Topic.Subject,
				OtherSubject: prior.Topic.Subject,
				Seq:          st.Seq,
				Prior:        prior.Seq,
				Detail: fmt.Sprintf("%s says %s but %s said %s",
					st.Speaker, st.Value, prior.Speaker, prior.Value),
			})
		}
	}
	return findings
}

// checkExclusivity flags two suspects both placing themselves in a
// sole-occupancy location at the same hour. Both cannot be right and the
// world marks the state impossible, so the later claim draws the finding.
func (e *Engine) checkExclusivity(st Statement) []Finding {
	if st.Topic.Kind != TopicWhereabouts || st.Value.Kind != ValueLocation {
		return nil
	}
	loc, ok := e.world.Location(st.Value.Location)
	if !ok || !loc.SoleOccupancy {
		return nil
	}

	var findings []Finding
	for _, prior := range e.ledger.Statements(Filter{Before: st.Seq}) {
		if prior.Status == Evasive ||
			prior.Topic.Kind != TopicWhereabouts ||
			prior.Topic.Hour != st.Topic.Hour ||
			prior.Topic.Subject == st.Topic.Subject {
			continue
		}
		if prior.Value.Equal(st.Value) {
			findings = append(findings, Finding{
				Kind:         Contradiction,
				Speaker:      st.Speaker,
				Other:        prior.Speaker,
				Subject:      st.Topic.Subject,
				OtherSubject: prior.Topic.Subject,
				Seq:          st.Seq,
				Prior:        prior.Seq,
				Detail: fmt.Sprintf("%s and %s cannot both have been in the %s at %d o'clock, it holds one person",
					st.Topic.Subject, prior.Topic.Subject, loc.Name, st.Topic.Hour),
			})
		}
	}
	return findings
}

// checkGroundTruth flags a fact value that conflicts with a true event the
// speaker could not plausibly be unaware of, i.e. one about themselves. This
// is how a lie becomes detectable rather than merely different.
func (e *Engine) checkGroundTruth(st Statement) (Finding, bool) {
	if st.Topic.Subject != st.Speaker {
		return Finding{}, false
	}
	truth, eventID := e.world.resolve(st.Topic)
	if truth.IsNone() || eventID == "" || eventID == e.world.crime.ID {
		// The crime event is not part of the gathered evidence; catching the
		// culprit out on the murder hour takes testimony, not the case file.
		return Finding{}, false
	}
	if truth.Comparable(st.Value) && !truth.Equal(st.Value) {
		return Finding{
			Kind:    Contradiction,
			Speaker: st.Speaker,
			Seq:     st.Seq,
			Event:   eventID,
			Detail:  fmt.Sprintf("%s claims %s but the evidence says %s", st.Speaker, st.Value, truth),
		}, true
	}
	return Finding{}, false
}

// checkCorroboration flags agreement: another speaker's prior statement, or a
// true event, matching the new fact value on the same topic.
func (e *Engine) checkCorroboration(st Statement) []Finding {
	var findings []Finding
	for _, prior := range e.ledger.Statements(Filter{Topic: &st.Topic, Before: st.Seq}) {
		if prior.Speaker == st.Speaker || prior.Status == Evasive {
			continue
		}
		if prior.Value.Equal(st.Value) {
			findings = append(findings, Finding{
				Kind:    Corroboration,
				Speaker: st.Speaker,
				Other:   prior.Speaker,
				Seq:     st.Seq,
				Prior:   prior.Seq,
				Detail:  fmt.Sprintf("%s agrees with %s", st.Speaker, prior.Speaker),
			})
		}
	}

	if truth, eventID := e.world.resolve(st.Topic); eventID != "" && eventID != e.world.crime.ID && truth.Equal(st.Value) {
		findings = append(findings, Finding{
			Kind:    Corroboration,
			Speaker: st.Speaker,
			Seq:     st.Seq,
			Event:   eventID,
			Detail:  fmt.Sprintf("the evidence backs %s up", st.Speaker),
		})
	}
	return findings
}
