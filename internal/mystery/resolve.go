package mystery

// Resolve answers a topic from the ground truth. It is total: every topic
// about a known person yields either a concrete fact or the NotApplicable
// sentinel, never an error. Unknown subjects resolve to NotApplicable, which
// callers surface as "the suspect has no knowledge".
func (w *World) Resolve(t Topic) FactValue {
	v, _ := w.resolve(t)
	return v
}

// resolve additionally reports the timeline event backing the fact so the
// consistency engine can reference it in ground-truth findings.
func (w *World) resolve(t Topic) (FactValue, EventID) {
	if _, ok := w.persons[t.Subject]; !ok {
		return NotApplicable(), ""
	}

	switch t.Kind {
	case TopicWhereabouts:
		if e, ok := w.eventFor(t.Subject, t.Hour); ok {
			return LocationValue(e.Location), e.ID
		}
	case TopicActivity:
		if e, ok := w.eventFor(t.Subject, t.Hour); ok {
			return TextValue(e.Activity), e.ID
		}
	case TopicWeapon:
		// The weapon handled closest to the murder hour is the one worth
		// asking about.
		var (
			best     Event
			bestDist = -1
		)
		for _, e := range w.timeline {
			if e.Actor != t.Subject || e.Weapon == "" {
				continue
			}
			dist := e.Hour - w.solution.Hour
			if dist < 0 {
				dist = -dist
			}
			if bestDist < 0 || dist < bestDist {
				best, bestDist = e, dist
			}
		}
		if bestDist >= 0 {
			return WeaponValue(best.Weapon), best.ID
		}
	case TopicRelationship:
		return RelationValue(w.RelationToVictim(t.Subject)), ""
	case TopicWitness:
		if _, ok := w.persons[t.Object]; !ok {
			return NotApplicable(), ""
		}
		subject, subjectOK := w.eventFor(t.Subject, t.Hour)
		object, objectOK := w.eventFor(t.Object, t.Hour)
		if !subjectOK || !objectOK {
			return NotApplicable(), ""
		}
		if subject.Location == object.Location {
			return BoolValue(true), object.ID
		}
		return BoolValue(false), subject.ID
	case TopicMotive:
		if p := w.persons[t.Subject]; p.Motive != "" {
			return TextValue(p.Motive), ""
		}
	}
	return NotApplicable(), ""
}

func (w *World) eventFor(actor PersonID, hour int) (Event, bool) {
	for _, e := range w.timeline {
		if e.Actor == actor && e.Hour == hour {
			return e, true
		}
	}
	return Event{}, false
}
