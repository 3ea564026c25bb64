package mystery

import "fmt"

// TopicKind enumerates the closed set of things a question can be about. The
// intent layer reduces free text to one of these before it reaches the core.
type TopicKind int

const (
	// TopicWhereabouts asks where Subject was at Hour.
	TopicWhereabouts TopicKind = iota
	// TopicActivity asks what Subject was doing at Hour.
	TopicActivity
	// TopicWeapon asks what weapon Subject handled during the evening.
	TopicWeapon
	// TopicRelationship asks how Subject related to the victim.
	TopicRelationship
	// TopicWitness asks whether Subject saw Object at Hour.
	TopicWitness
	// TopicMotive asks what grudge Subject held against the victim.
	TopicMotive
)

func (k TopicKind) String() string {
	switch k {
	case TopicWhereabouts:
		return "whereabouts"
	case TopicActivity:
		return "activity"
	case TopicWeapon:
		return "weapon"
	case TopicRelationship:
		return "relationship"
	case TopicWitness:
		return "witness"
	case TopicMotive:
		return "motive"
	}
	return "unknown"
}

// Topic is the normalized subject of a question, independent of phrasing.
// Two statements are "about the same thing" exactly when their topic keys
// are equal.
type Topic struct {
	Kind    TopicKind
	Subject PersonID
	Object  PersonID // witness topics only
	Hour    int      // whereabouts, activity, and witness topics only
}

// Key returns the canonical identity of the topic.
func (t Topic) Key() string {
	switch t.Kind {
	case TopicWhereabouts, TopicActivity:
		return fmt.Sprintf("%s/%s@%02d", t.Kind, t.Subject, t.Hour)
	case TopicWitness:
		return fmt.Sprintf("%s/%s/%s@%02d", t.Kind, t.Subject, t.Object, t.Hour)
	case TopicWeapon, TopicRelationship, TopicMotive:
		return fmt.Sprintf("%s/%s", t.Kind, t.Subject)
	}
	return fmt.Sprintf("unknown/%s", t.Subject)
}

// ValueKind tags the closed variant of fact values so that incomparable
// values are never compared during contradiction checks.
type ValueKind int

const (
	// ValueNone marks the "no knowledge, no commitment" sentinel.
	ValueNone ValueKind = iota
	// ValueLocation carries a location id.
	ValueLocation
	// ValueText carries an activity or motive phrase.
	ValueText
	// ValueWeapon carries a weapon id.
	ValueWeapon
	// ValueRelation carries a relationship kind.
	ValueRelation
	// ValueBool carries a yes/no answer.
	ValueBool
)

// FactValue is the asserted content of a statement.
type FactValue struct {
	Kind     ValueKind
	Location LocationID
	Text     string
	Weapon   WeaponID
	Relation RelationshipKind
	Bool     bool
}

// NotApplicable is the explicit "no knowledge" sentinel. It commits the
// speaker to nothing and never participates in contradiction checks.
func NotApplicable() FactValue {
	return FactValue{Kind: ValueNone}
}

func LocationValue(id LocationID) FactValue { return FactValue{Kind: ValueLocation, Location: id} }

func TextValue(s string) FactValue { return FactValue{Kind: ValueText, Text: s} }

func WeaponValue(id WeaponID) FactValue { return FactValue{Kind: ValueWeapon, Weapon: id} }

func RelationValue(k RelationshipKind) FactValue { return FactValue{Kind: ValueRelation, Relation: k} }

func BoolValue(b bool) FactValue { return FactValue{Kind: ValueBool, Bool: b} }

// IsNone reports whether the value is the no-knowledge sentinel.
func (v FactValue) IsNone() bool {
	return v.Kind == ValueNone
}

// Comparable reports whether two values belong to the same domain. Values of
// different kinds neither contradict nor corroborate each other.
func (v FactValue) Comparable(other FactValue) bool {
	return v.Kind == other.Kind && v.Kind != ValueNone
}

// Equal reports whether two comparable values assert the same fact.
func (v FactValue) Equal(other FactValue) bool {
	if !v.Comparable(other) {
		return false
	}
	switch v.Kind {
	case ValueLocation:
		return v.Location == other.Location
	case ValueText:
		return v.Text == other.Text
	case ValueWeapon:
		return v.Weapon == other.Weapon
	case ValueRelation:
		return v.Relation == other.Relation
	case ValueBool:
		return v.Bool == other.Bool
	case ValueNone:
		return false
	}
	return false
}

// String renders the raw value for logs and persistence; the realizer turns
// values into prose.
func (v FactValue) String() string {
	switch v.Kind {
	case ValueNone:
		return "n/a"
	case ValueLocation:
		return string(v.Location)
	case ValueText:
		return v.Text
	case ValueWeapon:
		return string(v.Weapon)
	case ValueRelation:
		return string(v.Relation)
	case ValueBool:
		if v.Bool {
			return "yes"
		}
		return "no"
	}
	return "n/a"
}
