package mystery

import (
	"log/slog"

	"github.com/myrjola/gumshoe/internal/errors"
)

// TruthStatus labels what a statement is worth: the speaker told the truth,
// asserted a false fact, or committed to nothing.
type TruthStatus int

const (
	Truthful TruthStatus = iota
	Lie
	Evasive
)

func (s TruthStatus) String() string {
	switch s {
	case Truthful:
		return "truthful"
	case Lie:
		return "lie"
	case Evasive:
		return "evasive"
	}
	return "unknown"
}

// Statement is one recorded utterance. It is immutable once appended; the
// ledger owns the sequence numbers.
type Statement struct {
	Seq     int // assigned by the ledger, strictly increasing from 1
	Speaker PersonID
	Topic   Topic
	Value   FactValue
	Status  TruthStatus
}

// ErrOutOfSequence signals a caller bug such as double-recording a question.
// It is fatal to the session.
var ErrOutOfSequence = errors.NewSentinel("statement appended out of sequence")

// Ledger is the append-only audit trail of everything the suspects have said.
// It is the session's only mutable collection besides the suspicion scores.
type Ledger struct {
	statements []Statement
	nextSeq    int
}

func NewLedger() *Ledger {
	return &Ledger{nextSeq: 1}
}

// Append records the statement and returns its assigned sequence number. The
// statement must be unsaved (zero Seq); anything else means the caller is
// replaying an already-settled answer.
func (l *Ledger) Append(st Statement) (int, error) {
	if st.Seq != 0 {
		return 0, errors.Wrap(ErrOutOfSequence, "statement already has a sequence number",
			slog.Int("seq", st.Seq))
	}
	st.Seq = l.nextSeq
	l.nextSeq++
	l.statements = append(l.statements, st)
	return st.Seq, nil
}

// Len returns the number of recorded statements.
func (l *Ledger) Len() int {
	return len(l.statements)
}

// Filter narrows ledger queries. Zero values match everything.
type Filter struct {
	Speaker PersonID
	Topic   *Topic
	// Before keeps only statements with Seq < Before. Zero means no bound.
	Before int
}

// Statements returns matching statements ordered by sequence number.
func (l *Ledger) Statements(f Filter) []Statement {
	var out []Statement
	for _, st := range l.statements {
		if f.Speaker != "" && st.Speaker != f.Speaker {
			continue
		}
		if f.Topic != nil && st.Topic.Key() != f.Topic.Key() {
			continue
		}
		if f.Before > 0 && st.Seq >= f.Before {
			continue
		}
		out = append(out, st)
	}
	return out
}

// All returns every statement in order. The returned slice is a copy.
func (l *Ledger) All() []Statement {
	out := make([]Statement, len(l.statements))
	copy(out, l.statements)
	return out
}
