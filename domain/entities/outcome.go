package entities

// Symbol is a single reel symbol.
type Symbol string

// Outcome is the ordered reel combination produced by one spin.
// Immutable once generated.
type Outcome []Symbol

// Strings returns the outcome as plain strings for serialization.
func (o Outcome) Strings() []string {
	s := make([]string, len(o))
	for i, sym := range o {
		s[i] = string(sym)
	}
	return s
}

// AllMatch reports whether every symbol in the outcome is identical.
func (o Outcome) AllMatch() bool {
	if len(o) == 0 {
		return false
	}
	for _, sym := range o[1:] {
		if sym != o[0] {
			return false
		}
	}
	return true
}

// AdjacentPair reports whether two neighbouring reels show the same
// symbol. An outer pair split by a different middle symbol does not
// count; only neighbours pay.
func (o Outcome) AdjacentPair() bool {
	for i := 1; i < len(o); i++ {
		if o[i] == o[i-1] {
			return true
		}
	}
	return false
}

// OutcomeFromStrings rebuilds an Outcome from its serialized form.
func OutcomeFromStrings(s []string) Outcome {
	o := make(Outcome, len(s))
	for i, sym := range s {
		o[i] = Symbol(sym)
	}
	return o
}
