package types

import (
	"sort"
	"strings"

	"golang.org/x/exp/maps"
)

// UnionType is an inference-only set of candidate types; TypeInferer
// (spec.md §4.8) narrows it toward a single candidate as it visits more
// uses of the same binding. It is never a user-visible annotation.
type UnionType struct {
	candidates map[string]Type
}

// NewUnionType builds a UnionType from an initial set of candidates,
// flattening any nested UnionType member.
func NewUnionType(ts ...Type) *UnionType {
	u := &UnionType{candidates: map[string]Type{}}
	for _, t := range ts {
		u.add(t)
	}
	return u
}

func (u *UnionType) add(t Type) {
	if other, ok := t.(*UnionType); ok {
		for _, m := range other.Members() {
			u.candidates[m.Name()] = m
		}
		return
	}
	u.candidates[t.Name()] = t
}

// Members returns the candidate set in a stable, name-sorted order so
// Narrow/Widen and String() are deterministic across runs.
func (u *UnionType) Members() []Type {
	names := maps.Keys(u.candidates)
	sort.Strings(names)
	out := make([]Type, len(names))
	for i, n := range names {
		out[i] = u.candidates[n]
	}
	return out
}

func (u *UnionType) Name() string { return u.String() }

func (u *UnionType) String() string {
	members := u.Members()
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = m.Name()
	}
	return strings.Join(parts, " | ")
}

// ConformsTo holds iff at least one candidate conforms to other
// (spec.md §4.9: "A UnionType conforms to T iff at least one element
// does"). When other is itself a UnionType (two not-yet-fully-narrowed
// slots compared against each other, e.g. the same Concat-narrowed
// parameter checked against its own constraint), that per-element rule
// is applied set-wise: u conforms iff every one of its candidates
// conforms to some candidate of other. A bare concrete type never
// conforms to a multi-candidate UnionType this way - only another
// UnionType built from the same (or a subset of) candidates does -
// Union types are inference-internal and deliberately do not widen
// plain values (spec.md §8 scenario 6: `f(1)` must still fail against a
// parameter narrowed to Union(Number, String)).
func (u *UnionType) ConformsTo(other Type) bool {
	if other == Error {
		return true
	}
	if ou, ok := other.(*UnionType); ok {
		for _, m := range u.Members() {
			found := false
			for _, om := range ou.Members() {
				if m.ConformsTo(om) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	}
	for _, m := range u.Members() {
		if m.ConformsTo(other) {
			return true
		}
	}
	return false
}

// Narrow intersects the union with t, per spec.md §4.8: "narrows the
// stored type of an identifier-bound variable by intersection with T if
// its current type is a UnionType". t is usually a single concrete type,
// but a narrowing site that itself allows more than one candidate (the
// Concat rule narrows toward Union(Number, String)) passes a UnionType;
// that is treated as "any of t's members", not as one atomic candidate
// named e.g. "Number | String" - matching by the whole union's composite
// name would never intersect anything and would wrongly collapse the
// slot to the empty union on every later pass. Returns the resulting
// type (which may collapse to a single non-union Type when only one
// candidate survives) and whether the set actually changed.
func Narrow(current Type, t Type) (Type, bool) {
	if current == nil {
		return t, true
	}
	allowed := map[string]bool{}
	if tu, ok := t.(*UnionType); ok {
		for _, m := range tu.Members() {
			allowed[m.Name()] = true
		}
	} else {
		allowed[t.Name()] = true
	}
	u, ok := current.(*UnionType)
	if !ok {
		// current is already concrete: it is returned unchanged whatever t
		// is, rather than forming a new union; a disagreement with t is
		// left for TypeChecker to report.
		return current, false
	}
	intersection := map[string]Type{}
	for _, m := range u.Members() {
		if allowed[m.Name()] {
			intersection[m.Name()] = m
		}
	}
	if len(intersection) == len(u.candidates) {
		return u, false
	}
	nu := &UnionType{candidates: intersection}
	if len(nu.candidates) == 1 {
		return nu.Members()[0], true
	}
	return nu, true
}

// Widen forms the union of current with t (the "|" lattice operation),
// used when unioning branch/body result types (spec.md §4.8:
// "Conditional/Loop: body types unioned").
func Widen(current Type, t Type) Type {
	if current == nil {
		return t
	}
	if t == nil {
		return current
	}
	if current.Name() == t.Name() {
		return current
	}
	return NewUnionType(current, t)
}
