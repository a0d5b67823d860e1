package hadron

/* list.go contains the per-event hadron list and the Ref handles into it. */

// List is the hadron collection for a single event. It is the only owner of
// its hadrons: everyone else holds Refs. A List is not safe for concurrent
// use.
type List struct {
	hadrons    []Hadron
	generation uint64
}

// NewList creates an empty list with room for n hadrons.
func NewList(n int) *List {
	return &List{hadrons: make([]Hadron, 0, n)}
}

// Append copies hs onto the end of the list.
func (l *List) Append(hs ...Hadron) {
	l.hadrons = append(l.hadrons, hs...)
}

// Len returns the number of hadrons in the list.
func (l *List) Len() int { return len(l.hadrons) }

// At returns a copy of hadron i.
func (l *List) At(i int) Hadron { return l.hadrons[i] }

// Refs returns a handle for every hadron in the list, in order.
func (l *List) Refs() []Ref {
	refs := make([]Ref, len(l.hadrons))
	for i := range refs {
		refs[i] = Ref{list: l, index: i, generation: l.generation}
	}
	return refs
}

// Ref returns a handle to hadron i.
func (l *List) Ref(i int) Ref {
	return Ref{list: l, index: i, generation: l.generation}
}

// Clear empties the list. Every Ref taken before the call goes stale.
func (l *List) Clear() {
	l.hadrons = l.hadrons[:0]
	l.generation++
}

// Ref is a non-owning, nullable handle to a hadron in a List. The zero Ref
// points at nothing.
type Ref struct {
	list       *List
	index      int
	generation uint64
}

// Get returns the referenced hadron and true, or nil and false if the
// handle is empty or its list has been cleared since the handle was made.
// The returned pointer is only good until the list is next modified.
func (r Ref) Get() (*Hadron, bool) {
	if !r.Valid() {
		return nil, false
	}
	return &r.list.hadrons[r.index], true
}

// Valid reports whether the handle still resolves to a live hadron.
func (r Ref) Valid() bool {
	return r.list != nil && r.generation == r.list.generation &&
		r.index >= 0 && r.index < len(r.list.hadrons)
}
