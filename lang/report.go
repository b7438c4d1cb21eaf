package lang

import "strings"

// Entry is one classified failure in the report. Path locates the failing
// leaf in the expression: the chain of macro names and choice tags entered,
// ending at the leaf's own label.
type Entry struct {
	Path       string   `json:"path"       yaml:"path"`
	Kind       LeafKind `json:"kind"       yaml:"kind"`
	Actionable bool     `json:"actionable" yaml:"actionable"`
	Detail     string   `json:"detail"     yaml:"detail"`
}

// Report is the complete classified set of failing leaves from one
// evaluation. The builder never suppresses entries: filtering non-actionable
// failures (or failures inside satisfied OR groups) is a presentation
// concern and belongs to the caller.
type Report struct {
	Entries []Entry `json:"entries" yaml:"entries"`
}

// Empty reports whether no leaf failed.
func (r *Report) Empty() bool { return len(r.Entries) == 0 }

// Actionable returns only the entries the caller could plausibly remedy by
// installing or enabling something.
func (r *Report) Actionable() []Entry {
	entries := make([]Entry, 0, len(r.Entries))

	for _, e := range r.Entries {
		if e.Actionable {
			entries = append(entries, e)
		}
	}

	return entries
}

// BuildReport reduces an evaluation trace to its report: one entry per
// failing leaf, in evaluation order.
func BuildReport(trace *Trace) *Report {
	rep := &Report{}
	collect(trace, nil, rep)

	return rep
}

func collect(t *Trace, path []string, rep *Report) {
	if t == nil {
		return
	}

	// Macro and tag boundaries become breadcrumb segments.
	switch t.Expr.(type) {
	case *MacroRef, *Tagged:
		path = append(path, t.label())
	}

	if t.Leaf != nil && !t.Value.Bool {
		rep.add(t, path)
	}

	// A memoized reference shares the first reference's subtree, which has
	// already been collected.
	if t.Memo {
		return
	}

	for _, child := range t.Children {
		collect(child, path, rep)
	}
}

func (r *Report) add(t *Trace, path []string) {
	leaf := t.Leaf

	full := joinPath(append(path, leafSubject(t)))

	if len(leaf.Missing) > 0 {
		// One entry per missing item, so each is independently actionable.
		for _, item := range leaf.Missing {
			r.Entries = append(r.Entries, Entry{
				Path:       full,
				Kind:       leaf.Kind,
				Actionable: leaf.Kind.Actionable(),
				Detail:     detailFor(leaf, item),
			})
		}

		return
	}

	r.Entries = append(r.Entries, Entry{
		Path:       full,
		Kind:       leaf.Kind,
		Actionable: leaf.Kind.Actionable(),
		Detail:     leaf.Answer,
	})
}

func leafSubject(t *Trace) string {
	if t.Leaf.Subject != "" {
		return t.Leaf.Subject
	}

	return t.label()
}

func detailFor(leaf *LeafDetail, item string) string {
	var sb strings.Builder

	sb.WriteString(leaf.Kind.String())
	sb.WriteByte(' ')
	sb.WriteString(item)

	if leaf.Answer != "" {
		sb.WriteString(" (")
		sb.WriteString(leaf.Answer)
		sb.WriteByte(')')
	}

	return sb.String()
}

// MarshalText renders the kind for serialized reports.
func (k LeafKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
