package lang

import (
	"strconv"
	"strings"
)

// Version is an immutable, ordered sequence of components parsed from a
// version literal. Each component has a numeric part and an optional
// alphabetic/underscore suffix (e.g. "5.8.1_01" or "1.2b").
type Version struct {
	raw   string
	comps []component
}

type component struct {
	num    uint64
	suffix string
}

// ParseVersion parses a version literal. Components are separated by dots;
// each component is a decimal number optionally followed by a suffix
// beginning with a letter or underscore. The grammar is deliberately
// permissive beyond that.
func ParseVersion(text string) (Version, error) {
	if text == "" {
		return Version{}, newLexError(0, 0, 0, "empty version literal")
	}

	parts := strings.Split(text, ".")
	comps := make([]component, 0, len(parts))

	for _, part := range parts {
		if part == "" {
			return Version{}, newLexError(0, 0, 0,
				"malformed version literal %q", text)
		}

		i := 0
		for i < len(part) && isDigit(part[i]) {
			i++
		}

		var num uint64

		if i > 0 {
			n, err := strconv.ParseUint(part[:i], 10, 64)
			if err != nil {
				return Version{}, newLexError(0, 0, 0,
					"malformed version literal %q", text)
			}

			num = n
		}

		suffix := part[i:]
		if suffix != "" && !isIdentStart(suffix[0]) {
			return Version{}, newLexError(0, 0, 0,
				"malformed version literal %q", text)
		}

		comps = append(comps, component{num: num, suffix: suffix})
	}

	return Version{raw: text, comps: comps}, nil
}

// mustVersion is a test and table-literal convenience.
func mustVersion(text string) Version {
	v, err := ParseVersion(text)
	if err != nil {
		panic(err)
	}

	return v
}

// String returns the version as written in source.
func (v Version) String() string { return v.raw }

// IsZero reports whether v is the zero Version (no components).
func (v Version) IsZero() bool { return len(v.comps) == 0 }

// Compare orders two versions component by component. Numeric parts compare
// numerically; suffixes compare bytewise after equal numeric parts. The
// shorter sequence is padded with zero components.
func (v Version) Compare(o Version) int {
	n := len(v.comps)
	if len(o.comps) > n {
		n = len(o.comps)
	}

	for i := range n {
		var a, b component

		if i < len(v.comps) {
			a = v.comps[i]
		}

		if i < len(o.comps) {
			b = o.comps[i]
		}

		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		}

		if c := strings.Compare(a.suffix, b.suffix); c != 0 {
			return c
		}
	}

	return 0
}

// Range is one interval of a version Set. A nil bound is open on that side.
// Negated flips the containment verdict when the range decides membership.
type Range struct {
	Low     *Version
	High    *Version
	Negated bool
}

// Contains reports whether v falls in the range, honoring negation.
func (r Range) Contains(v Version) bool {
	in := r.within(v)
	if r.Negated {
		return !in
	}

	return in
}

// within tests the un-negated interval low <= v <= high.
func (r Range) within(v Version) bool {
	if r.Low != nil && v.Compare(*r.Low) < 0 {
		return false
	}

	if r.High != nil && v.Compare(*r.High) > 0 {
		return false
	}

	return true
}

// String renders the range in set syntax.
func (r Range) String() string {
	var sb strings.Builder

	if r.Negated {
		sb.WriteByte('!')
	}

	switch {
	case r.Low != nil && r.High != nil && r.Low.Compare(*r.High) == 0:
		sb.WriteString(r.Low.String())

	default:
		if r.Low != nil {
			sb.WriteString(r.Low.String())
		}

		sb.WriteByte('-')

		if r.High != nil {
			sb.WriteString(r.High.String())
		}
	}

	return sb.String()
}

// Set is an ordered sequence of ranges with override semantics: the last
// range whose un-negated interval contains a version decides membership.
// Versions contained by no range are not members.
type Set []Range

// Matches reports set membership of v under the override scan.
func (s Set) Matches(v Version) bool {
	member := false

	for _, r := range s {
		if r.within(v) {
			member = !r.Negated
		}
	}

	return member
}

// String renders the set in source syntax.
func (s Set) String() string {
	parts := make([]string, len(s))
	for i, r := range s {
		parts[i] = r.String()
	}

	return "[" + strings.Join(parts, " ") + "]"
}

// pointRange builds a single-version range.
func pointRange(v Version, negated bool) Range {
	return Range{Low: &v, High: &v, Negated: negated}
}
