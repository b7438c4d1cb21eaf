package lang

import "strings"

// Value is the tagged result of evaluating one expression node. A node is
// always truthy or falsy, and may additionally carry a version (package
// references, version literals) or text (string literals, OSNAME) for
// enclosing relational and equality operators to inspect.
type Value struct {
	Bool    bool
	Version *Version
	Text    string
	hasText bool
}

func truthValue(b bool) Value { return Value{Bool: b} }

func versionValue(v Version) Value { return Value{Bool: true, Version: &v} }

func textValue(s string) Value {
	return Value{Bool: s != "", Text: s, hasText: true}
}

// HasText reports whether the value carries a textual payload.
func (v Value) HasText() bool { return v.hasText }

// text returns the operand's textual form for string comparison: its text
// payload if present, else its version rendered as written.
func (v Value) text() string {
	if v.hasText {
		return v.Text
	}

	if v.Version != nil {
		return v.Version.String()
	}

	return ""
}

// LeafKind classifies a failing leaf of the evaluation trace.
type LeafKind int

const (
	// KindMissingModule: the referenced module is not installed.
	KindMissingModule LeafKind = iota

	// KindVersionMismatch: the module is installed but its version fails
	// the declared constraint.
	KindVersionMismatch

	// KindMissingFeature: the module is installed but lacks a demanded
	// feature.
	KindMissingFeature

	// KindPlatformMismatch: an OSNAME or ITHREADS condition failed. The
	// caller cannot remedy this by installing anything.
	KindPlatformMismatch

	// KindMissingInclude: HAS_INCLUDE did not find an include file.
	KindMissingInclude

	// KindMissingLib: HAS_LIB did not find a library.
	KindMissingLib

	// KindMissingProgram: HAS_PROGRAM did not find a program.
	KindMissingProgram

	// KindNoAlternative: every alternative of a choice was pruned by the
	// caller's option set and no untagged fallback remained.
	KindNoAlternative
)

// String returns a short identifier for the kind.
func (k LeafKind) String() string {
	switch k {
	case KindMissingModule:
		return "missing module"
	case KindVersionMismatch:
		return "version mismatch"
	case KindMissingFeature:
		return "missing feature"
	case KindPlatformMismatch:
		return "platform mismatch"
	case KindMissingInclude:
		return "missing include"
	case KindMissingLib:
		return "missing library"
	case KindMissingProgram:
		return "missing program"
	case KindNoAlternative:
		return "no alternative selected"
	default:
		return "unknown"
	}
}

// Actionable reports whether a failure of this kind could plausibly be
// remedied by installing or enabling something, as opposed to an immutable
// fact of the host environment.
func (k LeafKind) Actionable() bool {
	return k != KindPlatformMismatch
}

// LeafDetail carries the raw collaborator answer behind a trace leaf.
type LeafDetail struct {
	Kind    LeafKind
	Subject string   // module, feature, file, or program name
	Missing []string // individual items not found, when several were asked
	Answer  string   // the collaborator's raw answer, for the report
}

// Trace is the evaluation trace: a tree isomorphic to the AST nodes that
// were actually visited. Short-circuited subtrees do not appear. Each node
// records its value; leaves additionally record the collaborator answer
// that produced it.
type Trace struct {
	Expr     Expr
	Value    Value
	Children []*Trace
	Leaf     *LeafDetail

	// Memo marks a macro reference answered from the per-run cache. Its
	// child is the first reference's subtree, shared; the report counts
	// each collaborator answer once, at that first reference.
	Memo bool
}

// label names the trace node for report paths.
func (t *Trace) label() string {
	switch n := t.Expr.(type) {
	case *PackageRef:
		return n.Name
	case *MacroRef:
		return "{" + n.Name + "}"
	case *BuiltinVar:
		return "{" + n.Name + "}"
	case *BuiltinCall:
		return n.Name
	case *Tagged:
		return ":" + n.Tag
	case *Logical:
		return n.Op.String()
	case *Equality:
		return n.Op.String()
	case *Relational:
		return n.Op.String()
	case *SetMembership:
		return "in"
	case *StringLit:
		return "'" + n.Value + "'"
	case *VersionLit:
		return n.Value.String()
	case *BoolLit:
		if n.Value {
			return "true"
		}

		return "false"
	default:
		return "?"
	}
}

// path joins breadcrumb segments for report entries.
func joinPath(segments []string) string {
	return strings.Join(segments, "/")
}
