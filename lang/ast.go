package lang

// Expr is a node of the requirement expression tree. Expressions are pure
// values: once parsed they are never mutated, so a resolved Program can be
// shared freely between concurrent evaluations.
type Expr interface {
	exprNode()
}

// Op is a binary operator.
type Op int

const (
	// OpAnd is the short-circuiting conjunction "&&".
	OpAnd Op = iota

	// OpOr is the short-circuiting disjunction "||".
	OpOr

	// OpXor is the exclusive disjunction "^^"; both operands always
	// evaluate, left first.
	OpXor

	// OpEq is "==".
	OpEq

	// OpNe is "!=".
	OpNe

	// OpLt is "<".
	OpLt

	// OpLe is "<=".
	OpLe

	// OpGt is ">".
	OpGt

	// OpGe is ">=".
	OpGe
)

// String returns the operator as written in source.
func (op Op) String() string {
	switch op {
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	case OpXor:
		return "^^"
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	default:
		return "?"
	}
}

// BoolLit is a boolean literal. The grammar has no spelling for it; it
// exists so an empty program's master expression can be the literal true.
type BoolLit struct {
	Value bool
}

// StringLit is a quoted string literal.
type StringLit struct {
	Value string
}

// VersionLit is a version literal.
type VersionLit struct {
	Value Version
}

// PackageRef names an installed module, optionally demanding features.
// A bare reference is true iff the module is installed, and carries the
// installed version for any enclosing relational, equality, or set
// operator.
type PackageRef struct {
	Name     string
	Features []string
}

// Builtin macro variable names, referenced as {OSNAME} and {ITHREADS}.
const (
	BuiltinOSName   = "OSNAME"
	BuiltinIThreads = "ITHREADS"
)

// BuiltinVar is a reference to a builtin environment variable: OSNAME
// (a string) or ITHREADS (a boolean).
type BuiltinVar struct {
	Name string
}

// MacroRef is a {name} reference to a macro or choice definition.
// Macros evaluate lazily and memoize within a single evaluation run.
type MacroRef struct {
	Name string
}

// Builtin probe function names.
const (
	BuiltinHasInclude = "HAS_INCLUDE"
	BuiltinHasLib     = "HAS_LIB"
	BuiltinHasProgram = "HAS_PROGRAM"
)

// BuiltinCall is a probe invocation: true iff every named item is found.
type BuiltinCall struct {
	Name string
	Args []string
}

// Relational compares two version-valued operands with <, <=, >, or >=.
type Relational struct {
	Op  Op
	LHS Expr
	RHS Expr
}

// Equality compares two operands with == or !=. If either operand carries
// text (a quoted string or OSNAME), the comparison is textual; otherwise
// both operands compare as versions.
type Equality struct {
	Op  Op
	LHS Expr
	RHS Expr
}

// SetMembership tests an operand's version against a Set.
type SetMembership struct {
	Expr Expr
	Set  Set
}

// Logical combines two boolean operands with &&, ||, or ^^.
type Logical struct {
	Op  Op
	LHS Expr
	RHS Expr
}

// Tagged names a choice alternative. Valid only inside a choice body; the
// caller's option set selects which tagged alternatives survive.
type Tagged struct {
	Expr Expr
	Tag  string
}

func (*BoolLit) exprNode()       {}
func (*StringLit) exprNode()     {}
func (*VersionLit) exprNode()    {}
func (*PackageRef) exprNode()    {}
func (*BuiltinVar) exprNode()    {}
func (*MacroRef) exprNode()      {}
func (*BuiltinCall) exprNode()   {}
func (*Relational) exprNode()    {}
func (*Equality) exprNode()      {}
func (*SetMembership) exprNode() {}
func (*Logical) exprNode()       {}
func (*Tagged) exprNode()        {}

// DefKind distinguishes macro and choice definitions.
type DefKind int

const (
	// DefMacro is a "define" statement.
	DefMacro DefKind = iota

	// DefChoice is a "choice" statement.
	DefChoice
)

// String returns the statement keyword.
func (k DefKind) String() string {
	if k == DefChoice {
		return "choice"
	}

	return "define"
}

// Definition is one define or choice statement.
type Definition struct {
	Kind DefKind
	Name string
	Body Expr
}

// walkExpr visits e and every descendant in preorder, stopping at the
// first error.
func walkExpr(e Expr, visit func(Expr) error) error {
	if e == nil {
		return nil
	}

	if err := visit(e); err != nil {
		return err
	}

	switch n := e.(type) {
	case *Relational:
		if err := walkExpr(n.LHS, visit); err != nil {
			return err
		}

		return walkExpr(n.RHS, visit)

	case *Equality:
		if err := walkExpr(n.LHS, visit); err != nil {
			return err
		}

		return walkExpr(n.RHS, visit)

	case *Logical:
		if err := walkExpr(n.LHS, visit); err != nil {
			return err
		}

		return walkExpr(n.RHS, visit)

	case *SetMembership:
		return walkExpr(n.Expr, visit)

	case *Tagged:
		return walkExpr(n.Expr, visit)

	default:
		return nil
	}
}
