package lang

import (
	"fmt"
	"io"
	"strings"
)

// Operator precedence levels, loosest binding first. The formatter inserts
// parentheses wherever a child binds looser than its context requires, so
// re-compiling formatted output yields an equivalent program.
const (
	precLogical = iota + 1
	precTagged
	precSet
	precEquality
	precRelational
	precPrimary
)

// Format writes the program in canonical source form: statements in
// declaration order, then the master expression. A defaulted master (the
// literal true of an empty program) is omitted, since the grammar has no
// spelling for it.
func (p *Program) Format(w io.Writer) error {
	for _, def := range p.Defs {
		_, err := fmt.Fprintf(
			w, "%s %s = %s;\n", def.Kind, def.Name, FormatExpr(def.Body),
		)
		if err != nil {
			return err
		}
	}

	if lit, ok := p.Master.(*BoolLit); ok && lit.Value {
		return nil
	}

	_, err := fmt.Fprintln(w, FormatExpr(p.Master))

	return err
}

// String returns the canonical source form of the program.
func (p *Program) String() string {
	var sb strings.Builder

	_ = p.Format(&sb)

	return sb.String()
}

// FormatExpr renders a single expression in source syntax.
func FormatExpr(e Expr) string {
	var sb strings.Builder

	writeExpr(&sb, e, 0)

	return sb.String()
}

func exprPrec(e Expr) int {
	switch e.(type) {
	case *Logical:
		return precLogical
	case *Tagged:
		return precTagged
	case *SetMembership:
		return precSet
	case *Equality:
		return precEquality
	case *Relational:
		return precRelational
	default:
		return precPrimary
	}
}

func writeExpr(sb *strings.Builder, e Expr, min int) {
	if exprPrec(e) < min {
		sb.WriteByte('(')
		writeExpr(sb, e, 0)
		sb.WriteByte(')')

		return
	}

	switch n := e.(type) {
	case *BoolLit:
		// No source spelling exists; this form is diagnostic only.
		fmt.Fprintf(sb, "%t", n.Value)

	case *StringLit:
		sb.WriteByte('\'')
		sb.WriteString(escapeString(n.Value))
		sb.WriteByte('\'')

	case *VersionLit:
		sb.WriteString(n.Value.String())

	case *PackageRef:
		sb.WriteString(n.Name)

		if len(n.Features) > 0 {
			sb.WriteString("#(")
			sb.WriteString(strings.Join(n.Features, " && "))
			sb.WriteByte(')')
		}

	case *BuiltinVar:
		sb.WriteByte('{')
		sb.WriteString(n.Name)
		sb.WriteByte('}')

	case *MacroRef:
		sb.WriteByte('{')
		sb.WriteString(n.Name)
		sb.WriteByte('}')

	case *BuiltinCall:
		sb.WriteString(n.Name)
		sb.WriteByte('(')

		for i, arg := range n.Args {
			if i > 0 {
				sb.WriteString(", ")
			}

			sb.WriteByte('\'')
			sb.WriteString(escapeString(arg))
			sb.WriteByte('\'')
		}

		sb.WriteByte(')')

	case *Logical:
		// Left-associative: the right operand must bind tighter.
		writeExpr(sb, n.LHS, precLogical)
		fmt.Fprintf(sb, " %s ", n.Op)
		writeExpr(sb, n.RHS, precTagged)

	case *Tagged:
		writeExpr(sb, n.Expr, precSet)
		sb.WriteString(" as :")
		sb.WriteString(n.Tag)

	case *SetMembership:
		writeExpr(sb, n.Expr, precEquality)
		sb.WriteString(" in ")
		sb.WriteString(n.Set.String())

	case *Equality:
		writeExpr(sb, n.LHS, precRelational)
		fmt.Fprintf(sb, " %s ", n.Op)
		writeExpr(sb, n.RHS, precRelational)

	case *Relational:
		writeExpr(sb, n.LHS, precPrimary)
		fmt.Fprintf(sb, " %s ", n.Op)
		writeExpr(sb, n.RHS, precPrimary)
	}
}

func escapeString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)

	return strings.ReplaceAll(s, `'`, `\'`)
}
