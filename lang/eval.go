package lang

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/prereq/log"
)

// Evaluate compiles nothing and mutates nothing: it walks the resolved
// program against the environment's collaborators, short-circuiting
// according to operator semantics, and reduces the resulting trace to a
// classified report. The options TagSet selects choice alternatives; a tag
// unknown to the program is a SemanticError.
//
// The boolean result is the master expression's value coerced by
// presence/truthiness. The returned Report is complete: it classifies every
// failing leaf and leaves any suppression policy to the caller.
func (p *Program) Evaluate(
	ctx context.Context,
	tags TagSet,
	env Environment,
) (bool, *Report, error) {
	val, trace, err := p.EvaluateTrace(ctx, tags, env)
	if err != nil {
		return false, nil, err
	}

	return val.Bool, BuildReport(trace), nil
}

// EvaluateTrace is Evaluate without the report reduction, for callers that
// want the full annotated trace.
func (p *Program) EvaluateTrace(
	ctx context.Context,
	tags TagSet,
	env Environment,
) (Value, *Trace, error) {
	for tag := range tags {
		if _, ok := p.byTag[tag]; !ok {
			return Value{}, nil, newSemanticError(tag,
				"option tag %q matches no choice in the program", tag).
				suggesting(closest(tag, sortedNames(p.byTag)))
		}
	}

	ec := &evalContext{
		ctx:    ctx,
		prog:   p,
		env:    env,
		bodies: make(map[string]Expr, len(p.Defs)),
		macros: make(map[string]macroMemo),
		mods:   make(map[string]modMemo),
		feats:  make(map[string]bool),
		probes: make(map[string]bool),
		logger: p.opts.logger,
	}

	// Choice pruning happens up front, before any evaluation: unselected
	// alternatives are never evaluated and never queried.
	for _, def := range p.Defs {
		body := def.Body
		if def.Kind == DefChoice {
			body = pruneTags(body, tags)
		}

		ec.bodies[def.Name] = body
	}

	val, trace, err := ec.eval(p.Master)
	if err != nil {
		return Value{}, nil, err
	}

	ec.logger.DebugContext(ctx, "evaluated program",
		slog.Bool("result", val.Bool),
	)

	return val, trace, nil
}

// pruneTags removes Tagged subtrees whose tag is not selected. A logical
// node losing one operand collapses to the other; losing both, it vanishes.
// The surviving alternatives keep their original combinator. The resolver
// guarantees Tagged nodes occur only as operands of a choice body's logical
// chain, so recursing through Logical reaches every alternative.
func pruneTags(e Expr, tags TagSet) Expr {
	switch n := e.(type) {
	case *Tagged:
		if !tags.Has(n.Tag) {
			return nil
		}

		return n

	case *Logical:
		lhs := pruneTags(n.LHS, tags)
		rhs := pruneTags(n.RHS, tags)

		switch {
		case lhs == nil:
			return rhs
		case rhs == nil:
			return lhs
		case lhs == n.LHS && rhs == n.RHS:
			return n
		default:
			return &Logical{Op: n.Op, LHS: lhs, RHS: rhs}
		}

	default:
		return e
	}
}

type macroMemo struct {
	val   Value
	trace *Trace
}

type modMemo struct {
	ver Version
	ok  bool
}

// evalContext is the state of a single evaluation run. It is never shared:
// concurrent evaluations of one Program each build their own.
type evalContext struct {
	ctx    context.Context
	prog   *Program
	env    Environment
	bodies map[string]Expr      // per-call bodies, pruned for choices
	macros map[string]macroMemo // macro results, memoized per run
	mods   map[string]modMemo   // registry lookups, memoized per run
	feats  map[string]bool      // feature answers, memoized per run
	probes map[string]bool      // probe answers, memoized per run
	logger log.Logger
}

func (ec *evalContext) eval(e Expr) (Value, *Trace, error) {
	switch n := e.(type) {
	case *BoolLit:
		return ec.leaf(n, truthValue(n.Value), nil)

	case *StringLit:
		return ec.leaf(n, textValue(n.Value), nil)

	case *VersionLit:
		return ec.leaf(n, versionValue(n.Value), nil)

	case *PackageRef:
		return ec.evalPackage(n)

	case *BuiltinVar:
		return ec.evalBuiltinVar(n)

	case *BuiltinCall:
		return ec.evalBuiltinCall(n)

	case *MacroRef:
		return ec.evalMacro(n)

	case *Logical:
		return ec.evalLogical(n)

	case *Equality:
		return ec.evalEquality(n)

	case *Relational:
		return ec.evalRelational(n)

	case *SetMembership:
		return ec.evalSet(n)

	case *Tagged:
		val, child, err := ec.eval(n.Expr)
		if err != nil {
			return Value{}, nil, err
		}

		return val, &Trace{Expr: n, Value: val, Children: []*Trace{child}}, nil

	default:
		return Value{}, nil, newEvaluationError(nil,
			"unsupported expression node %T", e)
	}
}

func (ec *evalContext) leaf(
	e Expr,
	val Value,
	detail *LeafDetail,
) (Value, *Trace, error) {
	return val, &Trace{Expr: e, Value: val, Leaf: detail}, nil
}

// evalPackage resolves a package reference against the module registry.
// Absence is an ordinary false. Presence carries the installed version, and
// every demanded feature must be exposed.
func (ec *evalContext) evalPackage(n *PackageRef) (Value, *Trace, error) {
	ver, ok, err := ec.installedVersion(n.Name)
	if err != nil {
		return Value{}, nil, err
	}

	if !ok {
		return ec.leaf(n, truthValue(false), &LeafDetail{
			Kind:    KindMissingModule,
			Subject: n.Name,
			Answer:  "not installed",
		})
	}

	detail := &LeafDetail{
		Kind:    KindMissingModule,
		Subject: n.Name,
		Answer:  "installed " + ver.String(),
	}

	for _, feature := range n.Features {
		has, err := ec.hasFeature(n.Name, feature)
		if err != nil {
			return Value{}, nil, err
		}

		if !has {
			detail.Missing = append(detail.Missing, feature)
		}
	}

	if len(detail.Missing) > 0 {
		detail.Kind = KindMissingFeature

		return ec.leaf(n, truthValue(false), detail)
	}

	return ec.leaf(n, versionValue(ver), detail)
}

func (ec *evalContext) evalBuiltinVar(n *BuiltinVar) (Value, *Trace, error) {
	detail := &LeafDetail{Kind: KindPlatformMismatch, Subject: n.Name}

	if n.Name == BuiltinIThreads {
		detail.Answer = fmt.Sprintf("%t", ec.env.IThreads)

		return ec.leaf(n, truthValue(ec.env.IThreads), detail)
	}

	detail.Answer = ec.env.OSName

	return ec.leaf(n, textValue(ec.env.OSName), detail)
}

func (ec *evalContext) evalBuiltinCall(n *BuiltinCall) (Value, *Trace, error) {
	var kind LeafKind

	switch n.Name {
	case BuiltinHasInclude:
		kind = KindMissingInclude
	case BuiltinHasLib:
		kind = KindMissingLib
	default:
		kind = KindMissingProgram
	}

	detail := &LeafDetail{Kind: kind, Subject: n.Name}

	// Probe every argument rather than stopping at the first failure, so
	// the report names everything that is absent.
	for _, arg := range n.Args {
		found, err := ec.probe(n.Name, arg)
		if err != nil {
			return Value{}, nil, err
		}

		if !found {
			detail.Missing = append(detail.Missing, arg)
		}
	}

	detail.Answer = fmt.Sprintf(
		"%d of %d found", len(n.Args)-len(detail.Missing), len(n.Args),
	)

	return ec.leaf(n, truthValue(len(detail.Missing) == 0), detail)
}

// evalMacro evaluates a macro or choice reference lazily, memoizing the
// (value, trace) pair for the remainder of this run so a re-reference never
// re-queries collaborators.
func (ec *evalContext) evalMacro(n *MacroRef) (Value, *Trace, error) {
	if memo, ok := ec.macros[n.Name]; ok {
		return memo.val, &Trace{
			Expr:     n,
			Value:    memo.val,
			Children: []*Trace{memo.trace},
			Memo:     true,
		}, nil
	}

	body := ec.bodies[n.Name]
	if body == nil {
		// Every alternative of this choice was pruned.
		val := truthValue(false)
		trace := &Trace{Expr: n, Value: val, Leaf: &LeafDetail{
			Kind:    KindNoAlternative,
			Subject: n.Name,
			Answer:  "no alternative selected",
		}}

		ec.macros[n.Name] = macroMemo{val: val, trace: trace}

		return val, trace, nil
	}

	val, child, err := ec.eval(body)
	if err != nil {
		return Value{}, nil, err
	}

	ec.macros[n.Name] = macroMemo{val: val, trace: child}

	return val, &Trace{Expr: n, Value: val, Children: []*Trace{child}}, nil
}

func (ec *evalContext) evalLogical(n *Logical) (Value, *Trace, error) {
	lval, ltrace, err := ec.eval(n.LHS)
	if err != nil {
		return Value{}, nil, err
	}

	// Short-circuit: the right operand, and any macro it references, is
	// neither evaluated nor queried.
	switch n.Op {
	case OpAnd:
		if !lval.Bool {
			val := truthValue(false)

			return val, &Trace{
				Expr: n, Value: val, Children: []*Trace{ltrace},
			}, nil
		}

	case OpOr:
		if lval.Bool {
			val := truthValue(true)

			return val, &Trace{
				Expr: n, Value: val, Children: []*Trace{ltrace},
			}, nil
		}
	}

	rval, rtrace, err := ec.eval(n.RHS)
	if err != nil {
		return Value{}, nil, err
	}

	var result bool

	switch n.Op {
	case OpAnd, OpOr:
		result = rval.Bool
	case OpXor:
		result = lval.Bool != rval.Bool
	}

	val := truthValue(result)

	return val, &Trace{
		Expr: n, Value: val, Children: []*Trace{ltrace, rtrace},
	}, nil
}

// evalEquality applies the overloaded comparison: textual when either
// operand carries text (quoted string, OSNAME), otherwise by version. A
// missing version on either side (an absent module) makes the comparison
// false, not an error.
func (ec *evalContext) evalEquality(n *Equality) (Value, *Trace, error) {
	lval, ltrace, err := ec.eval(n.LHS)
	if err != nil {
		return Value{}, nil, err
	}

	rval, rtrace, err := ec.eval(n.RHS)
	if err != nil {
		return Value{}, nil, err
	}

	var (
		result  bool
		decided bool
	)

	switch {
	case lval.HasText() || rval.HasText():
		result = lval.text() == rval.text()
		decided = true

	case lval.Version != nil && rval.Version != nil:
		result = lval.Version.Compare(*rval.Version) == 0
		decided = true
	}

	if decided && n.Op == OpNe {
		result = !result
	}

	val := truthValue(result)
	trace := &Trace{Expr: n, Value: val, Children: []*Trace{ltrace, rtrace}}

	if !result && lval.Bool && rval.Bool {
		trace.Leaf = ec.mismatch(n.LHS, n.RHS, fmt.Sprintf(
			"%s %s %s does not hold", lval.text(), n.Op, rval.text(),
		))
	}

	return val, trace, nil
}

func (ec *evalContext) evalRelational(n *Relational) (Value, *Trace, error) {
	lval, ltrace, err := ec.eval(n.LHS)
	if err != nil {
		return Value{}, nil, err
	}

	rval, rtrace, err := ec.eval(n.RHS)
	if err != nil {
		return Value{}, nil, err
	}

	lver, lok, err := operandVersion(lval)
	if err != nil {
		return Value{}, nil, err
	}

	rver, rok, err := operandVersion(rval)
	if err != nil {
		return Value{}, nil, err
	}

	result := false

	if lok && rok {
		cmp := lver.Compare(rver)

		switch n.Op {
		case OpLt:
			result = cmp < 0
		case OpLe:
			result = cmp <= 0
		case OpGt:
			result = cmp > 0
		case OpGe:
			result = cmp >= 0
		}
	}

	val := truthValue(result)
	trace := &Trace{Expr: n, Value: val, Children: []*Trace{ltrace, rtrace}}

	if !result && lval.Bool && rval.Bool {
		trace.Leaf = ec.mismatch(n.LHS, n.RHS, fmt.Sprintf(
			"%s %s %s does not hold", lval.text(), n.Op, rval.text(),
		))
	}

	return val, trace, nil
}

func (ec *evalContext) evalSet(n *SetMembership) (Value, *Trace, error) {
	ival, itrace, err := ec.eval(n.Expr)
	if err != nil {
		return Value{}, nil, err
	}

	iver, ok, err := operandVersion(ival)
	if err != nil {
		return Value{}, nil, err
	}

	result := ok && n.Set.Matches(iver)

	val := truthValue(result)
	trace := &Trace{Expr: n, Value: val, Children: []*Trace{itrace}}

	if !result && ival.Bool {
		trace.Leaf = ec.mismatch(n.Expr, nil, fmt.Sprintf(
			"version %s is not in %s", ival.text(), n.Set,
		))
	}

	return val, trace, nil
}

// mismatch classifies a failed comparison: platform when a builtin
// environment variable is involved, version mismatch otherwise.
func (ec *evalContext) mismatch(lhs, rhs Expr, answer string) *LeafDetail {
	kind := KindVersionMismatch

	if isBuiltinVar(lhs) || isBuiltinVar(rhs) {
		kind = KindPlatformMismatch
	}

	subject := ""
	if ref, ok := lhs.(*PackageRef); ok {
		subject = ref.Name
	} else if v, ok := lhs.(*BuiltinVar); ok {
		subject = v.Name
	}

	return &LeafDetail{Kind: kind, Subject: subject, Answer: answer}
}

func isBuiltinVar(e Expr) bool {
	_, ok := e.(*BuiltinVar)

	return ok
}

// operandVersion extracts a version from a comparison operand. Text parses
// on demand; a malformed version at runtime is an EvaluationError. A value
// with neither payload (an absent module) yields ok=false.
func operandVersion(v Value) (Version, bool, error) {
	if v.Version != nil {
		return *v.Version, true, nil
	}

	if v.hasText && v.Text != "" {
		ver, err := ParseVersion(v.Text)
		if err != nil {
			return Version{}, false, newEvaluationError(err,
				"malformed version %q in comparison", v.Text)
		}

		return ver, true, nil
	}

	return Version{}, false, nil
}

// installedVersion memoizes registry lookups within one run.
func (ec *evalContext) installedVersion(name string) (Version, bool, error) {
	if memo, ok := ec.mods[name]; ok {
		return memo.ver, memo.ok, nil
	}

	if ec.env.Registry == nil {
		return Version{}, false, newEvaluationError(nil,
			"no module registry configured")
	}

	ver, ok, err := ec.env.Registry.InstalledVersion(ec.ctx, name)
	if err != nil {
		return Version{}, false, newEvaluationError(err,
			"module registry lookup failed").
			With(slog.String("module", name))
	}

	ec.logger.DebugContext(ec.ctx, "registry lookup",
		slog.String("module", name),
		slog.Bool("installed", ok),
	)

	ec.mods[name] = modMemo{ver: ver, ok: ok}

	return ver, ok, nil
}

// hasFeature memoizes feature queries within one run.
func (ec *evalContext) hasFeature(name, feature string) (bool, error) {
	key := name + "\x00" + feature
	if has, ok := ec.feats[key]; ok {
		return has, nil
	}

	has, err := ec.env.Registry.HasFeature(ec.ctx, name, feature)
	if err != nil {
		return false, newEvaluationError(err, "feature lookup failed").
			With(
				slog.String("module", name),
				slog.String("feature", feature),
			)
	}

	ec.feats[key] = has

	return has, nil
}

// probe memoizes include/lib/program probes within one run.
func (ec *evalContext) probe(builtin, arg string) (bool, error) {
	key := builtin + "\x00" + arg
	if found, ok := ec.probes[key]; ok {
		return found, nil
	}

	if ec.env.Probes == nil {
		return false, newEvaluationError(nil, "no prober configured")
	}

	var (
		found bool
		err   error
	)

	switch builtin {
	case BuiltinHasInclude:
		found, err = ec.env.Probes.HasInclude(ec.ctx, arg)
	case BuiltinHasLib:
		found, err = ec.env.Probes.HasLib(ec.ctx, arg)
	default:
		found, err = ec.env.Probes.HasProgram(ec.ctx, arg)
	}

	if err != nil {
		return false, newEvaluationError(err, "probe failed").
			With(
				slog.String("builtin", builtin),
				slog.String("item", arg),
			)
	}

	ec.probes[key] = found

	return found, nil
}
