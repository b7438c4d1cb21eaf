package lang

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Program is a compiled requirement program: the statement list, the master
// expression, and the resolution tables built by the resolver. A Program is
// immutable after Compile returns and is safe for concurrent evaluation;
// each Evaluate call carries its own memoization state.
type Program struct {
	Defs   []*Definition
	Master Expr

	byName map[string]*Definition
	byTag  map[string]*Definition // tag -> owning choice
	opts   options
}

// Definition returns the named macro or choice definition.
func (p *Program) Definition(name string) (*Definition, bool) {
	def, ok := p.byName[name]

	return def, ok
}

// Tags returns the option vocabulary: every tag declared by the program's
// choices, in no particular order.
func (p *Program) Tags() []string {
	tags := make([]string, 0, len(p.byTag))
	for tag := range p.byTag {
		tags = append(tags, tag)
	}

	return tags
}

// resolve validates the parsed statements and builds the Program:
// unique names, globally unique tags confined to choice bodies, no
// references to undefined names, and an acyclic reference graph.
func resolve(defs []*Definition, master Expr) (*Program, error) {
	if master == nil {
		master = &BoolLit{Value: true}
	}

	prog := &Program{
		Defs:   defs,
		Master: master,
		byName: make(map[string]*Definition, len(defs)),
		byTag:  make(map[string]*Definition),
	}

	for _, def := range defs {
		if dup, ok := prog.byName[def.Name]; ok {
			return nil, newSemanticError(def.Name,
				"%s %q conflicts with earlier %s of the same name",
				def.Kind, def.Name, dup.Kind)
		}

		prog.byName[def.Name] = def
	}

	for _, def := range defs {
		if err := prog.collectTags(def); err != nil {
			return nil, err
		}
	}

	// Tags select whole choice alternatives; anywhere else they are
	// meaningless.
	for _, def := range defs {
		if def.Kind == DefChoice {
			if err := checkAlternatives(def.Body, def.Name); err != nil {
				return nil, err
			}

			continue
		}

		if err := rejectTags(def.Body, def.Name); err != nil {
			return nil, err
		}
	}

	if err := rejectTags(master, ""); err != nil {
		return nil, err
	}

	if err := prog.checkRefs(); err != nil {
		return nil, err
	}

	if err := prog.checkCycles(); err != nil {
		return nil, err
	}

	return prog, nil
}

// collectTags records every tag in a choice body, rejecting collisions.
// Tags are globally unique across the program because together they form
// the caller's option vocabulary.
func (p *Program) collectTags(def *Definition) error {
	if def.Kind != DefChoice {
		return nil
	}

	return walkExpr(def.Body, func(e Expr) error {
		tagged, ok := e.(*Tagged)
		if !ok {
			return nil
		}

		if owner, ok := p.byTag[tagged.Tag]; ok {
			return newSemanticError(tagged.Tag,
				"tag %q in choice %q collides with the same tag in choice %q",
				tagged.Tag, def.Name, owner.Name)
		}

		p.byTag[tagged.Tag] = def

		return nil
	})
}

// checkAlternatives requires every tag in a choice body to name a whole
// alternative: a Tagged node must be an operand of the body's logical chain,
// never buried under another operator. Pruning removes unselected
// alternatives by walking that chain, so a deeper tag could never be
// honored.
func checkAlternatives(body Expr, choice string) error {
	switch n := body.(type) {
	case *Logical:
		if err := checkAlternatives(n.LHS, choice); err != nil {
			return err
		}

		return checkAlternatives(n.RHS, choice)

	case *Tagged:
		body = n.Expr
	}

	return walkExpr(body, func(e Expr) error {
		tagged, ok := e.(*Tagged)
		if !ok {
			return nil
		}

		return newSemanticError(tagged.Tag,
			"tag %q in choice %q must name a whole alternative",
			tagged.Tag, choice)
	})
}

func rejectTags(e Expr, defName string) error {
	return walkExpr(e, func(e Expr) error {
		tagged, ok := e.(*Tagged)
		if !ok {
			return nil
		}

		where := "the master expression"
		if defName != "" {
			where = "macro " + `"` + defName + `"`
		}

		return newSemanticError(tagged.Tag,
			"tag %q outside a choice body, in %s", tagged.Tag, where)
	})
}

// checkRefs verifies that every {name} reference that is not a builtin
// names a defined macro or choice.
func (p *Program) checkRefs() error {
	check := func(e Expr) error {
		ref, ok := e.(*MacroRef)
		if !ok {
			return nil
		}

		if _, ok := p.byName[ref.Name]; !ok {
			return newSemanticError(ref.Name,
				"reference to undefined macro or choice %q", ref.Name).
				suggesting(closest(ref.Name, sortedNames(p.byName)))
		}

		return nil
	}

	for _, def := range p.Defs {
		if err := walkExpr(def.Body, check); err != nil {
			return err
		}
	}

	return walkExpr(p.Master, check)
}

// checkCycles rejects any cycle in the macro/choice reference graph.
// Evaluation is lazy, so an acyclic graph always terminates; a cycle
// never can.
func (p *Program) checkCycles() error {
	const (
		unvisited = iota
		visiting
		done
	)

	state := make(map[string]int, len(p.Defs))

	var visit func(name string, path []string) error

	visit = func(name string, path []string) error {
		switch state[name] {
		case done:
			return nil

		case visiting:
			return newSemanticError(name,
				"cyclic reference: %s", strings.Join(append(path, name), " -> "))
		}

		state[name] = visiting

		def := p.byName[name]

		err := walkExpr(def.Body, func(e Expr) error {
			if ref, ok := e.(*MacroRef); ok {
				return visit(ref.Name, append(path, name))
			}

			return nil
		})
		if err != nil {
			return err
		}

		state[name] = done

		return nil
	}

	for _, def := range p.Defs {
		if err := visit(def.Name, nil); err != nil {
			return err
		}
	}

	return nil
}

// closest returns the best fuzzy match for name among candidates, or ""
// when nothing is remotely close.
func closest(name string, candidates []string) string {
	matches := fuzzy.Find(name, candidates)
	if len(matches) == 0 {
		return ""
	}

	return matches[0].Str
}

// sortedNames returns the map keys sorted for deterministic suggestions.
func sortedNames[T any](m map[string]T) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// logAttrs summarizes the program for debug logging.
func (p *Program) logAttrs() []slog.Attr {
	return []slog.Attr{
		slog.Int("definitions", len(p.Defs)),
		slog.Int("tags", len(p.byTag)),
	}
}
