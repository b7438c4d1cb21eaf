// Package lang implements the prereq requirement language: a small
// declarative expression language for stating module and feature
// dependency requirements and evaluating them against a live environment.
//
// A program is a sequence of define/choice statements followed by a single
// master expression:
//
//	define compiler = HAS_PROGRAM('cc') || HAS_PROGRAM('gcc');
//	choice dbd = DBD::pg as :pg || DBD::mysql as :mysql;
//
//	Module::Build#(yaml_support) && {compiler} && {dbd}
//
// Compile turns source text into an immutable Program; Evaluate walks it
// against caller-supplied collaborators (a module Registry and a system
// Prober), short-circuiting && and ||, expanding macros lazily with
// per-run memoization, and pruning choice alternatives not selected by the
// caller's option tags. Evaluation yields the boolean verdict together
// with a Report classifying every failing leaf as actionable or not.
//
// Absence of a module, feature, include, library, or program is an
// ordinary false answer. Errors are reserved for malformed programs
// (LexError, ParseError, SemanticError) and infrastructure faults during
// evaluation (EvaluationError).
package lang
