// Package typedexpr implements §3's ExprNode variants and the
// TypedExpr/Symbol/InstantiatedSymbol entities that wrap them, shared by
// the typechecker (internal/typecheck), monomorphizer (internal/mono)
// and optimizer (internal/optimize).
//
// Grounded on internal/typedast/typed_ast.go's layering (a node embeds
// its NodeID/Span/Type, variant structs embed that base) and
// internal/core/core.go's tagged-struct sum-type shape, narrowed from
// the teacher's evaluator-oriented node set (record ops, effect
// handlers, dictionary-passing nodes) to the spec's twelve variants.
// Llvm/FfiCall have no teacher equivalent and are grounded instead on
// original_source/src/ast/expr.rs's ffi_call/llvm node shapes.
package typedexpr

import (
	"github.com/sunholo/fixcore/internal/diag"
	"github.com/sunholo/fixcore/internal/name"
	"github.com/sunholo/fixcore/internal/tytype"
)

// Expr is a node of the expression tree (§3 ExprNode). After typing,
// Type() returns a non-nil inferred type on every node (§3 invariant).
type Expr interface {
	exprNode()
	Span() diag.Span
	Type() tytype.Type
	// WithType returns a shallow copy of this node with its inferred
	// type set, used by the typechecker to seal a node once inference
	// completes.
	WithType(tytype.Type) Expr
}

// base carries the span and inferred type every node shares; embedded
// by each variant.
type base struct {
	span diag.Span
	ty   tytype.Type
}

func (b base) Span() diag.Span   { return b.span }
func (b base) Type() tytype.Type { return b.ty }

// Var references a name, resolved to fully qualified form by name
// resolution (§4.1) before typing.
type Var struct {
	base
	Name name.Name
}

func (v Var) exprNode() {}
func (v Var) WithType(t tytype.Type) Expr { v.ty = t; return v }

// Lam is a lambda with one or more parameter names; §4.8's uncurrying
// pass groups chains of single-parameter Lams into one multi-parameter
// Lam.
type Lam struct {
	base
	Params []string
	Body   Expr
}

func (l Lam) exprNode() {}
func (l Lam) WithType(t tytype.Type) Expr { l.ty = t; return l }

// App is an application of a function to one or more arguments (an
// uncurried application chain after §4.8's uncurrying pass).
type App struct {
	base
	Fn   Expr
	Args []Expr
}

func (a App) exprNode() {}
func (a App) WithType(t tytype.Type) Expr { a.ty = t; return a }

// Let binds Name to Value's (generalized) type while inferring/running
// Body; generalization happens against the environment in scope before
// Value was inferred (§4.5).
type Let struct {
	base
	Name  string
	Value Expr
	Body  Expr
}

func (l Let) exprNode() {}
func (l Let) WithType(t tytype.Type) Expr { l.ty = t; return l }

// If is a conditional; Cond must type to Bool and Then/Else must unify.
type If struct {
	base
	Cond Expr
	Then Expr
	Else Expr
}

func (i If) exprNode() {}
func (i If) WithType(t tytype.Type) Expr { i.ty = t; return i }

// MatchArm is one arm of a Match: a pattern (represented here as a
// Symbol-free constructor-name plus bound variable names, since pattern
// compilation itself is out of scope) and the arm's body.
type MatchArm struct {
	Constructor name.Name
	Bindings    []string
	Body        Expr
}

// Match dispatches on Scrutinee's head constructor; every arm's body
// must unify to a common result type.
type Match struct {
	base
	Scrutinee Expr
	Arms      []MatchArm
}

func (m Match) exprNode() {}
func (m Match) WithType(t tytype.Type) Expr { m.ty = t; return m }

// TyAnno is a user-written type annotation; after the optimizer's
// remove-type-annotations pass (§4.8) it is rewritten away to Inner.
type TyAnno struct {
	base
	Inner Expr
	Ann   tytype.Type
}

func (a TyAnno) exprNode() {}
func (a TyAnno) WithType(t tytype.Type) Expr { a.ty = t; return a }

// FieldInit is one field assignment inside a MakeStruct.
type FieldInit struct {
	Field string
	Value Expr
}

// MakeStruct constructs a value of a declared struct type; its type is
// derived from the struct declaration, not inferred (§4.5).
type MakeStruct struct {
	base
	Struct name.Name
	Fields []FieldInit
}

func (m MakeStruct) exprNode() {}
func (m MakeStruct) WithType(t tytype.Type) Expr { m.ty = t; return m }

// ArrayLit is a fixed-size array literal; its element type is one fresh
// variable unified with every element's type in turn.
type ArrayLit struct {
	base
	Elems []Expr
}

func (a ArrayLit) exprNode() {}
func (a ArrayLit) WithType(t tytype.Type) Expr { a.ty = t; return a }

// FfiCall invokes a foreign function by symbol name with a declared
// signature; no novel inference rule applies (§4.5).
type FfiCall struct {
	base
	Symbol string
	Args   []Expr
}

func (f FfiCall) exprNode() {}
func (f FfiCall) WithType(t tytype.Type) Expr { f.ty = t; return f }

// Llvm embeds a literal block of target-level IR text with a declared
// result type; opaque to everything except codegen (out of scope here).
type Llvm struct {
	base
	Text     string
	Declared tytype.Type
}

func (l Llvm) exprNode() {}
func (l Llvm) WithType(t tytype.Type) Expr { l.ty = t; return l }

// Eval forces evaluation of Inner for its side effect and yields Inner's
// value; used for sequencing FFI/Llvm calls.
type Eval struct {
	base
	Inner Expr
}

func (e Eval) exprNode() {}
func (e Eval) WithType(t tytype.Type) Expr { e.ty = t; return e }

// NewVar, NewLam, ... construct unsealed (untyped) nodes at the given
// span, for the typechecker to seal via WithType once inference
// completes.
func NewVar(span diag.Span, n name.Name) Var { return Var{base: base{span: span}, Name: n} }
func NewLam(span diag.Span, params []string, body Expr) Lam {
	return Lam{base: base{span: span}, Params: params, Body: body}
}
func NewApp(span diag.Span, fn Expr, args []Expr) App {
	return App{base: base{span: span}, Fn: fn, Args: args}
}
func NewLet(span diag.Span, n string, value, body Expr) Let {
	return Let{base: base{span: span}, Name: n, Value: value, Body: body}
}
func NewIf(span diag.Span, cond, then, els Expr) If {
	return If{base: base{span: span}, Cond: cond, Then: then, Else: els}
}
func NewMatch(span diag.Span, scrutinee Expr, arms []MatchArm) Match {
	return Match{base: base{span: span}, Scrutinee: scrutinee, Arms: arms}
}
func NewTyAnno(span diag.Span, inner Expr, ann tytype.Type) TyAnno {
	return TyAnno{base: base{span: span}, Inner: inner, Ann: ann}
}
