package exprcomp

import (
	"fmt"

	"github.com/cwbudde/go-expr/internal/exprbox"
	"github.com/cwbudde/go-expr/internal/exprerr"
	"github.com/cwbudde/go-expr/internal/exprplugin"
	"github.com/cwbudde/go-expr/internal/exprprog"
	"github.com/cwbudde/go-expr/internal/exprscope"
)

// nestedPlugin is the Compiler's own built-in CompilePlugin, implementing
// spec.md §4.8: both nested-expression surface syntaxes (the prefix `*X`
// operator and the `Expression(name, default[, throw])` call) are already
// unified into one Function node by the parser, so this is the single
// place that resolves it. It is not table-driven like internal/calculus
// since it needs closures over the owning Compiler's named-expression
// registry, not just static data, and always runs first in the chain so a
// plug-in added later cannot accidentally shadow it.
type nestedPlugin struct {
	exprplugin.Base
	c *Compiler
}

func (n *nestedPlugin) Name() string { return "nested-expression" }

func (n *nestedPlugin) TryFunction(_ *exprscope.Scope, info *exprplugin.FunctionInfo) (bool, error) {
	if info.Name == n.c.throwName && len(info.Args) == 0 {
		info.DebugName = n.c.throwName
		info.IsConstant = true
		info.Result = n.c.throwSentinel
		info.ConstantValue = n.c.throwSentinel
		return true, nil
	}

	if info.Name != n.c.nestedExprFunc || len(info.Args) < 1 || len(info.Args) > 3 {
		return false, nil
	}
	if !info.Args[0].Result.IsType(n.c.stringType) {
		return false, nil
	}

	// The static result sample is, when known, the default argument's
	// type; when the name is itself a constant and already registered, we
	// eagerly compile it here to recover its real declared result type
	// instead of falling back to an untyped sample.
	result := exprbox.Box{}
	if len(info.Args) >= 2 {
		result = info.Args[1].Result
	}
	if info.Args[0].Const {
		name := exprbox.Unbox[string](info.Args[0].Value)
		if text, ok := n.c.GetNamed(name); ok {
			if prog, err := n.c.compileNamedForType(name, text); err == nil {
				result = prog.ResultType
			}
		}
	}

	info.DebugName = n.c.nestedExprFunc
	info.Result = result
	info.Callback = n.c.evaluateNested
	return true, nil
}

// evaluateNested is the runtime callback every Expression(...) call
// compiles to: it resolves name through the Compiler's named-expression
// registry and evaluates the match under the current Scope, or falls back
// to the supplied default, or raises NestedExpressionNotFound — unless the
// third argument is the Throw sentinel, in which case it always raises
// regardless of whether a default was supplied.
func (c *Compiler) evaluateNested(scope *exprscope.Scope, args []exprbox.Box) (exprbox.Box, error) {
	name := exprbox.Unbox[string](args[0])
	hasDefault := len(args) >= 2
	throwRequested := len(args) >= 3 && exprbox.Equals(c.reg, args[2], c.throwSentinel)

	text, ok := c.GetNamed(name)
	if !ok {
		if throwRequested || !hasDefault {
			return exprbox.Box{}, exprerr.New(exprerr.NestedExpressionNotFound,
				fmt.Sprintf("no named expression %q is registered", name)).WithToken(name)
		}
		return args[1], nil
	}

	if !scope.EnterNamed(name) {
		return exprbox.Box{}, exprerr.New(exprerr.CircularNestedExpression,
			fmt.Sprintf("named expression %q participates in a reference cycle", name)).WithToken(name)
	}
	defer scope.LeaveNamed(name)

	prog, err := c.compileNamed(name, text)
	if err != nil {
		return exprbox.Box{}, err
	}

	return scope.RunNested(func() (exprbox.Box, error) {
		return exprprog.Evaluate(prog, c.reg, scope)
	})
}
