package calculus

import (
	"strings"

	"github.com/cwbudde/go-expr/internal/exprbox"
	"github.com/cwbudde/go-expr/internal/exprplugin"
	"github.com/cwbudde/go-expr/internal/exprscope"
)

// Plugin is the exprplugin.CompilePlugin a Table compiles into.
type Plugin struct {
	table Table
}

// NewPlugin returns a CompilePlugin that answers every request kind from t.
func NewPlugin(t Table) *Plugin { return &Plugin{table: t} }

func (p *Plugin) Name() string { return p.table.Name }

// ConstOptimizations exposes t's constant-propagation table to the
// compiler, which merges every plug-in's entries into one lookup consulted
// from exprast.Assembler.BinaryConstOptimize. This lives outside
// exprplugin.CompilePlugin's five request kinds deliberately: propagation
// is a distinct optimization concern from resolving what a call compiles
// to, and folding it into TryBinaryOp would force every plug-in author to
// reimplement the same one-side-constant bookkeeping Assemble already does
// generically.
func (p *Plugin) ConstOptimizations() []ConstOptimization { return p.table.ConstOpt }

func (p *Plugin) nameMatches(declared, candidate string) bool {
	if len(candidate) > len(declared) {
		return false
	}
	minLen := p.table.MinAbbrevLen
	if minLen <= 0 || minLen > len(declared) {
		minLen = len(declared)
	}
	if len(candidate) < minLen {
		return false
	}
	prefix := declared[:len(candidate)]
	if p.table.CaseSensitive {
		return prefix == candidate
	}
	return strings.EqualFold(prefix, candidate)
}

func (p *Plugin) TryFunction(ctScope *exprscope.Scope, info *exprplugin.FunctionInfo) (bool, error) {
	if len(info.Args) == 0 {
		for _, c := range p.table.Consts {
			if !p.nameMatches(c.Name, info.Name) {
				continue
			}
			info.Result = c.Result
			info.DebugName = c.Name
			info.IsConstant = true
			info.ConstantValue = c.Value
			return true, nil
		}
	}
	for _, f := range p.table.Funcs {
		if !p.nameMatches(f.Name, info.Name) || !argsMatchSignature(f.ArgTypes, f.Variadic, info.Args) {
			continue
		}
		info.Result = f.Result
		info.DebugName = f.Name
		info.CTInvokable = f.CTInvokable
		if f.CTInvokable && !info.NoFold && allConst(info.Args) {
			result, err := f.Callback(ctScope, constValues(info.Args))
			if err != nil {
				return false, err
			}
			info.IsConstant = true
			info.ConstantValue = result
		} else {
			info.Callback = f.Callback
		}
		return true, nil
	}
	return false, nil
}

func (p *Plugin) TryUnaryOp(ctScope *exprscope.Scope, info *exprplugin.UnaryOpInfo) (bool, error) {
	for _, u := range p.table.Unary {
		if u.Operator != info.Operator || !info.Arg.Result.IsType(u.Operand) {
			continue
		}
		info.Result = u.Result
		info.DebugName = u.Operator
		info.CTInvokable = u.CTInvokable
		if u.CTInvokable && !info.NoFold && info.Arg.Const {
			result, err := u.Callback(ctScope, []exprbox.Box{info.Arg.Value})
			if err != nil {
				return false, err
			}
			info.IsConstant = true
			info.ConstantValue = result
		} else {
			info.Callback = u.Callback
		}
		return true, nil
	}
	return false, nil
}

func (p *Plugin) TryBinaryOp(ctScope *exprscope.Scope, info *exprplugin.BinaryOpInfo) (bool, error) {
	for _, b := range p.table.Binary {
		if b.Operator != info.Operator || !info.Lhs.Result.IsType(b.Lhs) || !info.Rhs.Result.IsType(b.Rhs) {
			continue
		}
		info.Result = b.Result
		info.DebugName = b.Operator
		info.CTInvokable = b.CTInvokable
		if b.CTInvokable && !info.NoFold && info.Lhs.Const && info.Rhs.Const {
			result, err := b.Callback(ctScope, []exprbox.Box{info.Lhs.Value, info.Rhs.Value})
			if err != nil {
				return false, err
			}
			info.IsConstant = true
			info.ConstantValue = result
		} else {
			info.Callback = b.Callback
		}
		return true, nil
	}
	return false, nil
}

func (p *Plugin) TryAutoCast(*exprscope.Scope, *exprplugin.AutoCastInfo) (bool, error) {
	return false, nil
}

func (p *Plugin) TryAlias(info *exprplugin.AliasInfo) (bool, error) {
	for _, al := range p.table.Aliases {
		if !p.nameMatches(al.Alias, info.Operator) {
			continue
		}
		if al.OperandTypes != nil && !typesEqual(al.OperandTypes, info.OperandTypes) {
			continue
		}
		info.Canonical = al.Canonical
		return true, nil
	}
	return false, nil
}

func argsMatchSignature(argTypes []exprbox.TypeID, variadic bool, args []exprplugin.ArgInfo) bool {
	if variadic {
		if len(argTypes) == 0 {
			return true
		}
		fixed := argTypes[:len(argTypes)-1]
		tail := argTypes[len(argTypes)-1]
		if len(args) < len(fixed) {
			return false
		}
		for i, t := range fixed {
			if !args[i].Result.IsType(t) {
				return false
			}
		}
		for _, a := range args[len(fixed):] {
			if !a.Result.IsType(tail) {
				return false
			}
		}
		return true
	}
	if len(args) != len(argTypes) {
		return false
	}
	for i, t := range argTypes {
		if !args[i].Result.IsType(t) {
			return false
		}
	}
	return true
}

func allConst(args []exprplugin.ArgInfo) bool {
	for _, a := range args {
		if !a.Const {
			return false
		}
	}
	return true
}

func constValues(args []exprplugin.ArgInfo) []exprbox.Box {
	vals := make([]exprbox.Box, len(args))
	for i, a := range args {
		vals[i] = a.Value
	}
	return vals
}

func typesEqual(a, b []exprbox.TypeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
