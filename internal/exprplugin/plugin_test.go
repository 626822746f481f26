package exprplugin

import (
	"testing"

	"github.com/cwbudde/go-expr/internal/exprbox"
	"github.com/cwbudde/go-expr/internal/exprscope"
)

type constPlugin struct {
	Base
	name  string
	value int64
}

func (p *constPlugin) TryFunction(_ *exprscope.Scope, info *FunctionInfo) (bool, error) {
	if info.Name != p.name || len(info.Args) != 0 {
		return false, nil
	}
	info.IsConstant = true
	info.ConstantValue = exprbox.New(1, p.value)
	info.Result = info.ConstantValue
	return true, nil
}

func TestChainTriesInPriorityOrder(t *testing.T) {
	chain := NewChain()
	chain.Append(&constPlugin{Base: Base{PluginName: "low"}, name: "X", value: 1})
	chain.Insert(0, &constPlugin{Base: Base{PluginName: "high"}, name: "X", value: 2})

	info := &FunctionInfo{Name: "X"}
	ok, err := chain.TryFunction(nil, info)
	if err != nil || !ok {
		t.Fatalf("TryFunction failed: ok=%v err=%v", ok, err)
	}
	if exprbox.Unbox[int64](info.ConstantValue) != 2 {
		t.Fatalf("expected the higher-priority plug-in to win, got %d", exprbox.Unbox[int64](info.ConstantValue))
	}
}

func TestChainNotFoundReturnsFalse(t *testing.T) {
	chain := NewChain()
	chain.Append(&constPlugin{Base: Base{PluginName: "only"}, name: "X", value: 1})

	info := &FunctionInfo{Name: "Y"}
	ok, err := chain.TryFunction(nil, info)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected not-found for unknown function name")
	}
}

func TestBaseDefaultsAreNoOps(t *testing.T) {
	b := Base{PluginName: "base"}
	if b.Name() != "base" {
		t.Fatalf("Name() = %q", b.Name())
	}
	if ok, err := b.TryUnaryOp(nil, &UnaryOpInfo{}); ok || err != nil {
		t.Fatalf("TryUnaryOp default should be (false, nil)")
	}
	if ok, err := b.TryAlias(&AliasInfo{}); ok || err != nil {
		t.Fatalf("TryAlias default should be (false, nil)")
	}
}
