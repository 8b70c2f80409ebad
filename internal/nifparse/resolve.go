package nifparse

import "nif/internal/ast"

// resolveSymbols walks the whole tree expanding every trailing-dot
// Symbol/SymbolDef by appending the module suffix, per invariant 2. A
// trailing-dot symbol in a module with no resolvable suffix is fatal.
func (p *parser) resolveSymbols() error {
	for _, ref := range p.module.Body {
		if err := p.resolveNode(ref); err != nil {
			return err
		}
	}
	for i := range p.module.Directives {
		d := &p.module.Directives[i]
		if d.Kind == ast.DirectiveLang || d.Kind == ast.DirectiveDialect {
			for _, ref := range d.LangBody {
				if err := p.resolveNode(ref); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (p *parser) resolveNode(ref ast.Ref) error {
	node := p.arena.Get(ref)
	if (node.Kind == ast.KindSymbol || node.Kind == ast.KindSymbolDef) && ast.HasTrailingDot(node.Bytes) {
		if p.module.ModuleSuffix == "" {
			return &Error{Kind: TrailingDotWithoutSuffix, Offset: node.Offset, Msg: "trailing-dot symbol but no module suffix is available"}
		}
		expanded := append(append([]byte(nil), node.Bytes...), p.module.ModuleSuffix...)
		if err := validateSymbolShape(expanded, node.Offset); err != nil {
			return err
		}
		node.Bytes = expanded
	}
	for _, child := range node.Children {
		if err := p.resolveNode(child); err != nil {
			return err
		}
	}
	return nil
}
