package boundcheck

import (
	"boundcheck/internal/checkast"
	"boundcheck/internal/diag"
	"boundcheck/internal/ident"
	"boundcheck/internal/registry"
)

// Driver runs the bound checker over one module at a time.
type Driver struct {
	Reg *registry.Registry
	Rep diag.Reporter
}

// New builds a Driver over reg, reporting to rep.
func New(reg *registry.Registry, rep diag.Reporter) *Driver {
	return &Driver{Reg: reg, Rep: rep}
}

// CheckModule collects m's private definitions, then interprets every
// public definition through def_public, sharing one memoization table for
// the whole module.
func (d *Driver) CheckModule(m *checkast.Module) {
	privates := make(map[ident.ID]*checkast.Def)
	for i := range m.Defs {
		if m.Defs[i].Vis == checkast.Private {
			privates[m.Defs[i].Name] = &m.Defs[i]
		}
	}

	interp := &interpreter{
		reg:      d.Reg,
		rep:      d.Rep,
		privates: privates,
		memo:     newMemoTable(),
		forced:   make(map[ident.ID]bool),
	}

	for _, def := range m.PublicDefs() {
		interp.defPublic(def)
	}
}
