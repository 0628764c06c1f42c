package solver

import (
	"sort"

	"github.com/pkg/errors"
)

// Model is the immutable declaration of a constraint satisfaction problem:
// a set of named variables with finite domains and a set of opaque
// constraints over subsets of them. Models are built once and handed to a
// Solver; they hold no search state themselves.
type Model struct {
	order   []string
	domains map[string]Domain
	cons    []Constraint
	config  *Config
}

// NewModel creates an empty model. Variables are added with AddVar in the
// order callers want them to participate in variable-ordering ties; pass
// config as nil to use DefaultConfig.
func NewModel(config *Config) *Model {
	if config == nil {
		config = DefaultConfig()
	}
	return &Model{
		domains: make(map[string]Domain),
		config:  config,
	}
}

// AddVar declares a variable with the given domain. Re-adding a name
// replaces its domain but keeps its position in declaration order.
func (m *Model) AddVar(name string, d Domain) {
	if _, exists := m.domains[name]; !exists {
		m.order = append(m.order, name)
	}
	m.domains[name] = d
}

// AddConstraint posts a constraint. Every variable it names must already
// have been declared with AddVar.
func (m *Model) AddConstraint(c Constraint) error {
	for _, v := range c.Vars() {
		if _, ok := m.domains[v]; !ok {
			return errors.Errorf("solver: constraint %s references unknown variable %q", c, v)
		}
	}
	m.cons = append(m.cons, c)
	return nil
}

// Vars returns variable names in declaration order.
func (m *Model) Vars() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Domain returns the declared domain for a variable.
func (m *Model) Domain(name string) (Domain, bool) {
	d, ok := m.domains[name]
	return d, ok
}

// Constraints returns all posted constraints.
func (m *Model) Constraints() []Constraint {
	out := make([]Constraint, len(m.cons))
	copy(out, m.cons)
	return out
}

// Config returns the solver configuration for this model.
func (m *Model) Config() *Config { return m.config }

// Validate reports a malformed model: an empty domain, or (defensively) a
// constraint naming an undeclared variable — the latter can't currently
// happen given AddConstraint's check, but Validate is kept as the single
// place Solve consults before searching.
func (m *Model) Validate() error {
	for _, name := range m.order {
		if m.domains[name].Count() == 0 {
			return errors.Errorf("solver: variable %q has an empty domain", name)
		}
	}
	for _, c := range m.cons {
		for _, v := range c.Vars() {
			if _, ok := m.domains[v]; !ok {
				return errors.Errorf("solver: constraint %s references unknown variable %q", c, v)
			}
		}
	}
	return nil
}

// degree returns the number of constraints a variable participates in.
func (m *Model) degree(name string) int {
	n := 0
	for _, c := range m.cons {
		for _, v := range c.Vars() {
			if v == name {
				n++
				break
			}
		}
	}
	return n
}

// constraintsFullyCoveredBy returns, in declaration order, the constraints
// whose variable set is a subset of covered.
func (m *Model) constraintsFullyCoveredBy(covered map[string]bool) []Constraint {
	var out []Constraint
	for _, c := range m.cons {
		all := true
		for _, v := range c.Vars() {
			if !covered[v] {
				all = false
				break
			}
		}
		if all {
			out = append(out, c)
		}
	}
	return out
}

// constraintsReadyAfter returns constraints with exactly one variable
// outside covered, keyed by that remaining variable — the forward-checking
// candidates once the variables in covered are concrete.
func (m *Model) constraintsReadyAfter(covered map[string]bool) map[string][]Constraint {
	out := make(map[string][]Constraint)
	for _, c := range m.cons {
		var missing string
		missingCount := 0
		for _, v := range c.Vars() {
			if !covered[v] {
				missingCount++
				missing = v
			}
		}
		if missingCount == 1 {
			out[missing] = append(out[missing], c)
		}
	}
	return out
}

func sortedCopy(names []string) []string {
	out := append([]string(nil), names...)
	sort.Strings(out)
	return out
}
