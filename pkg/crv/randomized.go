package crv

import (
	"context"
	"math/rand"
	"sort"
	"strings"

	"github.com/gitrdm/cocotbgo/pkg/solver"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// PreRandomizer is implemented by an embedding struct that wants a hook run
// immediately before Randomize/RandomizeWith solves.
type PreRandomizer interface{ PreRandomize() }

// PostRandomizer is implemented by an embedding struct that wants a hook
// run immediately after a successful Randomize/RandomizeWith.
type PostRandomizer interface{ PostRandomize() }

type registeredFn struct {
	vars   []string
	hardFn func(Values) (bool, error)
	distFn func(Values) (float64, error)
}

// SolveStats reports counters from the most recent randomize call, totalled
// over its solve groups.
type SolveStats struct {
	Groups          int
	CandidatesFound int
	FailedGroupVars string
}

// Randomized is the embeddable base for a constrained-random object. Embed
// it by value in a struct, then call Init(self) once with a pointer to that
// struct before declaring random variables or constraints.
//
//	type Point struct {
//	    crv.Randomized
//	    X, Y int
//	}
//	p := &Point{}
//	p.Init(p)
//	p.AddRand("X", solver.MustDomain(rangeInts(-10, 9)...))
type Randomized struct {
	self  interface{}
	order []string
	doms  map[string]solver.Domain

	hard map[string]*registeredFn
	dist map[string]*registeredFn

	solveGroups [][]string
	seed        int64
	rng         *rand.Rand

	lastStats SolveStats
	log       *logrus.Entry
}

// Init binds the Randomized base to the struct it is embedded in. self must
// be a pointer to that struct. Must be called before any other method.
func (r *Randomized) Init(self interface{}) {
	r.self = self
	r.doms = make(map[string]solver.Domain)
	r.hard = make(map[string]*registeredFn)
	r.dist = make(map[string]*registeredFn)
	r.seed = 1
	r.rng = rand.New(rand.NewSource(r.seed))
	r.log = logrus.WithField("component", "crv.Randomized")
}

// WithSeed sets the deterministic random source used for weighted choice
// and solver tie-breaking. Returns the receiver for chaining.
func (r *Randomized) WithSeed(seed int64) *Randomized {
	r.seed = seed
	r.rng = rand.New(rand.NewSource(seed))
	return r
}

// AddRand declares name as a random variable with the given finite domain.
// Re-declaring a name replaces its domain.
func (r *Randomized) AddRand(name string, domain solver.Domain) {
	if _, exists := r.doms[name]; !exists {
		r.order = append(r.order, name)
	}
	r.doms[name] = domain
}

// varKey canonicalizes a variable-name set for the "exact set" replacement
// rule on constraints/distributions.
func varKey(vars []string) string {
	sorted := append([]string(nil), vars...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

// AddConstraint registers fn, over the named variables, as either a hard
// constraint or a distribution depending on its reflected return type (bool
// vs numeric). Registering another function over the exact same variable
// set replaces the earlier one.
func (r *Randomized) AddConstraint(vars []string, fn interface{}) error {
	k, hardFn, distFn, err := classify(fn)
	if err != nil {
		return err
	}
	entry := &registeredFn{vars: append([]string(nil), vars...), hardFn: hardFn, distFn: distFn}
	key := varKey(vars)
	switch k {
	case kindHard:
		r.hard[key] = entry
	case kindDistribution:
		r.dist[key] = entry
	}
	return nil
}

// DelConstraint removes any hard constraint or distribution registered over
// exactly this variable set.
func (r *Randomized) DelConstraint(vars []string) {
	key := varKey(vars)
	delete(r.hard, key)
	delete(r.dist, key)
}

// SolveOrder fixes the order in which disjoint groups of random variables
// are solved. Variables not mentioned in any group form an implicit final
// group, preserving AddRand declaration order.
func (r *Randomized) SolveOrder(groups ...[]string) {
	r.solveGroups = groups
}

// LastSolveStats reports counters from the most recent successful or failed
// randomize call.
func (r *Randomized) LastSolveStats() SolveStats { return r.lastStats }

// Value returns the current value of the embedding struct's exported field
// name (its zero value until a randomize call assigns it), or nil if there
// is no such field.
func (r *Randomized) Value(name string) interface{} {
	v, _ := structValues(r.self)
	return v[name]
}

func (r *Randomized) groupPlan() [][]string {
	mentioned := make(map[string]bool)
	plan := make([][]string, 0, len(r.solveGroups)+1)
	for _, g := range r.solveGroups {
		plan = append(plan, g)
		for _, v := range g {
			mentioned[v] = true
		}
	}
	var rest []string
	for _, v := range r.order {
		if !mentioned[v] {
			rest = append(rest, v)
		}
	}
	if len(rest) > 0 {
		plan = append(plan, rest)
	}
	return plan
}

// Randomize solves with the currently registered constraints and
// distributions, writes the chosen values back into the embedding struct's
// fields, and calls PostRandomize if implemented.
func (r *Randomized) Randomize() error {
	return r.randomize(nil)
}

// RandomizeWith behaves like Randomize, but each extra constraint replaces
// (for the duration of this call only) any registered constraint or
// distribution over the exact same variable set.
func (r *Randomized) RandomizeWith(extra ...Extra) error {
	return r.randomize(extra)
}

// Extra is an inline, call-scoped constraint or distribution passed to
// RandomizeWith.
type Extra struct {
	Vars []string
	Fn   interface{}
}

// NewExtra builds an Extra for RandomizeWith.
func NewExtra(vars []string, fn interface{}) Extra { return Extra{Vars: vars, Fn: fn} }

func (r *Randomized) randomize(extra []Extra) error {
	if r.self == nil {
		return ErrNotInitialized
	}
	if pr, ok := r.self.(PreRandomizer); ok {
		pr.PreRandomize()
	}

	hard := make(map[string]*registeredFn, len(r.hard))
	for k, v := range r.hard {
		hard[k] = v
	}
	dist := make(map[string]*registeredFn, len(r.dist))
	for k, v := range r.dist {
		dist[k] = v
	}
	for _, e := range extra {
		k, hardFn, distFn, err := classify(e.Fn)
		if err != nil {
			return err
		}
		entry := &registeredFn{vars: append([]string(nil), e.Vars...), hardFn: hardFn, distFn: distFn}
		key := varKey(e.Vars)
		switch k {
		case kindHard:
			hard[key] = entry
			delete(dist, key)
		case kindDistribution:
			dist[key] = entry
			delete(hard, key)
		}
	}

	fixed, err := structValues(r.self)
	if err != nil {
		return err
	}

	if err := r.validateVars(hard, dist, fixed); err != nil {
		return err
	}

	plan := r.groupPlan()
	solveID := uuid.NewString()
	solved := make(map[string]interface{})

	stats := SolveStats{Groups: len(plan)}

	cumulative := make(map[string]bool, len(r.order))
	// Exported fields that are not random variables already hold concrete
	// values, so they never hold back a constraint that names them.
	for name := range fixed {
		if _, isRand := r.doms[name]; !isRand {
			cumulative[name] = true
		}
	}
	pendingHard := hard
	pendingDist := dist

	for gi, group := range plan {
		for _, v := range group {
			cumulative[v] = true
		}

		groupHard, groupDist := partitionReady(pendingHard, pendingDist, cumulative, &pendingHard, &pendingDist)

		fixedCtx := mergeMaps(fixed, solved)

		model := solver.NewModel(&solver.Config{VariableHeuristic: solver.HeuristicDom, Seed: r.seed + int64(gi)})
		for _, v := range group {
			model.AddVar(v, r.doms[v])
		}
		for _, e := range groupHard {
			modelVars := intersect(e.vars, group)
			entry := e
			c := solver.NewPredicate("hard("+strings.Join(entry.vars, ",")+")", modelVars, func(a solver.Assignment) (bool, error) {
				merged := mergeMaps(fixedCtx, a)
				return entry.hardFn(merged)
			})
			if err := model.AddConstraint(c); err != nil {
				return errors.Wrap(err, "crv")
			}
		}

		slv := solver.New(model)
		mon := &solver.Monitor{}
		slv.SetMonitor(mon)

		results, err := slv.Solve(backgroundContext(), 0)
		if err != nil {
			r.lastStats = SolveStats{Groups: len(plan), CandidatesFound: stats.CandidatesFound, FailedGroupVars: strings.Join(group, ",")}
			r.log.WithError(err).WithField("solve_id", solveID).WithField("group", group).Error("crv: group has no satisfying assignment")
			return errors.Wrapf(ErrSolverFailed, "group %v: %v", group, err)
		}
		stats.CandidatesFound += len(results)

		var weightFn func(solver.Assignment) (float64, error)
		if len(groupDist) > 0 {
			dists := groupDist
			weightFn = func(a solver.Assignment) (float64, error) {
				merged := mergeMaps(fixedCtx, a)
				total := 1.0
				for _, e := range dists {
					w, err := e.distFn(merged)
					if err != nil {
						return 0, err
					}
					if w < 0 {
						return 0, errors.Errorf("distribution over %v returned negative weight", e.vars)
					}
					total *= w
				}
				return total, nil
			}
		}

		chosen, err := solver.Choose(r.rng, results, weightFn)
		if err != nil {
			return errors.Wrapf(ErrSolverFailed, "group %v: %v", group, err)
		}
		for _, v := range group {
			solved[v] = chosen[v]
		}
	}

	if err := bindFields(r.self, solved); err != nil {
		return err
	}
	r.lastStats = stats

	if pr, ok := r.self.(PostRandomizer); ok {
		pr.PostRandomize()
	}
	return nil
}

// validateVars ensures every constraint/distribution parameter name is
// either a declared random variable or an exported object field.
func (r *Randomized) validateVars(hard, dist map[string]*registeredFn, fixed map[string]interface{}) error {
	check := func(e *registeredFn) error {
		for _, v := range e.vars {
			if _, ok := r.doms[v]; ok {
				continue
			}
			if _, ok := fixed[v]; ok {
				continue
			}
			return errors.Wrapf(ErrUnknownVariable, "%q", v)
		}
		return nil
	}
	for _, e := range hard {
		if err := check(e); err != nil {
			return err
		}
	}
	for _, e := range dist {
		if err := check(e); err != nil {
			return err
		}
	}
	return nil
}

// partitionReady splits pendingHard/pendingDist into the subset fully
// covered by cumulative (returned) and the remainder (written back through
// restHard/restDist).
func partitionReady(pendingHard, pendingDist map[string]*registeredFn, cumulative map[string]bool, restHard, restDist *map[string]*registeredFn) ([]*registeredFn, []*registeredFn) {
	var ready []*registeredFn
	nextHard := make(map[string]*registeredFn)
	for k, e := range pendingHard {
		if coveredBy(e.vars, cumulative) {
			ready = append(ready, e)
		} else {
			nextHard[k] = e
		}
	}
	*restHard = nextHard

	var readyDist []*registeredFn
	nextDist := make(map[string]*registeredFn)
	for k, e := range pendingDist {
		if coveredBy(e.vars, cumulative) {
			readyDist = append(readyDist, e)
		} else {
			nextDist[k] = e
		}
	}
	*restDist = nextDist

	return ready, readyDist
}

func coveredBy(vars []string, covered map[string]bool) bool {
	for _, v := range vars {
		if !covered[v] {
			return false
		}
	}
	return true
}

func intersect(a []string, b []string) []string {
	set := make(map[string]bool, len(b))
	for _, v := range b {
		set[v] = true
	}
	var out []string
	for _, v := range a {
		if set[v] {
			out = append(out, v)
		}
	}
	return out
}

func mergeMaps(a, b map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// backgroundContext is always correct here: the library imposes no
// deadline on a solve group, so cancellation is never requested.
func backgroundContext() context.Context { return context.Background() }
