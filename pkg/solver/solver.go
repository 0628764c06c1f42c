package solver

import (
	"context"
	"math/rand"

	"github.com/pkg/errors"
)

// ErrNoSolution is returned when a Model admits no satisfying assignment.
var ErrNoSolution = errors.New("solver: no satisfying assignment")

// Solver performs backtracking search with forward checking over a Model.
// Forward checking is sufficient per the backend's contract: after each
// tentative assignment, any constraint left with exactly one unassigned
// variable is used to prune that variable's domain immediately, so
// inconsistent branches die before recursing into them rather than after.
// Arc consistency beyond that is an optimization this backend does not
// attempt.
//
// A Solver is not safe for concurrent use; build one per Solve call (or
// reuse sequentially) the way the rest of this module is single-threaded.
type Solver struct {
	model   *Model
	monitor *Monitor
	rng     *rand.Rand
}

// New creates a Solver for model.
func New(model *Model) *Solver {
	return &Solver{
		model: model,
		rng:   rand.New(rand.NewSource(model.Config().Seed)),
	}
}

// SetMonitor attaches a Monitor that Solve will populate with search
// statistics as it runs.
func (s *Solver) SetMonitor(m *Monitor) { s.monitor = m }

// Solve enumerates up to limit satisfying assignments (all of them, capped
// at Config.MaxEnumeration, if limit <= 0). Enumeration order is
// deterministic for a fixed Config.Seed. Returns ErrNoSolution wrapped with
// context identifying the model's variables if no assignment satisfies
// every constraint.
func (s *Solver) Solve(ctx context.Context, limit int) ([]Assignment, error) {
	if err := s.model.Validate(); err != nil {
		return nil, err
	}

	vars := s.model.Vars()
	domains := make(map[string]Domain, len(vars))
	for _, v := range vars {
		d, _ := s.model.Domain(v)
		domains[v] = s.shuffled(d)
	}

	maxResults := s.model.Config().maxEnumeration()
	if limit > 0 && limit < maxResults {
		maxResults = limit
	}

	var results []Assignment
	assigned := make(Assignment, len(vars))
	covered := make(map[string]bool, len(vars))

	var search func(domains map[string]Domain) error
	search = func(domains map[string]Domain) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(assigned) == len(vars) {
			results = append(results, cloneAssignment(assigned))
			s.monitor.recordSolution()
			if len(results) >= maxResults {
				return errEnough
			}
			return nil
		}

		name := s.selectVariable(vars, domains, covered)
		values := domains[name].Values()

		for _, val := range values {
			s.monitor.recordNode()

			assigned[name] = val
			covered[name] = true

			ok, err := s.checkReady(assigned, covered)
			if err != nil {
				delete(assigned, name)
				delete(covered, name)
				return err
			}
			if !ok {
				delete(assigned, name)
				delete(covered, name)
				s.monitor.recordBacktrack()
				continue
			}

			nextDomains, pruneOK := s.forwardCheck(domains, assigned, covered)
			if pruneOK {
				if err := search(nextDomains); err != nil {
					delete(assigned, name)
					delete(covered, name)
					return err
				}
				if len(results) >= maxResults {
					delete(assigned, name)
					delete(covered, name)
					return nil
				}
			} else {
				s.monitor.recordBacktrack()
			}

			delete(assigned, name)
			delete(covered, name)
		}
		return nil
	}

	if err := search(domains); err != nil && err != errEnough {
		return nil, err
	}

	if len(results) == 0 {
		sorted := sortedCopy(vars)
		if s.monitor != nil {
			s.monitor.FailedGroup = joinNames(sorted)
		}
		return nil, errors.Wrapf(ErrNoSolution, "variables %v", sorted)
	}

	return results, nil
}

var errEnough = errors.New("solver: enumeration cap reached")

// checkReady evaluates every constraint whose variables are now fully
// covered by the partial assignment.
func (s *Solver) checkReady(assigned Assignment, covered map[string]bool) (bool, error) {
	for _, c := range s.model.constraintsFullyCoveredBy(covered) {
		ok, err := c.Check(assigned)
		if err != nil {
			return false, errors.Wrapf(err, "constraint %s", c)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// forwardCheck prunes the domain of every variable left with exactly one
// constraint's worth of unassigned neighbors, given the current partial
// assignment. Returns the pruned domain map and false if any pruned domain
// becomes empty (a dead branch).
func (s *Solver) forwardCheck(domains map[string]Domain, assigned Assignment, covered map[string]bool) (map[string]Domain, bool) {
	ready := s.model.constraintsReadyAfter(covered)
	if len(ready) == 0 {
		return domains, true
	}

	next := make(map[string]Domain, len(domains))
	for k, v := range domains {
		next[k] = v
	}

	for varName, cons := range ready {
		d := next[varName]
		pruned := d.Restrict(func(val interface{}) bool {
			trial := cloneAssignment(assigned)
			trial[varName] = val
			for _, c := range cons {
				ok, err := c.Check(trial)
				if err != nil || !ok {
					return false
				}
			}
			return true
		})
		if pruned.Count() == 0 {
			return nil, false
		}
		if pruned.Equal(d) {
			continue
		}
		next[varName] = pruned
	}
	return next, true
}

func (s *Solver) selectVariable(vars []string, domains map[string]Domain, covered map[string]bool) string {
	best := ""
	bestScore := -1.0
	for _, v := range vars {
		if covered[v] {
			continue
		}
		var score float64
		switch s.model.Config().VariableHeuristic {
		case HeuristicDeg:
			score = -float64(s.model.degree(v))
		case HeuristicDomDeg:
			score = float64(domains[v].Count()) / float64(1+s.model.degree(v))
		case HeuristicLex:
			return v
		default:
			score = float64(domains[v].Count())
		}
		if best == "" || score < bestScore {
			best, bestScore = v, score
		}
	}
	return best
}

// shuffled returns a Domain with the same values reordered deterministically
// by the solver's seeded RNG, so enumeration order varies with Config.Seed
// without sacrificing reproducibility.
func (s *Solver) shuffled(d Domain) Domain {
	values := d.Values()
	s.rng.Shuffle(len(values), func(i, j int) { values[i], values[j] = values[j], values[i] })
	shuffled, err := NewDomain(values...)
	if err != nil {
		return d
	}
	return shuffled
}

// Choose performs a weighted random selection among candidates using
// weight, the way Randomized's "fold distributions over surviving
// solutions" step does. A nil weight function picks uniformly among all
// candidates; otherwise each candidate is picked in proportion to its
// weight. Returns an error if every candidate has zero weight under a
// non-nil weight function.
func Choose(rng *rand.Rand, candidates []Assignment, weight func(Assignment) (float64, error)) (Assignment, error) {
	if len(candidates) == 0 {
		return nil, errors.New("solver: Choose called with no candidates")
	}
	if weight == nil {
		return candidates[rng.Intn(len(candidates))], nil
	}

	weights := make([]float64, len(candidates))
	total := 0.0
	for i, c := range candidates {
		w, err := weight(c)
		if err != nil {
			return nil, errors.Wrap(err, "solver: distribution evaluation")
		}
		if w < 0 {
			return nil, errors.Errorf("solver: distribution returned negative weight %v", w)
		}
		weights[i] = w
		total += w
	}
	if total <= 0 {
		return nil, errors.New("solver: every candidate has zero weight")
	}

	pick := rng.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if pick <= acc {
			return candidates[i], nil
		}
	}
	return candidates[len(candidates)-1], nil
}

func cloneAssignment(a Assignment) Assignment {
	out := make(Assignment, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

func joinNames(names []string) string {
	s := ""
	for i, n := range names {
		if i > 0 {
			s += ","
		}
		s += n
	}
	return s
}
