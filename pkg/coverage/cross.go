package coverage

import (
	"github.com/pkg/errors"
)

// Any is the ign_bins wildcard: a position in an ignore tuple set to Any
// matches any value the corresponding CoverPoint produces.
var Any = wildcard{}

type wildcard struct{}

// CrossOption configures a CoverCross at construction time.
type CrossOption func(*CoverCross)

// WithCrossWeight sets the leaf's weight (minimum 1).
func WithCrossWeight(w int) CrossOption {
	return func(c *CoverCross) {
		if w < 1 {
			w = 1
		}
		c.weight = w
	}
}

// WithCrossAtLeast sets the minimum hit count for a cross bin to count as
// covered.
func WithCrossAtLeast(n int) CrossOption {
	return func(c *CoverCross) {
		if n < 1 {
			n = 1
		}
		c.atLeast = n
	}
}

// crossBin is one generated combination of the referenced points' bins.
type crossBin struct {
	values []interface{}
	hits   int
	hit    bool
}

// CoverCross is a Cartesian-product coverage leaf over sibling CoverPoints.
// It does not register its own sampling path: it is updated whenever the
// same sample call also drives all of its referenced points (see Sample).
type CoverCross struct {
	itemBase
	points  []*CoverPoint
	ignore  [][]interface{}
	bins    []crossBin
	weight  int
	atLeast int
}

// NewCoverCross builds the cross-product leaf over points, in the given
// order, after removing any generated combination matched by an ign_bins
// tuple (a per-axis value, or Any as a wildcard).
func NewCoverCross(name string, points []*CoverPoint, ignore [][]interface{}, opts ...CrossOption) (*CoverCross, error) {
	if len(points) == 0 {
		return nil, errors.Wrapf(ErrUnknownReference, "%s: no CoverPoints given", name)
	}
	for _, ig := range ignore {
		if len(ig) != len(points) {
			return nil, errors.Errorf("coverage: ign_bins tuple arity %d does not match %d referenced points", len(ig), len(points))
		}
	}
	c := &CoverCross{
		itemBase: newItemBase(name),
		points:   points,
		ignore:   ignore,
		weight:   1,
		atLeast:  1,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.bins = cartesianProduct(points)
	c.bins = filterIgnored(c.bins, ignore)
	return c, nil
}

func cartesianProduct(points []*CoverPoint) []crossBin {
	combos := [][]interface{}{{}}
	for _, p := range points {
		var next [][]interface{}
		for _, combo := range combos {
			for _, v := range p.Bins() {
				row := append(append([]interface{}(nil), combo...), v)
				next = append(next, row)
			}
		}
		combos = next
	}
	out := make([]crossBin, len(combos))
	for i, combo := range combos {
		out[i] = crossBin{values: combo}
	}
	return out
}

func filterIgnored(bins []crossBin, ignore [][]interface{}) []crossBin {
	if len(ignore) == 0 {
		return bins
	}
	var out []crossBin
	for _, b := range bins {
		if !matchesAnyIgnore(b.values, ignore) {
			out = append(out, b)
		}
	}
	return out
}

func matchesAnyIgnore(values []interface{}, ignore [][]interface{}) bool {
	for _, ig := range ignore {
		match := true
		for i, want := range ig {
			if _, isWild := want.(wildcard); isWild {
				continue
			}
			if !EqualityRel(values[i], want) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// Sample is invoked by a Sampler/Section alongside every referenced point
// in the same call: it re-derives each point's matched bin for args and,
// if every referenced point matched, increments the corresponding cross
// combination(s).
func (c *CoverCross) Sample(args Args) error {
	if c.updating {
		return errors.Wrapf(ErrReentrant, "%s", c.name)
	}
	c.updating = true
	defer func() { c.updating = false }()

	axisMatches := make([][]interface{}, len(c.points))
	for i, p := range c.points {
		idxs, err := p.matcher.Match(args, p.bins)
		if err != nil {
			return err
		}
		if len(idxs) == 0 {
			return nil // not all referenced points fired this sample
		}
		vals := make([]interface{}, len(idxs))
		for j, idx := range idxs {
			vals[j] = p.bins[idx].value
		}
		axisMatches[i] = vals
	}

	for _, combo := range expandCombos(axisMatches) {
		for i := range c.bins {
			if equalValues(c.bins[i].values, combo) {
				c.bins[i].hits++
				if !c.bins[i].hit && c.bins[i].hits >= c.atLeast {
					c.bins[i].hit = true
					label := binLabel("", combo)
					c.recordHit(label)
					c.fireBins(c, label, combo)
					notifyBinsUp(c, label, combo)
				}
			}
		}
	}
	propagateUp(c)
	return nil
}

func expandCombos(axes [][]interface{}) [][]interface{} {
	combos := [][]interface{}{{}}
	for _, axis := range axes {
		var next [][]interface{}
		for _, combo := range combos {
			for _, v := range axis {
				next = append(next, append(append([]interface{}(nil), combo...), v))
			}
		}
		combos = next
	}
	return combos
}

func equalValues(a, b []interface{}) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !EqualityRel(a[i], b[i]) {
			return false
		}
	}
	return true
}

func (c *CoverCross) Size() int { return c.weight * len(c.bins) }

func (c *CoverCross) Coverage() int {
	count := 0
	for _, b := range c.bins {
		if b.hits >= c.atLeast {
			count++
		}
	}
	return c.weight * count
}

func (c *CoverCross) CoverPercentage() float64 {
	size := c.Size()
	if size == 0 {
		return 0
	}
	return 100 * float64(c.Coverage()) / float64(size)
}

func (c *CoverCross) NewHits() []string { return c.drainNewHits() }

func (c *CoverCross) DetailedCoverage() map[string]int {
	out := make(map[string]int, len(c.bins))
	for _, b := range c.bins {
		out[binLabel("", b.values)] = b.hits
	}
	return out
}

func (c *CoverCross) notifyBinsUp(label string, value interface{}) { notifyBinsUp(c, label, value) }

func (c *CoverCross) mergeBins(name string, bins []ExportBin) error {
	if len(bins) != len(c.bins) {
		return errors.Wrapf(ErrMergeMismatch, "%s: bin count %d does not match %d", name, len(bins), len(c.bins))
	}
	byValue := make(map[string]int, len(c.bins))
	for i, b := range c.bins {
		byValue[fmtValue(b.values)] = i
	}
	indices := make([]int, len(bins))
	for j, b := range bins {
		i, ok := byValue[b.Value]
		if !ok {
			return errors.Wrapf(ErrMergeMismatch, "%s: unknown bin %q", name, b.Value)
		}
		indices[j] = i
	}
	for j, b := range bins {
		i := indices[j]
		c.bins[i].hits += b.Hits
		if !c.bins[i].hit && c.bins[i].hits >= c.atLeast {
			c.bins[i].hit = true
		}
	}
	return nil
}

func (c *CoverCross) exportBins() []ExportBin {
	out := make([]ExportBin, len(c.bins))
	for i, b := range c.bins {
		out[i] = ExportBin{Label: binLabel("", b.values), Value: fmtValue(b.values), Hits: b.hits}
	}
	return out
}

var _ Item = (*CoverCross)(nil)
