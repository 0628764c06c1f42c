package coverage

import (
	"github.com/pkg/errors"
)

// PointOption configures a CoverPoint at construction time.
type PointOption func(*CoverPoint)

// WithXF overrides the default identity-on-vname transformation.
func WithXF(xf MatchFunc) PointOption { return func(p *CoverPoint) { p.matcher.xf = xf } }

// WithRel overrides the default equality relation.
func WithRel(rel RelFunc) PointOption { return func(p *CoverPoint) { p.matcher.rel = rel } }

// WithVName names the sample argument the default xf reads.
func WithVName(vname string) PointOption {
	return func(p *CoverPoint) {
		if p.matcher.xf == nil {
			p.matcher.xf = IdentityXF(vname)
		}
	}
}

// WithWeight sets the leaf's weight (minimum 1).
func WithWeight(w int) PointOption {
	return func(p *CoverPoint) {
		if w < 1 {
			w = 1
		}
		p.weight = w
	}
}

// WithAtLeast sets the minimum hit count for a bin to count as covered.
func WithAtLeast(n int) PointOption {
	return func(p *CoverPoint) {
		if n < 1 {
			n = 1
		}
		p.atLeast = n
	}
}

// WithInjective sets whether a sample may match more than one bin.
func WithInjective(inj bool) PointOption { return func(p *CoverPoint) { p.matcher.inj = inj } }

// WithLabels assigns display labels to bins, parallel to the values passed
// to NewCoverPoint. len(labels) must equal len(values).
func WithLabels(labels []string) PointOption {
	return func(p *CoverPoint) { p.pendingLabels = labels }
}

// CoverPoint is a single-dimensional coverage leaf: a declared list of bins
// is matched against each sample via a BinMatcher, and per-bin hit counts
// accumulate.
type CoverPoint struct {
	itemBase
	bins    []binEntry
	matcher *BinMatcher
	weight  int
	atLeast int

	pendingLabels []string
	seen          map[uint64]bool
}

// NewCoverPoint builds a CoverPoint leaf; register it with Registry.Add.
// values are the declared bins in order; vname names the sample argument
// the default matcher reads (ignored if WithXF is also given).
func NewCoverPoint(name string, values []interface{}, vname string, opts ...PointOption) (*CoverPoint, error) {
	p := &CoverPoint{
		itemBase: newItemBase(name),
		weight:   1,
		atLeast:  1,
		matcher:  &BinMatcher{rel: EqualityRel, inj: true},
		seen:     make(map[uint64]bool),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.matcher.xf == nil {
		p.matcher.xf = IdentityXF(vname)
	}
	if p.pendingLabels != nil && len(p.pendingLabels) != len(values) {
		return nil, errors.Errorf("coverage: bins_labels length %d does not match bins length %d", len(p.pendingLabels), len(values))
	}
	for i, v := range values {
		key, err := binKey(v)
		if err != nil {
			return nil, err
		}
		if p.seen[key] {
			return nil, errors.Wrapf(ErrDuplicateName, "duplicate bin %v in %s", v, name)
		}
		p.seen[key] = true
		label := ""
		if p.pendingLabels != nil {
			label = p.pendingLabels[i]
		}
		p.bins = append(p.bins, binEntry{value: v, label: label, key: key})
	}
	return p, nil
}

// Sample delivers args to the matcher, updates matched bins' hit counts,
// fires bins callbacks for newly-hit bins, and propagates aggregate updates
// to ancestor containers.
func (p *CoverPoint) Sample(args Args) error {
	if p.updating {
		return errors.Wrapf(ErrReentrant, "%s", p.name)
	}
	p.updating = true
	defer func() { p.updating = false }()

	matched, err := p.matcher.Match(args, p.bins)
	if err != nil {
		return errors.Wrap(err, "coverage: sample")
	}
	for _, i := range matched {
		b := &p.bins[i]
		b.hits++
		if !b.hit && b.hits >= p.atLeast {
			b.hit = true
			label := binLabel(b.label, b.value)
			p.recordHit(label)
			p.fireBins(p, label, b.value)
			notifyBinsUp(p, label, b.value)
		}
	}
	propagateUp(p)
	return nil
}

func (p *CoverPoint) Size() int { return p.weight * len(p.bins) }

func (p *CoverPoint) Coverage() int {
	count := 0
	for _, b := range p.bins {
		if b.hits >= p.atLeast {
			count++
		}
	}
	return p.weight * count
}

func (p *CoverPoint) CoverPercentage() float64 {
	size := p.Size()
	if size == 0 {
		return 0
	}
	return 100 * float64(p.Coverage()) / float64(size)
}

func (p *CoverPoint) NewHits() []string { return p.drainNewHits() }

func (p *CoverPoint) DetailedCoverage() map[string]int {
	out := make(map[string]int, len(p.bins))
	for _, b := range p.bins {
		out[binLabel(b.label, b.value)] = b.hits
	}
	return out
}

func (p *CoverPoint) notifyBinsUp(label string, value interface{}) { notifyBinsUp(p, label, value) }

func (p *CoverPoint) mergeBins(name string, bins []ExportBin) error {
	if len(bins) != len(p.bins) {
		return errors.Wrapf(ErrMergeMismatch, "%s: bin count %d does not match %d", name, len(bins), len(p.bins))
	}
	byLabel := make(map[string]int, len(p.bins))
	for i, b := range p.bins {
		byLabel[binLabel(b.label, b.value)] = i
	}
	indices := make([]int, len(bins))
	for j, b := range bins {
		i, ok := byLabel[b.Label]
		if !ok {
			return errors.Wrapf(ErrMergeMismatch, "%s: unknown bin %q", name, b.Label)
		}
		indices[j] = i
	}
	for j, b := range bins {
		i := indices[j]
		p.bins[i].hits += b.Hits
		if !p.bins[i].hit && p.bins[i].hits >= p.atLeast {
			p.bins[i].hit = true
		}
	}
	return nil
}

func (p *CoverPoint) exportBins() []ExportBin {
	out := make([]ExportBin, len(p.bins))
	for i, b := range p.bins {
		out[i] = ExportBin{Label: binLabel(b.label, b.value), Value: fmtValue(b.value), Hits: b.hits}
	}
	return out
}

// Bins exposes the declared bin values in declaration order, for callers
// building a CoverCross over this point.
func (p *CoverPoint) Bins() []interface{} {
	out := make([]interface{}, len(p.bins))
	for i, b := range p.bins {
		out[i] = b.value
	}
	return out
}

var _ Item = (*CoverPoint)(nil)

// NewTransitionCoverPoint builds a CoverPoint whose bins are ordered
// value sequences (e.g. [0,1], [1,2]) matched against a sliding window of
// the most recently sampled values for vname, oldest first. This
// generalizes the sequence/transition-bin idiom the distilled bin contract
// leaves implicit.
func NewTransitionCoverPoint(name string, sequences [][]interface{}, vname string, opts ...PointOption) (*CoverPoint, error) {
	maxLen := 0
	values := make([]interface{}, len(sequences))
	for i, seq := range sequences {
		values[i] = seq
		if len(seq) > maxLen {
			maxLen = len(seq)
		}
	}
	window := &transitionWindow{max: maxLen}
	allOpts := append([]PointOption{
		WithXF(window.xf(vname)),
		WithRel(transitionRel),
		WithInjective(false),
	}, opts...)
	return NewCoverPoint(name, values, vname, allOpts...)
}

type transitionWindow struct {
	values []interface{}
	max    int
}

func (w *transitionWindow) xf(vname string) MatchFunc {
	return func(a Args) (interface{}, error) {
		v, ok := a[vname]
		if !ok {
			return nil, errors.Wrapf(ErrContract, "missing argument %q", vname)
		}
		w.values = append(w.values, v)
		if len(w.values) > w.max {
			w.values = w.values[len(w.values)-w.max:]
		}
		return append([]interface{}(nil), w.values...), nil
	}
}

func transitionRel(value, bin interface{}) bool {
	window, ok := value.([]interface{})
	if !ok {
		return false
	}
	seq, ok := bin.([]interface{})
	if !ok || len(window) < len(seq) {
		return false
	}
	tail := window[len(window)-len(seq):]
	for i := range seq {
		if tail[i] != seq[i] {
			return false
		}
	}
	return true
}
