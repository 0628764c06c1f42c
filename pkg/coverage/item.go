package coverage

import (
	"sort"
	"strings"
)

// ThresholdCallback fires the first time an item's cover_percentage crosses
// percent as a result of a propagated update.
type ThresholdCallback func(item Item, percent float64)

// BinsCallback fires the first time a bin with the given label is hit,
// whether registered directly on the leaf owning the bin or on an
// ancestor container watching its descendants.
type BinsCallback func(item Item, label string, value interface{})

// Item is any node in the coverage trie: a Container or one of the leaf
// kinds (CoverPoint, CoverCross, CoverCheck).
type Item interface {
	Name() string
	Size() int
	Coverage() int
	CoverPercentage() float64
	// NewHits returns bin labels first hit since the previous call, then
	// clears the set (consumed-on-read).
	NewHits() []string
	DetailedCoverage() map[string]int
	AddThresholdCallback(percent float64, fn ThresholdCallback)
	AddBinsCallback(label string, fn BinsCallback)

	parent() *Container
	setParent(*Container)
	notifyBinsUp(label string, value interface{})
}

type thresholdReg struct {
	percent float64
	fn      ThresholdCallback
	fired   bool
}

// itemBase holds the state and callback machinery common to every node in
// the trie: name, parent link, threshold/bins callbacks and the
// consumed-on-read new-hits set. Leaves and Container embed it.
type itemBase struct {
	name       string
	parentPtr  *Container
	thresholds []*thresholdReg
	binsCBs    map[string][]BinsCallback
	newHits    []string
	updating   bool
}

func newItemBase(name string) itemBase {
	return itemBase{name: name, binsCBs: make(map[string][]BinsCallback)}
}

func (b *itemBase) Name() string { return b.name }

func (b *itemBase) parent() *Container      { return b.parentPtr }
func (b *itemBase) setParent(c *Container)  { b.parentPtr = c }

func (b *itemBase) AddThresholdCallback(percent float64, fn ThresholdCallback) {
	b.thresholds = append(b.thresholds, &thresholdReg{percent: percent, fn: fn})
}

func (b *itemBase) AddBinsCallback(label string, fn BinsCallback) {
	b.binsCBs[label] = append(b.binsCBs[label], fn)
}

func (b *itemBase) recordHit(label string) {
	b.newHits = append(b.newHits, label)
}

func (b *itemBase) drainNewHits() []string {
	out := b.newHits
	b.newHits = nil
	return out
}

// fireBins invokes this node's own callbacks registered for label, in
// registration order.
func (b *itemBase) fireBins(self Item, label string, value interface{}) {
	for _, fn := range b.binsCBs[label] {
		fn(self, label, value)
	}
}

// checkThreshold evaluates this node's threshold callbacks against
// percent, firing any that have newly crossed, in registration order.
func (b *itemBase) checkThreshold(self Item, percent float64) {
	for _, t := range b.thresholds {
		if !t.fired && percent >= t.percent {
			t.fired = true
			t.fn(self, percent)
		}
	}
}

// notifyBinsUp walks from self up through ancestors, firing each ancestor's
// callbacks registered for label (the leaf's own callbacks having already
// fired before this is called).
func notifyBinsUp(self Item, label string, value interface{}) {
	p := self.parent()
	for p != nil {
		p.fireBins(p, label, value)
		p = p.parentPtr
	}
}

// propagateUp evaluates the sampled leaf's own threshold callbacks, then
// every ancestor container's, child-before-parent, firing any that have
// newly crossed.
func propagateUp(self Item) {
	if t, ok := self.(interface{ checkThreshold(Item, float64) }); ok {
		t.checkThreshold(self, self.CoverPercentage())
	}
	p := self.parent()
	for p != nil {
		pct := p.CoverPercentage()
		p.checkThreshold(p, pct)
		p = p.parentPtr
	}
}

// Container is a non-leaf node in the coverage trie. It is created
// automatically by DB.Add for every intermediate path segment and
// aggregates size/coverage/new_hits from its children.
type Container struct {
	itemBase
	children     []Item
	childByName  map[string]Item
}

func newContainer(name string) *Container {
	c := &Container{itemBase: newItemBase(name)}
	c.childByName = make(map[string]Item)
	return c
}

func (c *Container) addChild(it Item) {
	c.children = append(c.children, it)
	c.childByName[it.Name()] = it
	it.setParent(c)
}

// Children returns direct children sorted by name, for deterministic
// export and enumeration.
func (c *Container) Children() []Item {
	out := append([]Item(nil), c.children...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

func (c *Container) Size() int {
	total := 0
	for _, ch := range c.children {
		total += ch.Size()
	}
	return total
}

func (c *Container) Coverage() int {
	total := 0
	for _, ch := range c.children {
		total += ch.Coverage()
	}
	return total
}

func (c *Container) CoverPercentage() float64 {
	size := c.Size()
	if size == 0 {
		return 0
	}
	return 100 * float64(c.Coverage()) / float64(size)
}

func (c *Container) NewHits() []string {
	var all []string
	for _, ch := range c.children {
		all = append(all, ch.NewHits()...)
	}
	all = append(all, c.drainNewHits()...)
	return all
}

func (c *Container) DetailedCoverage() map[string]int {
	out := make(map[string]int)
	for _, ch := range c.children {
		segment := ch.Name()
		if c.Name() != "" {
			segment = strings.TrimPrefix(ch.Name(), c.Name()+".")
		}
		for k, v := range ch.DetailedCoverage() {
			out[segment+"."+k] = v
		}
	}
	return out
}

func (c *Container) notifyBinsUp(label string, value interface{}) {
	notifyBinsUp(c, label, value)
}

var _ Item = (*Container)(nil)
