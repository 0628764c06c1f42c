package coverage

import "github.com/pkg/errors"

// CheckState is a CoverCheck's position in its NEW -> PASS|FAIL state
// machine. FAIL is absorbing.
type CheckState int

const (
	CheckNew CheckState = iota
	CheckPass
	CheckFail
)

func (s CheckState) String() string {
	switch s {
	case CheckPass:
		return "PASS"
	case CheckFail:
		return "FAIL"
	default:
		return "NEW"
	}
}

// CheckPredicate evaluates a sample's arguments for CoverCheck's pass/fail
// transitions.
type CheckPredicate func(Args) (bool, error)

// CheckOption configures a CoverCheck at construction time.
type CheckOption func(*CoverCheck)

// WithCheckWeight sets the leaf's weight (minimum 1); also its coverage
// value once passed.
func WithCheckWeight(w int) CheckOption {
	return func(c *CoverCheck) {
		if w < 1 {
			w = 1
		}
		c.weight = w
	}
}

// WithCheckAtLeast sets how many passing samples are required before the
// check is considered satisfied.
func WithCheckAtLeast(n int) CheckOption {
	return func(c *CoverCheck) {
		if n < 1 {
			n = 1
		}
		c.atLeast = n
	}
}

// CoverCheck is an assertion-like leaf: NEW until fFail fires or fPass has
// fired atLeast times, after which it is FAIL (permanently, coverage 0) or
// PASS (coverage = weight).
type CoverCheck struct {
	itemBase
	fFail   CheckPredicate
	fPass   CheckPredicate
	weight  int
	atLeast int
	state   CheckState
	passes  int
}

// NewCoverCheck builds a CoverCheck leaf; register it with Registry.Add.
// fPass may be nil, defaulting
// to "always true after one sample with no failure".
func NewCoverCheck(name string, fFail, fPass CheckPredicate, opts ...CheckOption) (*CoverCheck, error) {
	if fFail == nil {
		return nil, errors.Errorf("coverage: CoverCheck %s requires f_fail", name)
	}
	c := &CoverCheck{
		itemBase: newItemBase(name),
		fFail:    fFail,
		fPass:    fPass,
		weight:   1,
		atLeast:  1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Sample evaluates fFail, then fPass, against args and updates state.
func (c *CoverCheck) Sample(args Args) error {
	if c.updating {
		return errors.Wrapf(ErrReentrant, "%s", c.name)
	}
	c.updating = true
	defer func() { c.updating = false }()

	failed, err := c.fFail(args)
	if err != nil {
		return errors.Wrap(err, "coverage: CoverCheck f_fail")
	}
	if failed {
		wasFail := c.state == CheckFail
		c.state = CheckFail
		if !wasFail {
			c.recordHit("FAIL")
			c.fireBins(c, "FAIL", true)
			notifyBinsUp(c, "FAIL", true)
		}
		propagateUp(c)
		return nil
	}

	if c.state == CheckFail {
		propagateUp(c)
		return nil
	}

	passed := true
	if c.fPass != nil {
		passed, err = c.fPass(args)
		if err != nil {
			return errors.Wrap(err, "coverage: CoverCheck f_pass")
		}
	}
	if passed {
		c.passes++
		wasPass := c.state == CheckPass
		if c.passes >= c.atLeast {
			c.state = CheckPass
			if !wasPass {
				c.recordHit("PASS")
				c.fireBins(c, "PASS", true)
				notifyBinsUp(c, "PASS", true)
			}
		}
	}
	propagateUp(c)
	return nil
}

func (c *CoverCheck) State() CheckState { return c.state }

func (c *CoverCheck) Size() int { return c.weight }

func (c *CoverCheck) Coverage() int {
	if c.state == CheckPass {
		return c.weight
	}
	return 0
}

func (c *CoverCheck) CoverPercentage() float64 {
	return 100 * float64(c.Coverage()) / float64(c.Size())
}

func (c *CoverCheck) NewHits() []string { return c.drainNewHits() }

func (c *CoverCheck) DetailedCoverage() map[string]int {
	return map[string]int{"state": int(c.state)}
}

func (c *CoverCheck) notifyBinsUp(label string, value interface{}) { notifyBinsUp(c, label, value) }

func (c *CoverCheck) exportBins() []ExportBin {
	return []ExportBin{{Label: "state", Value: c.state.String(), Hits: c.passes}}
}

func (c *CoverCheck) mergeBins(name string, bins []ExportBin) error {
	if len(bins) != 1 || bins[0].Label != "state" {
		return errors.Wrapf(ErrMergeMismatch, "%s: expected a single state bin", name)
	}
	switch bins[0].Value {
	case CheckFail.String():
		c.state = CheckFail
	case CheckPass.String():
		c.passes += bins[0].Hits
		if c.state != CheckFail {
			c.state = CheckPass
		}
	}
	return nil
}

var _ Item = (*CoverCheck)(nil)
