package coverage

import (
	"encoding/xml"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// binMerger is implemented by leaf kinds that can fold a previously
// exported bin count back into live state.
type binMerger interface {
	mergeBins(name string, bins []ExportBin) error
}

// ImportAndMerge parses a previously exported document from r in the given
// format and adds its bin hit counts into the live database, item by item.
// Items are matched by name; a structural mismatch at any item aborts the
// merge and names the first mismatched path. An unknown name or a
// container/leaf mismatch is rejected before any item changes. Bin count
// and bin label mismatches are detected per leaf while merging: the failing
// leaf is left unchanged, but leaves merged earlier from the same document
// keep their added hit counts.
func (d *Registry) ImportAndMerge(format Format, r io.Reader) error {
	switch format {
	case FormatXML:
		var doc xmlDoc
		if err := xml.NewDecoder(r).Decode(&doc); err != nil {
			return errors.Wrap(err, "coverage: decode xml")
		}
		leaves := make([]mergeLeaf, 0)
		for _, it := range doc.Items {
			if err := d.checkXMLItem(it, &leaves); err != nil {
				return err
			}
		}
		return applyMergeLeaves(leaves)
	case FormatYAML:
		var doc yamlDoc
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return errors.Wrap(err, "coverage: decode yaml")
		}
		leaves := make([]mergeLeaf, 0)
		for _, it := range doc.Items {
			if err := d.checkYAMLItem(it, &leaves); err != nil {
				return err
			}
		}
		return applyMergeLeaves(leaves)
	default:
		return errors.Wrapf(ErrExportFormat, "%q", format)
	}
}

// mergeLeaf is a leaf resolved against the live database, with its bin
// rows decoded but not yet applied. Walking the whole document into a
// list of these before calling mergeBins on any of them is what lets
// ImportAndMerge reject a structurally mismatched document without
// mutating live coverage state.
type mergeLeaf struct {
	target binMerger
	name   string
	bins   []ExportBin
}

func applyMergeLeaves(leaves []mergeLeaf) error {
	for _, l := range leaves {
		if err := l.target.mergeBins(l.name, l.bins); err != nil {
			return err
		}
	}
	return nil
}

func (d *Registry) checkXMLItem(it xmlItem, leaves *[]mergeLeaf) error {
	live, err := d.Get(it.Name)
	if err != nil {
		return errors.Wrapf(ErrMergeMismatch, "%s: %v", it.Name, err)
	}
	if len(it.Items) > 0 {
		for _, child := range it.Items {
			if err := d.checkXMLItem(child, leaves); err != nil {
				return err
			}
		}
		return nil
	}
	bm, ok := live.(binMerger)
	if !ok {
		return errors.Wrapf(ErrMergeMismatch, "%s: not a leaf in the live database", it.Name)
	}
	bins := make([]ExportBin, len(it.Bins))
	for i, b := range it.Bins {
		bins[i] = ExportBin{Label: b.Label, Value: b.Value, Hits: b.Hits}
	}
	*leaves = append(*leaves, mergeLeaf{target: bm, name: it.Name, bins: bins})
	return nil
}

func (d *Registry) checkYAMLItem(it yamlItem, leaves *[]mergeLeaf) error {
	live, err := d.Get(it.Name)
	if err != nil {
		return errors.Wrapf(ErrMergeMismatch, "%s: %v", it.Name, err)
	}
	if len(it.Items) > 0 {
		for _, child := range it.Items {
			if err := d.checkYAMLItem(child, leaves); err != nil {
				return err
			}
		}
		return nil
	}
	bm, ok := live.(binMerger)
	if !ok {
		return errors.Wrapf(ErrMergeMismatch, "%s: not a leaf in the live database", it.Name)
	}
	bins := make([]ExportBin, len(it.Bins))
	for i, b := range it.Bins {
		bins[i] = ExportBin{Label: b.Label, Value: b.Value, Hits: b.Hits}
	}
	*leaves = append(*leaves, mergeLeaf{target: bm, name: it.Name, bins: bins})
	return nil
}
