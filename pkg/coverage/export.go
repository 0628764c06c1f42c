package coverage

import (
	"encoding/xml"
	"io"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ExportBin is one bin row in an exported document: label, its natural
// string value, and its hit count.
type ExportBin struct {
	Label string
	Value string
	Hits  int
}

// binExporter is implemented by leaf kinds that carry bins (CoverPoint,
// CoverCross, and CoverCheck's single "state" pseudo-bin). Containers do
// not implement it.
type binExporter interface {
	exportBins() []ExportBin
}

// Format names a supported serialization for DB.Export / DB.ImportAndMerge.
type Format string

const (
	FormatXML  Format = "xml"
	FormatYAML Format = "yaml"
)

type xmlBin struct {
	XMLName xml.Name `xml:"bin"`
	Label   string   `xml:"label,attr"`
	Value   string   `xml:"value,attr"`
	Hits    int      `xml:"hits,attr"`
}

type xmlItem struct {
	XMLName         xml.Name  `xml:"item"`
	Name            string    `xml:"name,attr"`
	Size            int       `xml:"size,attr"`
	Coverage        int       `xml:"coverage,attr"`
	CoverPercentage float64   `xml:"cover_percentage,attr"`
	Items           []xmlItem `xml:"item"`
	Bins            []xmlBin  `xml:"bin"`
}

type xmlDoc struct {
	XMLName xml.Name  `xml:"coverage"`
	Items   []xmlItem `xml:"item"`
}

type yamlBin struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
	Hits  int    `yaml:"hits"`
}

type yamlItem struct {
	Name            string     `yaml:"name"`
	Size            int        `yaml:"size"`
	Coverage        int        `yaml:"coverage"`
	CoverPercentage float64    `yaml:"cover_percentage"`
	Items           []yamlItem `yaml:"items,omitempty"`
	Bins            []yamlBin  `yaml:"bins,omitempty"`
}

type yamlDoc struct {
	Items []yamlItem `yaml:"items"`
}

func buildXMLItem(it Item) xmlItem {
	out := xmlItem{
		Name:            it.Name(),
		Size:            it.Size(),
		Coverage:        it.Coverage(),
		CoverPercentage: it.CoverPercentage(),
	}
	if c, ok := it.(*Container); ok {
		for _, ch := range c.Children() {
			out.Items = append(out.Items, buildXMLItem(ch))
		}
		return out
	}
	if be, ok := it.(binExporter); ok {
		for _, b := range sortedExportBins(be.exportBins()) {
			out.Bins = append(out.Bins, xmlBin{Label: b.Label, Value: b.Value, Hits: b.Hits})
		}
	}
	return out
}

func buildYAMLItem(it Item) yamlItem {
	out := yamlItem{
		Name:            it.Name(),
		Size:            it.Size(),
		Coverage:        it.Coverage(),
		CoverPercentage: it.CoverPercentage(),
	}
	if c, ok := it.(*Container); ok {
		for _, ch := range c.Children() {
			out.Items = append(out.Items, buildYAMLItem(ch))
		}
		return out
	}
	if be, ok := it.(binExporter); ok {
		for _, b := range sortedExportBins(be.exportBins()) {
			out.Bins = append(out.Bins, yamlBin{Label: b.Label, Value: b.Value, Hits: b.Hits})
		}
	}
	return out
}

func sortedExportBins(bins []ExportBin) []ExportBin {
	out := append([]ExportBin(nil), bins...)
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// Export serializes every root item to out in the given format.
func (d *Registry) Export(format Format, out io.Writer) error {
	roots := d.Roots()
	switch format {
	case FormatXML:
		doc := xmlDoc{}
		for _, name := range roots {
			it := d.items[name]
			doc.Items = append(doc.Items, buildXMLItem(it))
		}
		enc := xml.NewEncoder(out)
		enc.Indent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		doc := yamlDoc{}
		for _, name := range roots {
			it := d.items[name]
			doc.Items = append(doc.Items, buildYAMLItem(it))
		}
		encd := yaml.NewEncoder(out)
		defer encd.Close()
		return encd.Encode(doc)
	default:
		return errors.Wrapf(ErrExportFormat, "%q", format)
	}
}
