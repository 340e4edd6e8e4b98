package report

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/vg"
)

// viridis is the colour ramp shared by the PNG and HTML maps.
var viridis = []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}

type ramp []color.Color

func (r ramp) Colors() []color.Color { return r }

var _ palette.Palette = ramp(nil)

func viridisPalette() ramp {
	out := make(ramp, len(viridis))
	for i, hex := range viridis {
		var c color.RGBA
		c.A = 0xff
		_, _ = fmt.Sscanf(hex, "#%02x%02x%02x", &c.R, &c.G, &c.B)
		out[i] = c
	}
	return out
}

// WritePNG saves m as a 2D histogram image at path.
func WritePNG(m *EtaPhiMap, title, path string) error {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".png" {
		return fmt.Errorf("png report must have .png extension, got %q", ext)
	}

	p := hplot.New()
	p.Title.Text = title
	p.X.Label.Text = "η"
	p.Y.Label.Text = "φ (rad)"
	p.X.Min, p.X.Max = -m.MaxAbsEta, m.MaxAbsEta

	// A flat histogram has no colour range to map.
	if m.Max() > 0 {
		p.Add(hplot.NewH2D(m.Hist, viridisPalette()))
	}

	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	logf("wrote %s", path)
	return nil
}

// HeatMap builds the interactive chart of m.
func HeatMap(m *EtaPhiMap, title string) *charts.HeatMap {
	etaLabels := make([]string, m.EtaBins)
	for c := range etaLabels {
		etaLabels[c] = fmt.Sprintf("%.2f", m.X(c))
	}
	phiLabels := make([]string, m.PhiBins)
	for r := range phiLabels {
		phiLabels[r] = fmt.Sprintf("%.2f", m.Y(r))
	}

	data := make([]opts.HeatMapData, 0, m.EtaBins*m.PhiBins)
	for r := 0; r < m.PhiBins; r++ {
		for c := 0; c < m.EtaBins; c++ {
			if z := m.Z(c, r); z > 0 {
				data = append(data, opts.HeatMapData{Value: [3]interface{}{c, r, z}})
			}
		}
	}

	hi := m.Max()
	if hi == 0 {
		hi = 1
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Theme: "dark", Width: "1000px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: m.Summary().String()}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: etaLabels, Name: "η", NameLocation: "middle", NameGap: 25, SplitArea: &opts.SplitArea{Show: opts.Bool(true)}}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: phiLabels, Name: "φ (rad)", NameLocation: "middle", NameGap: 40, SplitArea: &opts.SplitArea{Show: opts.Bool(true)}}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(hi),
			InRange:    &opts.VisualMapInRange{Color: viridis},
		}),
	)
	hm.AddSeries("excess opacity", data)
	return hm
}

// RenderHTML writes the interactive chart of m to w.
func RenderHTML(w io.Writer, m *EtaPhiMap, title string) error {
	if err := HeatMap(m, title).Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// WriteHTML saves the interactive chart of m at path.
func WriteHTML(m *EtaPhiMap, title, path string) (err error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".html" {
		return fmt.Errorf("html report must have .html extension, got %q", ext)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := RenderHTML(f, m, title); err != nil {
		return err
	}
	logf("wrote %s", path)
	return nil
}
