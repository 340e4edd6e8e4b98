// Command cder-snapshot generates events, energizes the calorimeters with
// each one and writes eta-phi maps of the deposits as PNG and HTML files.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/cder-viz/cder/internal/calorimeter"
	"github.com/cder-viz/cder/internal/config"
	"github.com/cder-viz/cder/internal/display"
	"github.com/cder-viz/cder/internal/event"
	"github.com/cder-viz/cder/internal/report"
	"github.com/cder-viz/cder/internal/version"
)

var (
	configPath  = flag.String("config", "", "Path to JSON display config (default: search for "+config.DefaultConfigPath+")")
	outDir      = flag.String("out", "snapshots", "Directory to write reports into")
	numEvents   = flag.Int("events", 5, "Number of events to generate")
	formats     = flag.String("format", "png,html", "Comma separated output formats: png, html")
	etaBins     = flag.Int("eta-bins", report.DefaultBinning().EtaBins, "Eta bins of the map")
	phiBins     = flag.Int("phi-bins", report.DefaultBinning().PhiBins, "Phi bins of the map")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

// options is everything one snapshot run needs.
type options struct {
	OutDir  string
	Events  int
	PNG     bool
	HTML    bool
	Binning report.Binning
}

func parseFormats(s string) (png, html bool, err error) {
	for _, f := range strings.Split(s, ",") {
		switch strings.TrimSpace(f) {
		case "":
		case "png":
			png = true
		case "html":
			html = true
		default:
			return false, false, fmt.Errorf("unknown format %q", f)
		}
	}
	if !png && !html {
		return false, false, errors.New("no output format selected")
	}
	return png, html, nil
}

// snapshot writes one report set per event and returns the files written.
func snapshot(cfg *config.DisplayConfig, opt options) ([]string, error) {
	if opt.Events < 1 {
		return nil, fmt.Errorf("need at least one event, got %d", opt.Events)
	}
	if err := os.MkdirAll(opt.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	// Reports always cover both calorimeters, fully assembled.
	calos, err := display.Calorimeters(cfg, true)
	if err != nil {
		return nil, err
	}
	gen, err := event.NewGenerator(display.GeneratorConfig(cfg))
	if err != nil {
		return nil, err
	}
	events, err := gen.GenerateN(opt.Events)
	if err != nil {
		return nil, err
	}

	var written []string
	for _, ev := range events {
		if err := energize(calos, ev); err != nil {
			return written, err
		}
		m, err := report.EtaPhiHistogram(opt.Binning, calos...)
		if err != nil {
			return written, err
		}

		title := fmt.Sprintf("Event %d", ev.Number)
		base := filepath.Join(opt.OutDir, fmt.Sprintf("event_%04d", ev.Number))
		if opt.PNG {
			if err := report.WritePNG(m, title, base+".png"); err != nil {
				return written, err
			}
			written = append(written, base+".png")
		}
		if opt.HTML {
			if err := report.WriteHTML(m, title, base+".html"); err != nil {
				return written, err
			}
			written = append(written, base+".html")
		}
		log.Printf("event %d: %s", ev.Number, m.Summary())
	}
	return written, nil
}

func energize(calos []*calorimeter.Calorimeter, ev *event.Event) error {
	ev.ClearHits()
	deposits := ev.Deposits()
	for _, c := range calos {
		c.Reset()
		if err := c.Energize(deposits); err != nil {
			return fmt.Errorf("event %d: %w", ev.Number, err)
		}
	}
	return nil
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	var cfg *config.DisplayConfig
	if *configPath == "" {
		cfg = config.MustLoadDefaultConfig()
	} else {
		var err error
		if cfg, err = config.LoadDisplayConfig(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	png, html, err := parseFormats(*formats)
	if err != nil {
		log.Fatalf("Invalid -format: %v", err)
	}
	b := report.DefaultBinning()
	b.EtaBins, b.PhiBins = *etaBins, *phiBins

	written, err := snapshot(cfg, options{
		OutDir:  *outDir,
		Events:  *numEvents,
		PNG:     png,
		HTML:    html,
		Binning: b,
	})
	if err != nil {
		log.Fatalf("Snapshot failed: %v", err)
	}
	log.Printf("wrote %d files to %s", len(written), *outDir)
}
