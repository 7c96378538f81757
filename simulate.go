package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/motion"
	"github.com/Zachkp/folio/internal/page"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Scroll through the page on a virtual clock and print the reveal timeline",
	Long: `simulate mounts one page view on a virtual clock, scrolls it top to
bottom and prints every reveal, stagger enter, tab switch and counter
completion. Nothing is served; the output is deterministic.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		site, err := loadSite(contentFile)
		if err != nil {
			return err
		}
		opts := simOptions{}
		opts.viewport, _ = cmd.Flags().GetFloat64("viewport")
		opts.section, _ = cmd.Flags().GetFloat64("section-height")
		opts.scrollStep, _ = cmd.Flags().GetFloat64("scroll-step")
		opts.tick, _ = cmd.Flags().GetDuration("tick")
		opts.tabs, _ = cmd.Flags().GetStringSlice("tabs")
		opts.observe, _ = cmd.Flags().GetBool("observe")
		return simulate(cmd.OutOrStdout(), site, opts)
	},
}

func init() {
	f := simulateCmd.Flags()
	f.Float64("viewport", 800, "viewport height in px")
	f.Float64("section-height", 900, "height of every section in px")
	f.Float64("scroll-step", 150, "px scrolled per tick")
	f.Duration("tick", 100*time.Millisecond, "virtual time between scroll steps")
	f.StringSlice("tabs", []string{"ui-ux", "logo-design", "all"}, "tab keys selected after the gallery is revealed")
	f.Bool("observe", true, "simulate a client that can observe visibility")
}

// maxSimulation bounds a run whose sections never reach their threshold.
const maxSimulation = 5 * time.Minute

type simOptions struct {
	viewport   float64
	section    float64
	scrollStep float64
	tick       time.Duration
	tabs       []string
	observe    bool
}

// simulate drives a view with a ManualScheduler. Sections are stacked
// section px apart; each tick scrolls by scrollStep and reports the geometry
// of every section.
func simulate(w io.Writer, site *content.Site, opts simOptions) error {
	if opts.tick <= 0 || opts.scrollStep <= 0 || opts.section <= 0 {
		return fmt.Errorf("tick, scroll-step and section-height must be positive")
	}
	start := time.Unix(0, 0).UTC()
	sched := motion.NewManualScheduler(start)

	var observer motion.Observer = motion.Unsupported()
	if opts.observe {
		observer = motion.NewReportedObserver()
	}
	v := page.NewView("simulation", site, sched, observer, logger)
	v.Mount()
	defer v.Close()

	stamp := func() string {
		return fmt.Sprintf("%8s", sched.Now().Sub(start).Round(time.Millisecond))
	}
	prev := v.Snapshot()
	printDiff(w, stamp(), page.Snapshot{}, prev)

	pageHeight := opts.section * float64(len(content.SectionOrder))
	tabs := opts.tabs
	for scroll := 0.0; ; scroll += opts.scrollStep {
		for i, sid := range content.SectionOrder {
			top := float64(i)*opts.section - scroll
			v.Report(motion.Entry{Target: sid, Measured: true, Top: top, Bottom: top + opts.section, Viewport: opts.viewport})
		}
		cur := v.Snapshot()
		printDiff(w, stamp(), prev, cur)
		prev = cur

		if st, _ := v.State(content.SectionProjects); st == motion.Visible && len(tabs) > 0 && galleryDone(cur) {
			key := tabs[0]
			tabs = tabs[1:]
			changed, err := v.SelectTab(key)
			switch {
			case err != nil:
				fmt.Fprintf(w, "%s  tab %q rejected: %v\n", stamp(), key, err)
			case !changed:
				fmt.Fprintf(w, "%s  tab %q already active\n", stamp(), key)
			default:
				fmt.Fprintf(w, "%s  tab %q -> %s\n", stamp(), key, ids(v.Snapshot()))
			}
			prev = v.Snapshot()
		}

		if scroll+opts.viewport >= pageHeight {
			if len(tabs) == 0 && settled(prev) {
				break
			}
			if sched.Now().Sub(start) > maxSimulation {
				fmt.Fprintf(w, "%s  stopped: page did not settle\n", stamp())
				break
			}
		}
		sched.Advance(opts.tick)
	}

	fmt.Fprintf(w, "%s  done\n", stamp())
	return nil
}

func printDiff(w io.Writer, at string, prev, cur page.Snapshot) {
	for i, s := range cur.Sections {
		if i >= len(prev.Sections) || prev.Sections[i].State != s.State {
			fmt.Fprintf(w, "%s  section %-8s %s\n", at, s.ID, s.State)
		}
	}
	printEnters(w, at, "service", prev.Services, cur.Services)
	printEnters(w, at, "project", prev.Gallery, cur.Gallery)
	for i, c := range cur.Counters {
		if c.Done && (i >= len(prev.Counters) || !prev.Counters[i].Done) {
			fmt.Fprintf(w, "%s  counter  %-18s %s\n", at, c.Label, c.Display)
		}
	}
}

func printEnters(w io.Writer, at, kind string, prev, cur page.StaggerSnapshot) {
	var entered []string
	for i, it := range cur.Items {
		was := prev.Generation == cur.Generation && i < len(prev.Items) && prev.Items[i].Entered
		if it.Entered && !was {
			entered = append(entered, it.ID)
		}
	}
	if len(entered) > 0 {
		fmt.Fprintf(w, "%s  %-8s enter %s\n", at, kind, strings.Join(entered, ", "))
	}
}

func galleryDone(s page.Snapshot) bool {
	for _, it := range s.Gallery.Items {
		if !it.Entered {
			return false
		}
	}
	return true
}

func settled(s page.Snapshot) bool {
	for _, c := range s.Counters {
		if !c.Done {
			return false
		}
	}
	for _, it := range s.Services.Items {
		if !it.Entered {
			return false
		}
	}
	return galleryDone(s)
}

func ids(s page.Snapshot) string {
	out := make([]string, len(s.Projects))
	for i, p := range s.Projects {
		out[i] = p.ID
	}
	return "[" + strings.Join(out, " ") + "]"
}
