package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"go-smfplay/config"
	"go-smfplay/debug"
	"go-smfplay/player"
	"go-smfplay/smf"
	"go-smfplay/theme"
	"go-smfplay/tui"
)

func main() {
	var (
		tempo       = flag.Uint("tempo", 0, "starting tempo in microseconds per beat (0 = config or 500000)")
		deliverLast = flag.Bool("last", false, "also dispatch the final event of every track")
		debugLog    = flag.Bool("debug", false, "write a debug log to ~/.config/go-smfplay/debug.log")
	)
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: go-smfplay [flags] file.mid")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v (using defaults)\n", err)
		cfg = config.DefaultConfig()
	}

	if *debugLog || cfg.Debug {
		if err := debug.Enable(); err != nil {
			fmt.Fprintf(os.Stderr, "debug log: %v\n", err)
		}
		defer debug.Disable()
	}

	doc, err := smf.LoadFile(path)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	debug.Log("main", "loaded %s: %d tracks, %d events", path, doc.Header().TrackCount, doc.EventCount())

	startTempo := cfg.Playback.TempoOverride
	if *tempo > 0 {
		startTempo = uint32(*tempo)
	}
	sched, err := player.New(doc,
		player.WithTempo(startTempo),
		player.WithDeliverLastEvent(*deliverLast || cfg.Playback.DeliverLastEvent),
	)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	cfg.AddRecent(path)
	if err := cfg.Save(); err != nil {
		debug.Log("main", "config save failed: %v", err)
	}

	th := theme.New(theme.LoadOrDefault(cfg.UI.Palette))
	pb := tui.NewPlayback(sched)
	m := tui.NewModel(path, doc, pb, th)

	var opts []tea.ProgramOption
	if cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(m, opts...)
	pb.Attach(p.Send)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
