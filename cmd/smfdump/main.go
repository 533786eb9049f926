package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"gopkg.in/yaml.v3"

	"go-smfplay/debug"
	"go-smfplay/midi"
	"go-smfplay/player"
	"go-smfplay/render"
	"go-smfplay/smf"
)

func main() {
	if len(os.Args) < 3 {
		usage()
		os.Exit(2)
	}
	if os.Getenv("SMFPLAY_DEBUG") != "" {
		if err := debug.Enable(); err != nil {
			fmt.Fprintf(os.Stderr, "debug log: %v\n", err)
		}
		defer debug.Disable()
	}

	cmd, path := os.Args[1], os.Args[2]
	doc, err := smf.LoadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch cmd {
	case "header":
		err = printHeader(os.Stdout, doc)
	case "events":
		err = printEvents(os.Stdout, doc)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(newDump(doc))
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		err = enc.Encode(newDump(doc))
		if err == nil {
			err = enc.Close()
		}
	case "roll":
		err = writeRoll(doc, os.Args[3:])
	case "play":
		err = play(os.Stdout, doc, len(os.Args) > 3 && os.Args[3] == "-fast")
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("SMF inspection tool")
	fmt.Println("")
	fmt.Println("Usage: smfdump <command> <file.mid> [args]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  header          - Print the header chunk")
	fmt.Println("  events          - Print every event of every track")
	fmt.Println("  json            - Dump the document as JSON")
	fmt.Println("  yaml            - Dump the document as YAML")
	fmt.Println("  roll <out.png>  - Render a piano roll")
	fmt.Println("  play [-fast]    - Replay in real time, printing dispatched events")
}

func printHeader(w io.Writer, doc *smf.Document) error {
	h := doc.Header()
	fmt.Fprintf(w, "Format:         %s\n", h.Format)
	fmt.Fprintf(w, "Tracks:         %d\n", h.TrackCount)
	if h.SMPTE() {
		fmt.Fprintf(w, "Division:       SMPTE 0x%04X\n", h.TicksPerBeat)
	} else {
		fmt.Fprintf(w, "Ticks per beat: %d\n", h.TicksPerBeat)
	}
	fmt.Fprintf(w, "Events:         %d\n", doc.EventCount())
	fmt.Fprintf(w, "Last tick:      %d\n", doc.LastTick())
	_, err := fmt.Fprintf(w, "Duration:       %s\n", doc.Duration())
	return err
}

func printEvents(w io.Writer, doc *smf.Document) error {
	for i, t := range doc.Tracks() {
		fmt.Fprintf(w, "=== Track %d (%d events) ===\n", i, t.Len())
		for _, e := range t.Events {
			if _, err := fmt.Fprintf(w, "  %8d  +%-6d %s\n", e.Tick, e.Delta, midi.Describe(e)); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeRoll(doc *smf.Document, args []string) error {
	if len(args) < 1 {
		return errors.New("roll needs an output path")
	}
	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	if err := render.WritePNG(f, doc, render.Options{}); err != nil {
		return err
	}
	return f.Close()
}

func play(w io.Writer, doc *smf.Document, fast bool) error {
	var opts []player.Option
	var clock *player.VirtualClock
	if fast {
		clock = &player.VirtualClock{}
		opts = append(opts, player.WithSleeper(clock))
	}
	s, err := player.New(doc, opts...)
	if err != nil {
		return err
	}

	show := func(e smf.Event) {
		fmt.Fprintf(w, "%8d  %s\n", e.Tick, midi.Describe(e))
	}
	for _, k := range []smf.Kind{
		smf.KindNoteOn, smf.KindNoteOff, smf.KindControlChange,
		smf.KindProgramChange, smf.KindPitchBend, smf.KindMeta,
	} {
		s.RegisterCallback(k, show)
	}

	fmt.Fprintf(w, "Playing %d tracks\n", s.NumTracks())
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if clock != nil {
		fmt.Fprintf(w, "Virtual time: %v\n", clock.Elapsed)
	}
	return nil
}
