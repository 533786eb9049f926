// Package render draws a decoded document as a piano-roll image.
package render

import (
	"sort"

	"go-smfplay/smf"
)

// Note is a sounding span reconstructed from note-on/note-off pairs.
type Note struct {
	Track    int
	Channel  uint8
	Key      uint8
	Velocity uint8
	Start    uint32
	End      uint32
}

type noteKey struct {
	channel, key uint8
}

// Notes pairs note-ons with the next matching note-off (or zero velocity
// note-on) in the same track. Notes still sounding at the end of a track
// are closed at its last tick. The result is sorted by start tick.
func Notes(doc *smf.Document) []Note {
	var notes []Note
	for ti, t := range doc.Tracks() {
		open := make(map[noteKey][]Note)
		for _, e := range t.Events {
			d, ok := e.Data2()
			if !ok {
				continue
			}
			k := noteKey{e.Channel, d.A}
			switch {
			case e.Kind == smf.KindNoteOn && d.B > 0:
				open[k] = append(open[k], Note{Track: ti, Channel: e.Channel, Key: d.A, Velocity: d.B, Start: e.Tick})
			case e.Kind == smf.KindNoteOff, e.Kind == smf.KindNoteOn:
				if stack := open[k]; len(stack) > 0 {
					n := stack[0]
					n.End = e.Tick
					notes = append(notes, n)
					open[k] = stack[1:]
				}
			}
		}
		for _, stack := range open {
			for _, n := range stack {
				n.End = t.LastTick()
				notes = append(notes, n)
			}
		}
	}
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].Start != notes[j].Start {
			return notes[i].Start < notes[j].Start
		}
		if notes[i].Track != notes[j].Track {
			return notes[i].Track < notes[j].Track
		}
		return notes[i].Key < notes[j].Key
	})
	return notes
}

// keyRange returns the lowest and highest key in notes
func keyRange(notes []Note) (lo, hi uint8) {
	lo, hi = 127, 0
	for _, n := range notes {
		lo = min(lo, n.Key)
		hi = max(hi, n.Key)
	}
	if lo > hi {
		return 60, 72
	}
	return lo, hi
}
