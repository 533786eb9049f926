package smf

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"go-smfplay/debug"
)

// DefaultTempo is the SMF tempo before any set-tempo event: 120 BPM
const DefaultTempo uint32 = 500000

// Document is a decoded Standard MIDI File. The zero value is an empty,
// unloaded document; a successful Load makes it read-only
type Document struct {
	header Header
	tracks []Track
	loaded bool
}

// LoadFile opens path, loads it into a new Document and closes the file on
// every exit path
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer f.Close()

	d := &Document{}
	if err := d.Load(f); err != nil {
		return nil, err
	}
	return d, nil
}

// Load decodes the whole stream from position 0. It is all-or-nothing: on
// any error the document stays unloaded and no tracks are exposed
func (d *Document) Load(r io.ReadSeeker) error {
	if d.loaded {
		return ErrAlreadyLoaded
	}
	if r == nil {
		return fmt.Errorf("%w: nil reader", ErrSourceUnavailable)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	s := newStream(r)
	header, err := decodeHeader(s)
	if err != nil {
		debug.Log("smf", "header decode failed: %v", err)
		return &DecodeError{Op: "header", Offset: 0, Err: err}
	}
	debug.Log("smf", "header format=%s tracks=%d division=%d", header.Format, header.TrackCount, header.TicksPerBeat)

	tracks := make([]Track, 0, header.TrackCount)
	for i := 0; i < int(header.TrackCount); i++ {
		start := s.offset
		t, err := decodeTrack(s)
		if err != nil {
			debug.Log("smf", "track %d decode failed: %v", i, err)
			return &DecodeError{Op: fmt.Sprintf("track %d", i), Offset: start, Err: err}
		}
		debug.Log("smf", "track %d: %d events, last tick %d", i, t.Len(), t.LastTick())
		tracks = append(tracks, t)
	}

	d.header = header
	d.tracks = tracks
	d.loaded = true
	return nil
}

// Loaded reports whether a Load has succeeded
func (d *Document) Loaded() bool {
	return d.loaded
}

// Header returns the decoded header. It is the zero Header until loaded
func (d *Document) Header() Header {
	return d.header
}

// Tracks returns the decoded tracks. The slice header is a copy, but the
// events are shared and must not be modified
func (d *Document) Tracks() []Track {
	if !d.loaded {
		return nil
	}
	out := make([]Track, len(d.tracks))
	copy(out, d.tracks)
	return out
}

// EventCount returns the number of events across all tracks
func (d *Document) EventCount() int {
	n := 0
	for _, t := range d.tracks {
		n += t.Len()
	}
	return n
}

// LastTick returns the largest absolute tick in any track
func (d *Document) LastTick() uint32 {
	var last uint32
	for _, t := range d.tracks {
		if tick := t.LastTick(); tick > last {
			last = tick
		}
	}
	return last
}

// Duration estimates the playing time of the document, following every
// set-tempo event in tick order regardless of which track carries it
func (d *Document) Duration() time.Duration {
	if !d.loaded || d.header.TicksPerBeat == 0 || d.header.SMPTE() {
		return 0
	}

	type change struct {
		tick  uint32
		tempo uint32
	}
	var changes []change
	for _, t := range d.tracks {
		for _, e := range t.Events {
			if tempo, ok := e.Tempo(); ok {
				changes = append(changes, change{e.Tick, tempo})
			}
		}
	}
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].tick < changes[j].tick
	})

	tpb := uint64(d.header.TicksPerBeat)
	var (
		micros uint64
		tick   uint32
		tempo  = DefaultTempo
	)
	for _, c := range changes {
		micros += uint64(c.tick-tick) * uint64(tempo) / tpb
		tick = c.tick
		tempo = c.tempo
	}
	micros += uint64(d.LastTick()-tick) * uint64(tempo) / tpb
	return time.Duration(micros) * time.Microsecond
}
