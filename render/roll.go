package render

import (
	"fmt"
	"image"
	"io"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"go-smfplay/smf"
	"go-smfplay/theme"
)

// Options controls the piano-roll image
type Options struct {
	Width  int
	Height int
	Theme  *theme.Theme
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 1600
	}
	if o.Height <= 0 {
		o.Height = 600
	}
	if o.Theme == nil {
		o.Theme = theme.New(theme.Plasma())
	}
	return o
}

const margin = 24.0

// PianoRoll draws every note of doc: time runs left to right, pitch bottom
// to top, one beat line per ticks-per-beat.
func PianoRoll(doc *smf.Document, opts Options) (image.Image, error) {
	dc, err := draw(doc, opts.withDefaults())
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// WritePNG encodes the piano roll of doc to w
func WritePNG(w io.Writer, doc *smf.Document, opts Options) error {
	dc, err := draw(doc, opts.withDefaults())
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

func draw(doc *smf.Document, o Options) (*gg.Context, error) {
	if !doc.Loaded() {
		return nil, fmt.Errorf("render: document not loaded")
	}
	notes := Notes(doc)
	lo, hi := keyRange(notes)
	last := doc.LastTick()
	if last == 0 {
		last = 1
	}

	w, h := float64(o.Width), float64(o.Height)
	plotW, plotH := w-2*margin, h-2*margin
	xScale := plotW / float64(last)
	rowH := plotH / float64(int(hi)-int(lo)+1)

	dc := gg.NewContext(o.Width, o.Height)
	bg := o.Theme.RGB(theme.RoleBG)
	dc.SetRGB255(int(bg[0]), int(bg[1]), int(bg[2]))
	dc.Clear()

	// beat lines
	if tpb := doc.Header().TicksPerBeat; tpb > 0 && !doc.Header().SMPTE() {
		for beat := uint32(0); beat <= last; beat += uint32(tpb) {
			x := margin + float64(beat)*xScale
			dc.SetRGBA(1, 1, 1, 0.08)
			dc.SetLineWidth(0.5)
			dc.DrawLine(x, margin, x, h-margin)
			dc.Stroke()
		}
	}

	for _, n := range notes {
		c := o.Theme.RGB(theme.ChannelNorm(n.Channel))
		x := margin + float64(n.Start)*xScale
		y := margin + float64(hi-n.Key)*rowH
		width := max(float64(n.End-n.Start)*xScale, 1)
		dc.SetRGBA255(int(c[0]), int(c[1]), int(c[2]), 80+int(n.Velocity)*175/127)
		dc.DrawRectangle(x, y, width, max(rowH-1, 1))
		dc.Fill()
	}

	font, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(truetype.NewFace(font, &truetype.Options{Size: 11}))
	fg := o.Theme.RGB(theme.RoleFG)
	dc.SetRGB255(int(fg[0]), int(fg[1]), int(fg[2]))
	dc.DrawString(fmt.Sprintf("%s  %d tracks  %d notes  keys %d-%d",
		doc.Header().Format, doc.Header().TrackCount, len(notes), lo, hi), margin, margin-8)

	return dc, nil
}
