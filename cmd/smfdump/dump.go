package main

import (
	"go-smfplay/midi"
	"go-smfplay/smf"
)

// dump is the serialisable view of a document for json/yaml output
type dump struct {
	Header   smf.Header  `json:"header" yaml:"header"`
	Duration string      `json:"duration" yaml:"duration"`
	Tracks   []trackDump `json:"tracks" yaml:"tracks"`
}

type trackDump struct {
	Events []eventDump `json:"events" yaml:"events"`
}

type eventDump struct {
	Tick     uint32 `json:"tick" yaml:"tick"`
	Delta    uint32 `json:"delta" yaml:"delta"`
	Kind     string `json:"kind" yaml:"kind"`
	Channel  *uint8 `json:"channel,omitempty" yaml:"channel,omitempty"`
	Data     []int  `json:"data,omitempty" yaml:"data,omitempty,flow"`
	MetaType string `json:"metaType,omitempty" yaml:"metaType,omitempty"`
	Length   uint32 `json:"length,omitempty" yaml:"length,omitempty"`
	Tempo    uint32 `json:"tempo,omitempty" yaml:"tempo,omitempty"`
}

func newDump(doc *smf.Document) dump {
	d := dump{
		Header:   doc.Header(),
		Duration: doc.Duration().String(),
	}
	for _, t := range doc.Tracks() {
		var td trackDump
		for _, e := range t.Events {
			td.Events = append(td.Events, newEventDump(e))
		}
		d.Tracks = append(d.Tracks, td)
	}
	return d
}

func newEventDump(e smf.Event) eventDump {
	ed := eventDump{Tick: e.Tick, Delta: e.Delta, Kind: e.Kind.String()}
	if e.Kind.IsChannel() {
		ch := e.Channel
		ed.Channel = &ch
	}
	switch p := e.Payload().(type) {
	case smf.Data2:
		ed.Data = []int{int(p.A), int(p.B)}
	case smf.Data1:
		ed.Data = []int{int(p.A)}
	case smf.MetaData:
		ed.MetaType = midi.MetaName(p.Type)
		ed.Length = p.Length
		ed.Tempo = p.Tempo
	case smf.SysExData:
		ed.Length = p.Length
	}
	return ed
}
