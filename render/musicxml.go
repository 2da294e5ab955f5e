package render

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/meloscribe/meloscribe/engine"
)

// MusicXML document structure (score-partwise), limited to the elements a
// monophonic melody needs.

type xmlScore struct {
	XMLName  xml.Name    `xml:"score-partwise"`
	Version  string      `xml:"version,attr"`
	PartList xmlPartList `xml:"part-list"`
	Part     xmlPart     `xml:"part"`
}

type xmlPartList struct {
	ScorePart xmlScorePart `xml:"score-part"`
}

type xmlScorePart struct {
	ID       string `xml:"id,attr"`
	PartName string `xml:"part-name"`
}

type xmlPart struct {
	ID       string       `xml:"id,attr"`
	Measures []xmlMeasure `xml:"measure"`
}

type xmlMeasure struct {
	Number     int            `xml:"number,attr"`
	Attributes *xmlAttributes `xml:"attributes,omitempty"`
	Direction  *xmlDirection  `xml:"direction,omitempty"`
	Notes      []xmlNote      `xml:"note"`
}

type xmlAttributes struct {
	Divisions int     `xml:"divisions"`
	Key       *xmlKey `xml:"key,omitempty"`
	Time      xmlTime `xml:"time"`
	Clef      xmlClef `xml:"clef"`
}

type xmlKey struct {
	Fifths int    `xml:"fifths"`
	Mode   string `xml:"mode"`
}

type xmlTime struct {
	Beats    int `xml:"beats"`
	BeatType int `xml:"beat-type"`
}

type xmlClef struct {
	Sign string `xml:"sign"`
	Line int    `xml:"line"`
}

type xmlDirection struct {
	Sound xmlSound `xml:"sound"`
}

type xmlSound struct {
	Tempo float64 `xml:"tempo,attr"`
}

type xmlNote struct {
	Rest     *struct{} `xml:"rest,omitempty"`
	Pitch    *xmlPitch `xml:"pitch,omitempty"`
	Duration int       `xml:"duration"`
	Tie      *xmlTie   `xml:"tie,omitempty"`
	Type     string    `xml:"type,omitempty"`
}

type xmlPitch struct {
	Step   string `xml:"step"`
	Alter  int    `xml:"alter,omitempty"`
	Octave int    `xml:"octave"`
}

type xmlTie struct {
	Type string `xml:"type,attr"`
}

var pitchSteps = [12]struct {
	step  string
	alter int
}{
	{"C", 0}, {"C", 1}, {"D", 0}, {"D", 1}, {"E", 0}, {"F", 0},
	{"F", 1}, {"G", 0}, {"G", 1}, {"A", 0}, {"A", 1}, {"B", 0},
}

// WriteMusicXML serializes the score as a score-partwise MusicXML document.
// The grid maps directly onto MusicXML divisions; gaps between notes become
// explicit rests and notes crossing a barline are split and tied.
func WriteMusicXML(w io.Writer, score *engine.Score) error {
	if score == nil || len(score.Notes) == 0 {
		return fmt.Errorf("score has no notes")
	}
	ticksPerBeat := score.Meta.TicksPerBeat
	if ticksPerBeat <= 0 {
		return fmt.Errorf("invalid ticks per beat %d", ticksPerBeat)
	}
	measureTicks := 4 * ticksPerBeat

	doc := xmlScore{
		Version: "3.1",
		PartList: xmlPartList{
			ScorePart: xmlScorePart{ID: "P1", PartName: "Melody"},
		},
		Part: xmlPart{ID: "P1"},
	}

	measures := buildMeasures(score, measureTicks)
	for i := range measures {
		if i == 0 {
			attrs := &xmlAttributes{
				Divisions: ticksPerBeat,
				Time:      xmlTime{Beats: 4, BeatType: 4},
				Clef:      xmlClef{Sign: "G", Line: 2},
			}
			if score.Meta.Key.Known {
				attrs.Key = &xmlKey{
					Fifths: keyFifths(score.Meta.Key),
					Mode:   score.Meta.Key.Mode.String(),
				}
			}
			measures[i].Attributes = attrs
			measures[i].Direction = &xmlDirection{Sound: xmlSound{Tempo: score.Meta.Tempo}}
		}
	}
	doc.Part.Measures = measures

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding MusicXML: %w", err)
	}
	return enc.Close()
}

// buildMeasures lays notes and rests onto fixed-size measures
func buildMeasures(score *engine.Score, measureTicks int) []xmlMeasure {
	type span struct {
		start, end int
		pitch      int
		rest       bool
	}

	spans := make([]span, 0, 2*len(score.Notes))
	cursor := 0
	for _, n := range score.Notes {
		if n.StartTicks > cursor {
			spans = append(spans, span{start: cursor, end: n.StartTicks, rest: true})
		}
		end := n.StartTicks + n.DurationTicks
		spans = append(spans, span{start: n.StartTicks, end: end, pitch: n.Pitch})
		cursor = end
	}
	// Pad the final measure with a rest
	if rem := cursor % measureTicks; rem != 0 {
		spans = append(spans, span{start: cursor, end: cursor + measureTicks - rem, rest: true})
		cursor += measureTicks - rem
	}

	numMeasures := cursor / measureTicks
	measures := make([]xmlMeasure, numMeasures)
	for i := range measures {
		measures[i].Number = i + 1
	}

	for _, sp := range spans {
		// Split the span at every barline it crosses
		for pos := sp.start; pos < sp.end; {
			m := pos / measureTicks
			barEnd := (m + 1) * measureTicks
			segEnd := sp.end
			if segEnd > barEnd {
				segEnd = barEnd
			}

			note := xmlNote{Duration: segEnd - pos}
			if sp.rest {
				note.Rest = &struct{}{}
			} else {
				pc := pitchSteps[sp.pitch%12]
				note.Pitch = &xmlPitch{
					Step:   pc.step,
					Alter:  pc.alter,
					Octave: sp.pitch/12 - 1,
				}
				switch {
				case pos == sp.start && segEnd < sp.end:
					note.Tie = &xmlTie{Type: "start"}
				case pos > sp.start && segEnd < sp.end:
					note.Tie = &xmlTie{Type: "continue"}
				case pos > sp.start:
					note.Tie = &xmlTie{Type: "stop"}
				}
			}
			measures[m].Notes = append(measures[m].Notes, note)
			pos = segEnd
		}
	}

	return measures
}

// keyFifths maps a key signature onto the circle-of-fifths accidental count
func keyFifths(key engine.KeySignature) int {
	tonic := key.Tonic % 12
	if key.Mode == engine.KeyModeMinor {
		tonic = (tonic + 3) % 12
	}
	return majorAccidentals[tonic]
}
