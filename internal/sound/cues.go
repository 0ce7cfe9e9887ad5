package sound

import "time"

// Note is a single tone of a cue.
type Note struct {
	Frequency float64
	Duration  time.Duration
	Volume    float64
	// Offset is the delay from the start of the cue.
	Offset time.Duration
}

// Cue is an ordered sequence of notes.
type Cue struct {
	Name  string
	Notes []Note
}

const (
	chimeNoteDuration = 500 * time.Millisecond
	chimeVolume       = 0.2
	chimeSpacing      = 200 * time.Millisecond
)

func chime(name string, frequencies ...float64) Cue {
	notes := make([]Note, 0, len(frequencies))
	for index, frequency := range frequencies {
		notes = append(notes, Note{
			Frequency: frequency,
			Duration:  chimeNoteDuration,
			Volume:    chimeVolume,
			Offset:    time.Duration(index) * chimeSpacing,
		})
	}
	return Cue{Name: name, Notes: notes}
}

// StartCue is an ascending C5-E5-G5 chime.
func StartCue() Cue {
	return chime("start", 523.25, 659.25, 783.99)
}

// WorkCue is the A4-C#5-E5-G5 chime played when a work phase begins.
func WorkCue() Cue {
	return chime("work", 440, 554.37, 659.25, 783.99)
}

// BreakCue is the F4-G#4-C5 chime played when a break begins.
func BreakCue() Cue {
	return chime("break", 349.23, 415.30, 523.25)
}

// TickCue is the subtle countdown tick of the final seconds.
func TickCue() Cue {
	return Cue{Name: "tick", Notes: []Note{{Frequency: 800, Duration: 100 * time.Millisecond, Volume: 0.1}}}
}

// CompleteCue is the C5 to C6 fanfare played when a countdown reaches zero.
func CompleteCue() Cue {
	melody := []float64{523.25, 587.33, 659.25, 698.46, 783.99, 880, 987.77, 1046.50}
	notes := make([]Note, 0, len(melody))
	for index, frequency := range melody {
		notes = append(notes, Note{
			Frequency: frequency,
			Duration:  300 * time.Millisecond,
			Volume:    0.25,
			Offset:    time.Duration(index) * 100 * time.Millisecond,
		})
	}
	return Cue{Name: "complete", Notes: notes}
}
