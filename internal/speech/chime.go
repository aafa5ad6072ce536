package speech

import (
	"math"
	"time"

	"github.com/faiface/beep"
)

// ChimeRate is the sample rate of the wake chime.
const ChimeRate beep.SampleRate = 44100

// Tone returns a sine tone of freq Hz lasting d, with a short linear fade at
// both ends to avoid clicks.
func Tone(sr beep.SampleRate, freq float64, d time.Duration, volume float64) beep.Streamer {
	total := sr.N(d)
	fade := min(sr.N(10*time.Millisecond), total/2)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		n := 0
		for i := range samples {
			if pos >= total {
				break
			}
			gain := volume
			switch {
			case pos < fade:
				gain *= float64(pos) / float64(fade)
			case total-pos < fade:
				gain *= float64(total-pos) / float64(fade)
			}
			v := gain * math.Sin(2*math.Pi*freq*float64(pos)/float64(sr))
			samples[i][0], samples[i][1] = v, v
			pos++
			n++
		}
		return n, true
	})
}

// Chime is the two-note wake acknowledgement.
func Chime() beep.Streamer {
	return beep.Seq(
		Tone(ChimeRate, 660, 90*time.Millisecond, 0.4),
		Tone(ChimeRate, 880, 120*time.Millisecond, 0.4),
	)
}
