package speech

import (
	"math"
	"time"
)

// Segmenter decides when a recording of a spoken command is complete. It
// drops leading silence and stops after a run of trailing silence or at the
// maximum length.
type Segmenter struct {
	Threshold   float64 // RMS level that counts as speech
	FrameLength time.Duration
	Silence     time.Duration // trailing silence that ends the command
	Max         time.Duration

	speaking bool
	silent   time.Duration
	elapsed  time.Duration
}

// DefaultThreshold is the RMS level above which a frame counts as speech.
const DefaultThreshold = 0.015

// Feed inspects one frame. keep reports whether the frame belongs to the
// command; done reports that recording should stop.
func (s *Segmenter) Feed(frame []float32) (keep, done bool) {
	s.elapsed += s.FrameLength
	if s.Max > 0 && s.elapsed >= s.Max {
		done = true
	}
	threshold := s.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if RMS(frame) > threshold {
		s.speaking = true
		s.silent = 0
		return true, done
	}
	if !s.speaking {
		return false, done
	}
	s.silent += s.FrameLength
	if s.silent >= s.Silence {
		return false, true
	}
	return true, done
}

// Heard reports whether any speech was detected.
func (s *Segmenter) Heard() bool { return s.speaking }

// RMS is the root mean square of a frame.
func RMS(frame []float32) float64 {
	if len(frame) == 0 {
		return 0
	}
	var sum float64
	for _, x := range frame {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum / float64(len(frame)))
}
