package model

import "math"

// Classification is the output contract of every classifier.
type Classification struct {
	Category    Category          `yaml:"category"              json:"category"`
	Confidence  float64           `yaml:"confidence"            json:"confidence"`
	Action      string            `yaml:"action,omitempty"      json:"action,omitempty"`
	Subcategory string            `yaml:"subcategory,omitempty" json:"subcategory,omitempty"`
	Entities    map[string]string `yaml:"entities,omitempty"    json:"entities,omitempty"`
	// Source names the classifier that produced this value ("pattern",
	// "semantic" or "fallback").
	Source string `yaml:"source,omitempty" json:"source,omitempty"`
}

// Percent returns the confidence on a 0-100 scale, rounded.
func (c Classification) Percent() int {
	return int(math.Round(c.Confidence * 100))
}

// NormalizeConfidence maps oracle confidences onto [0,1]. Values above 1 are
// read as percentages.
func NormalizeConfidence(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		v = v / 100
	}
	if v > 1 {
		return 1
	}
	return v
}
