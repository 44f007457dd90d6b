package profile

import (
	"fmt"
	"math"
)

// Link parameter limits.
const (
	MaxAntennaHeight    = 40.0 // meters
	MaxFrequencyGHz     = 10.0
	DefaultFrequencyGHz = 2.4
)

// LinkParameters describes the two stations of a radio link.
// Setters return the receiver unchanged together with an error when a value is out of range.
type LinkParameters struct {
	Height1      float64 `json:"height1_m" yaml:"height1"`
	Height2      float64 `json:"height2_m" yaml:"height2"`
	FrequencyGHz float64 `json:"frequency_ghz" yaml:"frequency"`
}

// DefaultLink returns ground-level antennas at 2.4 GHz.
func DefaultLink() LinkParameters {
	return LinkParameters{FrequencyGHz: DefaultFrequencyGHz}
}

// WithHeight1 sets the first antenna height.
func (l LinkParameters) WithHeight1(h float64) (LinkParameters, error) {
	if err := checkHeight("height1", h); err != nil {
		return l, err
	}
	l.Height1 = h
	return l, nil
}

// WithHeight2 sets the second antenna height.
func (l LinkParameters) WithHeight2(h float64) (LinkParameters, error) {
	if err := checkHeight("height2", h); err != nil {
		return l, err
	}
	l.Height2 = h
	return l, nil
}

// WithFrequency sets the link frequency in GHz.
func (l LinkParameters) WithFrequency(f float64) (LinkParameters, error) {
	if err := checkFrequency(f); err != nil {
		return l, err
	}
	l.FrequencyGHz = f
	return l, nil
}

// Validate checks all three values.
func (l LinkParameters) Validate() error {
	if err := checkHeight("height1", l.Height1); err != nil {
		return err
	}
	if err := checkHeight("height2", l.Height2); err != nil {
		return err
	}
	return checkFrequency(l.FrequencyGHz)
}

func checkHeight(name string, h float64) error {
	if math.IsNaN(h) || h < 0 || h > MaxAntennaHeight {
		return fmt.Errorf("%w: %s %g m not in [0, %g]", ErrInvalidParameter, name, h, MaxAntennaHeight)
	}
	return nil
}

func checkFrequency(f float64) error {
	if math.IsNaN(f) || f <= 0 || f > MaxFrequencyGHz {
		return fmt.Errorf("%w: frequency %g GHz not in (0, %g]", ErrInvalidParameter, f, MaxFrequencyGHz)
	}
	return nil
}
