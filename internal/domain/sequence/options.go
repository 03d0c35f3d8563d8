// Package sequence walks a game's chronological event log to detect
// missed-shot put-back sequences and score them.
package sequence

// Option applies a configuration option to the Detector.
type Option func(*Detector)

// WithMode sets the scoring policy for detected sequences.
func WithMode(mode Mode) Option {
	return func(d *Detector) {
		if mode == ModeFlat || mode == ModeShotValue {
			d.mode = mode
		}
	}
}
