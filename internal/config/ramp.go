package config

// Ramp is the single linear difficulty ramp: speed starts at a base value
// and grows by a fixed increment on every score tick.
type Ramp struct {
	cfg RampConfig
}

// NewRamp creates a ramp from its configuration.
func NewRamp(cfg RampConfig) Ramp {
	return Ramp{cfg: cfg}
}

// Base returns the speed a fresh session starts with.
func (r Ramp) Base() float64 {
	return r.cfg.BaseSpeed
}

// Next returns the speed after one more score tick.
// The result never decreases; a positive MaxSpeed caps it.
func (r Ramp) Next(speed float64) float64 {
	next := speed + r.cfg.Increment
	if r.cfg.MaxSpeed > 0 && next > r.cfg.MaxSpeed {
		// Never pull a speed that is already above the cap back down.
		return max(speed, r.cfg.MaxSpeed)
	}
	return next
}
