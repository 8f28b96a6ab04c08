package timeline

import "sort"

// PresetRegistry maps names to reusable effect templates so sessions can
// attach well-known effects without rebuilding the payload each time
type PresetRegistry struct {
	presets map[string]Effect
}

func NewPresetRegistry() *PresetRegistry {
	return &PresetRegistry{presets: make(map[string]Effect)}
}

// Register adds or replaces a named preset
func (r *PresetRegistry) Register(name string, e Effect) {
	r.presets[name] = e
}

// Get returns a copy of the named preset
func (r *PresetRegistry) Get(name string) (Effect, bool) {
	e, ok := r.presets[name]
	return e, ok
}

// List returns registered preset names in sorted order
func (r *PresetRegistry) List() []string {
	names := make([]string, 0, len(r.presets))
	for name := range r.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultPresets returns a registry seeded with common effects
func DefaultPresets() *PresetRegistry {
	r := NewPresetRegistry()
	r.Register("grayscale", Effect{
		Type:   EffectFilter,
		Name:   "grayscale",
		Filter: &FilterParams{Name: "hue", Intensity: 0},
	})
	r.Register("slowmo", Effect{
		Type:  EffectSpeed,
		Name:  "slowmo",
		Speed: &SpeedParams{Factor: 0.5},
	})
	r.Register("timelapse", Effect{
		Type:  EffectSpeed,
		Name:  "timelapse",
		Speed: &SpeedParams{Factor: 4},
	})
	return r
}
