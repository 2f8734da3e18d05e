package controls

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Preset is a partial set of control values keyed by slug.
type Preset struct {
	Controls map[string]int `toml:"controls"`
}

// ParsePreset decodes a TOML preset and rejects unknown control names.
func ParsePreset(data []byte) (Preset, error) {
	var p Preset
	if err := toml.Unmarshal(data, &p); err != nil {
		return Preset{}, fmt.Errorf("failed to parse controls preset: %w", err)
	}
	for name := range p.Controls {
		if _, ok := Lookup(name); !ok {
			return Preset{}, fmt.Errorf("unknown control %q in preset", name)
		}
	}
	return p, nil
}

// LoadPreset reads and parses a preset file.
func LoadPreset(path string) (Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, fmt.Errorf("failed to read controls preset: %w", err)
	}
	return ParsePreset(data)
}

// Apply moves every control named in pr and returns how many were set.
// Values outside a control's domain are clamped.
func (p *Panel) Apply(pr Preset, source string) (int, error) {
	s, ok := p.ctl.(Setter)
	if !ok {
		return 0, fmt.Errorf("controls backend %T cannot be set programmatically", p.ctl)
	}

	applied := 0
	for i, spec := range Specs {
		v, ok := pr.Controls[spec.Name()]
		if !ok {
			continue
		}
		if err := s.SetControlValue(p.handles[i], min(max(v, spec.Min), spec.Max), source); err != nil {
			return applied, fmt.Errorf("set %s: %w", spec.Name(), err)
		}
		applied++
	}
	return applied, nil
}

// DefaultPreset renders every control at its default value.
func DefaultPreset() ([]byte, error) {
	pr := Preset{Controls: make(map[string]int, len(Specs))}
	for _, s := range Specs {
		pr.Controls[s.Name()] = s.Default
	}

	var buf bytes.Buffer
	buf.WriteString("# hsv-inspector controls preset\n")
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(pr); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
