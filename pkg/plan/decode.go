package plan

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Plan is a list of steps to apply to one document.
type Plan struct {
	Input  string      `json:"input"`
	Output string      `json:"output,omitempty"`
	Steps  []Operation `json:"steps"`
}

// Destination returns the document ID the result is written to.
func (p *Plan) Destination() string {
	if p.Output != "" {
		return p.Output
	}
	return p.Input
}

// File is the on-disk shape of a plan, before steps are typed.
type File struct {
	Input  string           `yaml:"input" json:"input"`
	Output string           `yaml:"output" json:"output"`
	Steps  []map[string]any `yaml:"steps" json:"steps"`
}

// Load reads a plan from a YAML (or JSON) file.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}
	return Parse(data)
}

// Parse decodes a plan document. JSON is accepted as it is valid YAML.
func Parse(data []byte) (*Plan, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse plan: %w", err)
	}

	steps, err := DecodeSteps(f.Steps)
	if err != nil {
		return nil, err
	}
	return &Plan{Input: f.Input, Output: f.Output, Steps: steps}, nil
}

// DecodeSteps turns generic step maps into typed operations.
// Unknown ops and unknown fields are rejected.
func DecodeSteps(raw []map[string]any) ([]Operation, error) {
	steps := make([]Operation, 0, len(raw))
	for i, m := range raw {
		op, err := DecodeStep(m)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		steps = append(steps, op)
	}
	return steps, nil
}

// DecodeStep decodes a single step map.
func DecodeStep(m map[string]any) (Operation, error) {
	kind, _ := m["op"].(string)

	var op Operation
	switch kind {
	case OpAddComponent:
		op = &AddComponent{}
	case OpAddParameter:
		op = &AddParameter{}
	case OpSetParameter:
		op = &SetParameter{}
	case OpEditConnection:
		op = &EditConnection{}
	case OpAddConnection:
		op = &AddConnection{}
	case OpClone:
		op = &Clone{}
	case OpExtend:
		op = &Extend{}
	case "":
		return nil, fmt.Errorf("missing op")
	default:
		return nil, fmt.Errorf("unknown op %q", kind)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true, // "value: 100" arrives as an int
		ErrorUnused:      true,
		Result:           op,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(m); err != nil {
		return nil, fmt.Errorf("invalid %s step: %w", kind, err)
	}
	if err := op.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s step: %w", kind, err)
	}
	return op, nil
}
