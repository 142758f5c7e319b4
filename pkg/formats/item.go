package formats

import (
	"encoding/json"
	"fmt"
)

// ItemDefinition resolves an item name to the model used to draw it, plus
// optional constant tint layers indexed by a face's tintindex.
type ItemDefinition struct {
	Model string
	Tints []uint32
}

// UnmarshalJSON accepts both definition forms: a direct model reference
// {"model": "ns:path"} and the structured form whose "model" object carries
// the reference and a tint list.
func (d *ItemDefinition) UnmarshalJSON(data []byte) error {
	var raw struct {
		Model json.RawMessage `json:"model"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Model) == 0 {
		return fmt.Errorf("item definition has no model")
	}

	var direct string
	if err := json.Unmarshal(raw.Model, &direct); err == nil {
		d.Model = direct
		return nil
	}

	var structured struct {
		Model string `json:"model"`
		Tints []struct {
			Value   *int64 `json:"value"`
			Default *int64 `json:"default"`
		} `json:"tints"`
	}
	if err := json.Unmarshal(raw.Model, &structured); err != nil {
		return fmt.Errorf("parsing structured item model: %w", err)
	}

	d.Model = structured.Model
	for _, tint := range structured.Tints {
		switch {
		case tint.Value != nil:
			d.Tints = append(d.Tints, uint32(*tint.Value)&0xFFFFFF)
		case tint.Default != nil:
			d.Tints = append(d.Tints, uint32(*tint.Default)&0xFFFFFF)
		default:
			d.Tints = append(d.Tints, 0xFFFFFF)
		}
	}
	return nil
}

// ParseItemDefinition decodes an item definition JSON file.
func ParseItemDefinition(data []byte) (*ItemDefinition, error) {
	var def ItemDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing item definition: %w", err)
	}
	if def.Model == "" {
		return nil, fmt.Errorf("item definition names no model")
	}
	return &def, nil
}
