package formats

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Blockstate maps block property combinations to model applications, either
// through flat variants or conditional multipart cases. The two forms are
// mutually exclusive in well-formed files; when both appear, variants win.
type Blockstate struct {
	Variants  VariantList     `json:"variants"`
	Multipart []MultipartCase `json:"multipart"`
}

// VariantEntry is one clause-string keyed variant.
type VariantEntry struct {
	Key   string
	Apply ApplyList
}

// VariantList preserves the file's key order, which breaks specificity
// ties during matching.
type VariantList []VariantEntry

// UnmarshalJSON decodes the variants object without losing key order.
func (v *VariantList) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("parsing variants: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("parsing variants: expected an object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("parsing variants: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("parsing variants: non-string key %v", keyTok)
		}

		var apply ApplyList
		if err := dec.Decode(&apply); err != nil {
			return fmt.Errorf("parsing variant %q: %w", key, err)
		}
		*v = append(*v, VariantEntry{Key: key, Apply: apply})
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("parsing variants: %w", err)
	}
	return nil
}

// ApplySpec names a model to place plus its placement rotation and UV lock.
type ApplySpec struct {
	Model  string  `json:"model"`
	X      float32 `json:"x"`
	Y      float32 `json:"y"`
	UVLock bool    `json:"uvlock"`
}

// ApplyList decodes from either a single apply object or an array of them.
type ApplyList []ApplySpec

// UnmarshalJSON accepts both the single-object and array forms.
func (l *ApplyList) UnmarshalJSON(data []byte) error {
	var list []ApplySpec
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}

	var single ApplySpec
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*l = ApplyList{single}
	return nil
}

// MultipartCase contributes its apply list whenever its condition holds.
// A nil When always holds.
type MultipartCase struct {
	When  *Condition `json:"when"`
	Apply ApplyList  `json:"apply"`
}

// Condition is a boolean expression over block properties. A plain object is
// an implicit AND of property tests, each value a "|"-delimited set of
// acceptable strings. "OR" and "AND" keys hold arrays of sub-conditions and
// nest recursively.
type Condition struct {
	Or    []Condition
	And   []Condition
	Props map[string]string
}

// UnmarshalJSON splits the OR/AND combinators from plain property tests.
func (c *Condition) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing condition: %w", err)
	}

	for key, val := range raw {
		switch key {
		case "OR":
			if err := json.Unmarshal(val, &c.Or); err != nil {
				return fmt.Errorf("parsing OR condition: %w", err)
			}
		case "AND":
			if err := json.Unmarshal(val, &c.And); err != nil {
				return fmt.Errorf("parsing AND condition: %w", err)
			}
		default:
			// Property values may be strings, bools, or numbers in
			// source files; all compare as strings.
			var v any
			if err := json.Unmarshal(val, &v); err != nil {
				return fmt.Errorf("parsing condition property %q: %w", key, err)
			}
			if c.Props == nil {
				c.Props = make(map[string]string)
			}
			c.Props[key] = fmt.Sprintf("%v", v)
		}
	}
	return nil
}

// ParseBlockstate decodes a blockstate JSON file.
func ParseBlockstate(data []byte) (*Blockstate, error) {
	var bs Blockstate
	if err := json.Unmarshal(data, &bs); err != nil {
		return nil, fmt.Errorf("parsing blockstate: %w", err)
	}
	return &bs, nil
}
