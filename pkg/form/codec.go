package form

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/goliatone/go-formdesigner/pkg/fields"
)

type wireInstance struct {
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	ExtraAttributes json.RawMessage `json:"extraAttributes"`
}

// Encode renders the definition as the persisted JSON array of
// {id, type, extraAttributes} objects. A nil definition encodes as [].
func Encode(def Definition) ([]byte, error) {
	if def == nil {
		def = Definition{}
	}
	data, err := json.Marshal([]fields.Instance(def))
	if err != nil {
		return nil, fmt.Errorf("form: encode definition: %w", err)
	}
	return data, nil
}

// Decode parses persisted definition text. Each extraAttributes object is
// decoded by the descriptor of its type, so the result carries typed
// configurations. Legacy component tags are normalised. Empty input decodes
// to an empty definition.
func Decode(data []byte, resolver Resolver) (Definition, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Definition{}, nil
	}

	var raw []wireInstance
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("form: decode definition: %w", err)
	}

	def := make(Definition, 0, len(raw))
	for _, item := range raw {
		tag := fields.NormalizeType(item.Type)
		desc, err := resolver.Resolve(tag)
		if err != nil {
			return nil, fmt.Errorf("form: instance %q: %w", item.ID, err)
		}
		cfg, err := desc.DecodeConfig(item.ExtraAttributes)
		if err != nil {
			return nil, fmt.Errorf("form: instance %q: %w", item.ID, err)
		}
		def = append(def, fields.Instance{ID: item.ID, Type: tag, Config: cfg})
	}
	if err := def.Check(resolver); err != nil {
		return nil, err
	}
	return def, nil
}

// Fingerprint returns the hex BLAKE3 digest of the encoded definition. Equal
// definitions always share a fingerprint.
func (d Definition) Fingerprint() (string, error) {
	data, err := Encode(d)
	if err != nil {
		return "", err
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
