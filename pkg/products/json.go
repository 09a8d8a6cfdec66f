package products

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// UnmarshalJSON decodes a field value with numeric fidelity: integer
// values come back as int64 and decimals as float64, matching what the
// coercion step produced before the record was stored.
func (fv *FieldValue) UnmarshalJSON(data []byte) error {
	var aux struct {
		Key   string          `json:"key"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	fv.Key = aux.Key
	fv.Value = decodeValue(aux.Value)
	return nil
}

// decodeValue decodes a raw JSON value, preserving the int64/float64
// distinction that plain interface decoding would flatten to float64.
func decodeValue(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return string(raw)
	}

	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
