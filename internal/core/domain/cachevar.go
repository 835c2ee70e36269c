package domain

import "encoding/json"

// CacheVariable is a single cmake cache entry. The schema allows three
// shapes: a bare string, a bare boolean, or a {type, value} record.
// Booleans pass through variable expansion untouched; only string values
// and record values are expanded.
type CacheVariable struct {
	Type  string
	Value string
	Bool  *bool
}

// IsBool reports whether the variable was declared as a JSON boolean.
func (v CacheVariable) IsBool() bool { return v.Bool != nil }

// CacheValue renders the value the way cmake expects it on a -D flag.
func (v CacheVariable) CacheValue() string {
	if v.Bool != nil {
		if *v.Bool {
			return "TRUE"
		}
		return "FALSE"
	}
	return v.Value
}

// UnmarshalJSON accepts a string, a boolean, or a {type, value} record.
func (v *CacheVariable) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		v.Bool = &b
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v.Value = s
		return nil
	}
	var record struct {
		Type  string          `json:"type"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &record); err != nil {
		return err
	}
	v.Type = record.Type
	// The record value itself may be a string or a boolean.
	var rb bool
	if err := json.Unmarshal(record.Value, &rb); err == nil {
		if rb {
			v.Value = "TRUE"
		} else {
			v.Value = "FALSE"
		}
		return nil
	}
	var rs string
	if err := json.Unmarshal(record.Value, &rs); err != nil {
		return err
	}
	v.Value = rs
	return nil
}

// MarshalJSON writes the variable back in its declared shape.
func (v CacheVariable) MarshalJSON() ([]byte, error) {
	if v.Bool != nil {
		return json.Marshal(*v.Bool)
	}
	if v.Type != "" {
		return json.Marshal(struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		}{v.Type, v.Value})
	}
	return json.Marshal(v.Value)
}
