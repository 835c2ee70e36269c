package domain

import (
	"encoding/json"
	"regexp"
	"slices"

	"go.trai.ch/zerr"
)

// Condition type names accepted by the evaluator.
const (
	ConditionConst      = "const"
	ConditionEquals     = "equals"
	ConditionNotEquals  = "notEquals"
	ConditionInList     = "inList"
	ConditionNotInList  = "notInList"
	ConditionMatches    = "matches"
	ConditionNotMatches = "notMatches"
	ConditionAllOf      = "allOf"
	ConditionAnyOf      = "anyOf"
	ConditionNot        = "not"
)

// Condition is a small boolean-expression tree gating whether a preset is
// usable. A nil *Condition means "no condition"; treating that as true is
// the caller's responsibility, not the evaluator's.
type Condition struct {
	Type   string    `json:"type"`
	Value  *bool     `json:"value,omitempty"`
	Lhs    *string   `json:"lhs,omitempty"`
	Rhs    *string   `json:"rhs,omitempty"`
	String *string   `json:"string,omitempty"`
	List   []string  `json:"list,omitempty"`
	Regex  *string   `json:"regex,omitempty"`

	Conditions []*Condition `json:"conditions,omitempty"`
	Condition  *Condition   `json:"condition,omitempty"`
}

func missingProperty(name string) error {
	return With(ErrConditionMissingProperty, "property", name)
}

// Evaluate computes the condition's truth value. It is pure and total over
// well-formed input: every malformed shape yields a typed error, and an
// unrecognized type is an error, never a silent false.
func (c *Condition) Evaluate() (bool, error) {
	switch c.Type {
	case ConditionConst:
		if c.Value == nil {
			return false, missingProperty("value")
		}
		return *c.Value, nil

	case ConditionEquals, ConditionNotEquals:
		if c.Lhs == nil {
			return false, missingProperty("lhs")
		}
		if c.Rhs == nil {
			return false, missingProperty("rhs")
		}
		equal := *c.Lhs == *c.Rhs
		if c.Type == ConditionNotEquals {
			return !equal, nil
		}
		return equal, nil

	case ConditionInList, ConditionNotInList:
		if c.String == nil {
			return false, missingProperty("string")
		}
		if c.List == nil {
			return false, missingProperty("list")
		}
		found := slices.Contains(c.List, *c.String)
		if c.Type == ConditionNotInList {
			return !found, nil
		}
		return found, nil

	case ConditionMatches, ConditionNotMatches:
		if c.String == nil {
			return false, missingProperty("string")
		}
		if c.Regex == nil {
			return false, missingProperty("regex")
		}
		re, err := regexp.Compile(*c.Regex)
		if err != nil {
			return false, zerr.With(zerr.Wrap(err, ErrInvalidConditionRegex.Error()), "regex", *c.Regex)
		}
		matched := re.MatchString(*c.String)
		if c.Type == ConditionNotMatches {
			return !matched, nil
		}
		return matched, nil

	case ConditionAllOf, ConditionAnyOf:
		if len(c.Conditions) == 0 {
			return false, missingProperty("conditions")
		}
		all := c.Type == ConditionAllOf
		for _, sub := range c.Conditions {
			if sub == nil {
				// An absent sub-condition is vacuously true.
				if !all {
					return true, nil
				}
				continue
			}
			v, err := sub.Evaluate()
			if err != nil {
				return false, err
			}
			if all && !v {
				return false, nil
			}
			if !all && v {
				return true, nil
			}
		}
		return all, nil

	case ConditionNot:
		if c.Condition == nil {
			return false, missingProperty("condition")
		}
		v, err := c.Condition.Evaluate()
		if err != nil {
			return false, err
		}
		return !v, nil

	default:
		return false, With(ErrInvalidConditionType, "type", c.Type)
	}
}

// Clone returns a deep copy of the condition tree.
func (c *Condition) Clone() *Condition {
	if c == nil {
		return nil
	}
	out := &Condition{Type: c.Type}
	out.Value = clonePtr(c.Value)
	out.Lhs = clonePtr(c.Lhs)
	out.Rhs = clonePtr(c.Rhs)
	out.String = clonePtr(c.String)
	out.Regex = clonePtr(c.Regex)
	if c.List != nil {
		out.List = slices.Clone(c.List)
	}
	if c.Conditions != nil {
		out.Conditions = make([]*Condition, len(c.Conditions))
		for i, sub := range c.Conditions {
			out.Conditions[i] = sub.Clone()
		}
	}
	out.Condition = c.Condition.Clone()
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// conditionJSON guards against the schema's "condition": true | false shorthand
// used by some generators; it normalizes booleans into const conditions.
type conditionJSON Condition

// UnmarshalJSON accepts a condition object or a bare boolean.
func (c *Condition) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*c = Condition{Type: ConditionConst, Value: &b}
		return nil
	}
	var raw conditionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Condition(raw)
	return nil
}
