// Package gograph provides parsing and representation of 'kuzu' struct tags.
package gograph

import (
	"fmt"
	"strings"
)

// FieldTag contains the structured representation of a parsed `kuzu` struct tag.
type FieldTag struct {
	// Name is the property name in the table.
	Name string
	// Primary marks the field as the table's primary key.
	Primary bool
	// Serial marks the field as a SERIAL primary key assigned by the engine.
	Serial bool
	// UUID marks the field as a UUID primary key generated on insert.
	UUID bool
	// From marks a rel model field as the relationship's source endpoint.
	From bool
	// To marks a rel model field as the relationship's destination endpoint.
	To bool
	// TypeName provides an explicit override for the table name.
	TypeName string
	// Mult is the rel table multiplicity (mult=MANY_ONE etc).
	Mult Multiplicity
	// MultSet records whether mult= appeared in the tag.
	MultSet bool
	// Default is the DEFAULT expression for the column, verbatim.
	Default string
	// HasDefault records whether default= appeared in the tag.
	HasDefault bool
	// Skip indicates the field should be ignored by the mapper.
	Skip bool
}

// IsKey reports whether the tag marks the field as a primary key of any kind.
func (ft FieldTag) IsKey() bool {
	return ft.Primary || ft.Serial || ft.UUID
}

// IsEndpoint reports whether the tag marks the field as a rel endpoint.
func (ft FieldTag) IsEndpoint() bool {
	return ft.From || ft.To
}

// ParseTag parses the content of a `kuzu` struct tag into a FieldTag.
// It supports options like primary, serial, uuid, from, to, type name
// overrides (type:Name), multiplicity (mult=MANY_ONE) and default values
// (default=expr).
func ParseTag(tag string) (FieldTag, error) {
	if tag == "" || tag == "-" {
		return FieldTag{Skip: tag == "-"}, nil
	}

	parts := strings.Split(tag, ",")
	ft := FieldTag{}

	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if i == 0 && !strings.Contains(part, "=") && !strings.Contains(part, ":") &&
			!isTagKeyword(part) {
			ft.Name = part
			continue
		}

		switch {
		case part == "primary":
			ft.Primary = true
		case part == "serial":
			ft.Serial = true
		case part == "uuid":
			ft.UUID = true
		case part == "from":
			ft.From = true
		case part == "to":
			ft.To = true
		case part == "-":
			ft.Skip = true
		case strings.HasPrefix(part, "type:"):
			ft.TypeName = strings.TrimPrefix(part, "type:")
		case strings.HasPrefix(part, "mult="):
			multStr := strings.TrimPrefix(part, "mult=")
			mult, ok := parseMultiplicity(multStr)
			if !ok {
				return FieldTag{}, fmt.Errorf("invalid multiplicity %q", multStr)
			}
			ft.Mult = mult
			ft.MultSet = true
		case strings.HasPrefix(part, "default="):
			ft.Default = strings.TrimPrefix(part, "default=")
			ft.HasDefault = true
		default:
			if i == 0 {
				ft.Name = part
			} else {
				return FieldTag{}, fmt.Errorf("unknown tag option: %q", part)
			}
		}
	}

	if ft.Serial && ft.UUID {
		return FieldTag{}, fmt.Errorf("field cannot be both serial and uuid")
	}
	if ft.From && ft.To {
		return FieldTag{}, fmt.Errorf("field cannot be both from and to")
	}
	if ft.IsEndpoint() && ft.IsKey() {
		return FieldTag{}, fmt.Errorf("endpoint field cannot be a primary key")
	}

	return ft, nil
}

func isTagKeyword(s string) bool {
	switch s {
	case "primary", "serial", "uuid", "from", "to", "-":
		return true
	}
	return false
}
