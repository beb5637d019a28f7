package gograph

import (
	"fmt"
	"strings"
	"unicode"
)

// CypherReservedWords is the set of Cypher reserved keywords that cannot
// be used as table or property names without backtick quoting. Since
// generated queries embed these names unquoted, registration rejects them.
var CypherReservedWords = map[string]bool{
	// Clauses
	"match": true, "optional": true, "return": true, "with": true,
	"create": true, "merge": true, "delete": true, "detach": true,
	"set": true, "remove": true, "unwind": true, "call": true,
	"load": true, "union": true,
	// Subclauses
	"where": true, "order": true, "by": true, "skip": true, "limit": true,
	"distinct": true, "as": true, "on": true, "yield": true,
	// Operators and expressions
	"and": true, "or": true, "xor": true, "not": true,
	"in": true, "is": true, "starts": true, "ends": true, "contains": true,
	"case": true, "when": true, "then": true, "else": true, "end": true,
	"exists": true, "all": true, "any": true, "none": true, "single": true,
	// Literals
	"true": true, "false": true, "null": true,
	// Sort directions
	"asc": true, "ascending": true, "desc": true, "descending": true,
	// DDL
	"table": true, "node": true, "rel": true, "group": true,
	"primary": true, "key": true, "default": true, "drop": true,
	"alter": true, "add": true, "rename": true, "comment": true,
	"copy": true, "from": true, "to": true, "import": true, "export": true,
	"attach": true, "detach_database": true, "use": true, "begin": true,
	"commit": true, "rollback": true, "transaction": true, "read": true,
	"only": true, "explain": true, "profile": true,
	// Column type names
	"serial": true, "string": true, "int64": true, "int32": true,
	"int16": true, "int8": true, "uint64": true, "uint32": true,
	"uint16": true, "uint8": true, "int128": true, "double": true,
	"float": true, "boolean": true, "bool": true, "date": true,
	"timestamp": true, "interval": true, "blob": true, "uuid": true,
	"struct": true, "map": true, "list": true, "array": true, "union_type": true,
	// Internal column names
	"_id": true, "_label": true, "_src": true, "_dst": true,
}

// IsReservedWord returns true if the given name is a Cypher reserved
// keyword. The check is case-insensitive.
func IsReservedWord(name string) bool {
	return CypherReservedWords[strings.ToLower(name)]
}

// ValidateIdentifier checks that a name is usable as an unquoted table or
// property name. Valid identifiers start with a letter or underscore and
// continue with letters, digits, or underscores, and must not collide
// with a reserved keyword.
func ValidateIdentifier(name string) error {
	if name == "" {
		return &InvalidIdentifierError{Name: name, Reason: "empty name"}
	}
	if IsReservedWord(name) {
		return &InvalidIdentifierError{Name: name, Reason: "reserved keyword"}
	}
	for i, r := range name {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' {
				return &InvalidIdentifierError{
					Name:   name,
					Reason: fmt.Sprintf("must start with a letter or underscore, got %q", r),
				}
			}
		} else {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
				return &InvalidIdentifierError{
					Name:   name,
					Reason: fmt.Sprintf("invalid character %q at position %d", r, i),
				}
			}
		}
	}
	return nil
}

// InvalidIdentifierError is returned when a name cannot be used as an
// unquoted identifier in generated queries.
type InvalidIdentifierError struct {
	Name   string
	Reason string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid identifier %q: %s", e.Name, e.Reason)
}
