package ddlgen

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// --- Participle grammar structs ---
// These define the Kuzu DDL grammar using struct tags. The grammar handles
// CREATE NODE TABLE and CREATE REL TABLE statements; everything else in a
// script (COPY, CREATE MACRO, REL TABLE GROUP) is skipped before parsing.

// createStmt parses a single CREATE ... TABLE statement.
type createStmt struct {
	Create string        `parser:"'CREATE'"`
	Node   *nodeTableDef `parser:"( @@"`
	Rel    *relTableDef  `parser:"| @@ )"`
}

// nodeTableDef parses: NODE TABLE [IF NOT EXISTS] name ( element, ... ) [;]
type nodeTableDef struct {
	Kind        string     `parser:"'NODE' 'TABLE'"`
	IfNotExists bool       `parser:"@('IF' 'NOT' 'EXISTS')?"`
	Name        string     `parser:"@Ident"`
	Elements    []nodeElem `parser:"'(' @@ ( ',' @@ )* ')' ';'?"`
}

// nodeElem is one of: PRIMARY KEY (...) or a property column.
type nodeElem struct {
	PrimaryKey *pkDef   `parser:"  @@"`
	Property   *propDef `parser:"| @@"`
}

// pkDef parses: PRIMARY KEY ( col [, col]* )
type pkDef struct {
	Columns []string `parser:"'PRIMARY' 'KEY' '(' @Ident ( ',' @Ident )* ')'"`
}

// relTableDef parses: REL TABLE [IF NOT EXISTS] name ( FROM a TO b, ... ) [;]
type relTableDef struct {
	Kind        string    `parser:"'REL' 'TABLE'"`
	IfNotExists bool      `parser:"@('IF' 'NOT' 'EXISTS')?"`
	Name        string    `parser:"@Ident"`
	Elements    []relElem `parser:"'(' @@ ( ',' @@ )* ')' ';'?"`
}

// relElem is one of: FROM ... TO ..., a multiplicity keyword, or a property.
type relElem struct {
	Endpoints *fromToDef `parser:"  @@"`
	Mult      string     `parser:"| @('MANY_MANY' | 'MANY_ONE' | 'ONE_MANY' | 'ONE_ONE')"`
	Property  *propDef   `parser:"| @@"`
}

// fromToDef parses: FROM node-table TO node-table
type fromToDef struct {
	From string `parser:"'FROM' @Ident"`
	To   string `parser:"'TO' @Ident"`
}

// propDef parses: name type [DEFAULT literal]
type propDef struct {
	Name    string      `parser:"@Ident"`
	Type    *typeRef    `parser:"@@"`
	Default *defaultLit `parser:"( 'DEFAULT' @@ )?"`
}

// defaultLit parses a default value: a string, number, boolean or a
// zero-argument function call such as current_timestamp().
type defaultLit struct {
	Value string `parser:"@(String | Number | Ident)"`
	Call  bool   `parser:"@('(' ')')?"`
}

// typeRef parses a Kuzu type: scalar, parameterized, STRUCT, MAP, LIST or
// ARRAY suffixes.
type typeRef struct {
	Struct *structType `parser:"  @@"`
	Map    *mapType    `parser:"| @@"`
	Named  *namedType  `parser:"| @@"`
}

// structType parses: STRUCT ( field type [, field type]* )
type structType struct {
	Fields []structField `parser:"'STRUCT' '(' @@ ( ',' @@ )* ')'"`
}

type structField struct {
	Name string   `parser:"@Ident"`
	Type *typeRef `parser:"@@"`
}

// mapType parses: MAP ( keytype, valuetype )
type mapType struct {
	Key   *typeRef `parser:"'MAP' '(' @@"`
	Value *typeRef `parser:"',' @@ ')'"`
}

// namedType parses: name [( number [, number]* )] [ [n] ]*
// covering scalars, DECIMAL(p, s), LIST (T[]) and ARRAY (T[n]).
type namedType struct {
	Name     string        `parser:"@Ident"`
	Params   []string      `parser:"( '(' @Number ( ',' @Number )* ')' )?"`
	Suffixes []arraySuffix `parser:"@@*"`
}

// arraySuffix parses: [ n ] or [ ]
type arraySuffix struct {
	Open string  `parser:"'['"`
	Size *string `parser:"@Number? ']'"`
}

var ddlLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "BlockComment", Pattern: `/\*[\s\S]*?\*/`},
	{Name: "LineComment", Pattern: `//[^\n]*`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Keyword", Pattern: `(?i)\b(CREATE|NODE|REL|TABLE|IF|NOT|EXISTS|PRIMARY|KEY|FROM|TO|DEFAULT|STRUCT|MAP|MANY_MANY|MANY_ONE|ONE_MANY|ONE_ONE)\b`},
	{Name: "String", Pattern: `'(?:[^'\\]|\\.)*'|"(?:[^"\\]|\\.)*"`},
	{Name: "Number", Pattern: `[-+]?[0-9]+(?:\.[0-9]+)?`},
	{Name: "Ident", Pattern: "\x60[^\x60]+\x60|[a-zA-Z_][a-zA-Z0-9_]*"},
	{Name: "Punct", Pattern: `[();,\[\]]`},
})

var stmtParser = participle.MustBuild[createStmt](
	participle.Lexer(ddlLexer),
	participle.Elide("BlockComment", "LineComment", "Whitespace"),
	participle.CaseInsensitive("Keyword"),
	participle.UseLookahead(4),
)

// supportedStmt matches the statements ddlgen understands. REL TABLE GROUP
// is deliberately excluded; grouped rel tables expand to one table per
// node-table pair at runtime and have no single Go model shape.
var (
	supportedStmt = regexp.MustCompile(`(?is)^\s*CREATE\s+(NODE|REL)\s+TABLE\b`)
	groupStmt     = regexp.MustCompile(`(?is)^\s*CREATE\s+REL\s+TABLE\s+GROUP\b`)
)

// ParseSchema parses a Kuzu DDL script into a ParsedSchema. Statements
// other than CREATE NODE TABLE / CREATE REL TABLE are skipped, so a full
// bootstrap script (with COPY FROM, macros, queries) can be fed in as-is.
func ParseSchema(input string) (*ParsedSchema, error) {
	schema := &ParsedSchema{}

	for _, stmt := range SplitStatements(input) {
		if !supportedStmt.MatchString(stmt) || groupStmt.MatchString(stmt) {
			continue
		}
		ast, err := stmtParser.ParseString("schema.ddl", stmt)
		if err != nil {
			return nil, fmt.Errorf("parse statement %q: %w", firstLine(stmt), err)
		}
		if ast.Node != nil {
			schema.Nodes = append(schema.Nodes, convertNode(ast.Node))
		}
		if ast.Rel != nil {
			schema.Rels = append(schema.Rels, convertRel(ast.Rel))
		}
	}
	return schema, nil
}

// ParseSchemaFile reads a Kuzu DDL script from the specified path and parses it.
func ParseSchemaFile(path string) (*ParsedSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return ParseSchema(string(data))
}

// SplitStatements splits a DDL script into statements on top-level
// semicolons, stripping comments. Semicolons inside string literals and
// backtick-quoted identifiers do not split.
func SplitStatements(input string) []string {
	var stmts []string
	var b strings.Builder

	const (
		stCode = iota
		stSingle
		stDouble
		stBacktick
		stLineComment
		stBlockComment
	)
	state := stCode

	runes := []rune(input)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch state {
		case stCode:
			switch {
			case r == ';':
				if s := strings.TrimSpace(b.String()); s != "" {
					stmts = append(stmts, s)
				}
				b.Reset()
				continue
			case r == '\'':
				state = stSingle
			case r == '"':
				state = stDouble
			case r == '`':
				state = stBacktick
			case r == '/' && i+1 < len(runes) && runes[i+1] == '/':
				state = stLineComment
				i++
				continue
			case r == '/' && i+1 < len(runes) && runes[i+1] == '*':
				state = stBlockComment
				i++
				continue
			}
			b.WriteRune(r)
		case stSingle:
			b.WriteRune(r)
			if r == '\\' && i+1 < len(runes) {
				b.WriteRune(runes[i+1])
				i++
			} else if r == '\'' {
				state = stCode
			}
		case stDouble:
			b.WriteRune(r)
			if r == '\\' && i+1 < len(runes) {
				b.WriteRune(runes[i+1])
				i++
			} else if r == '"' {
				state = stCode
			}
		case stBacktick:
			b.WriteRune(r)
			if r == '`' {
				state = stCode
			}
		case stLineComment:
			if r == '\n' {
				state = stCode
				b.WriteRune(r)
			}
		case stBlockComment:
			if r == '*' && i+1 < len(runes) && runes[i+1] == '/' {
				state = stCode
				i++
			}
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		stmts = append(stmts, s)
	}
	return stmts
}

// --- AST conversion ---

func convertNode(n *nodeTableDef) NodeSpec {
	spec := NodeSpec{
		Name:        unquoteIdent(n.Name),
		IfNotExists: n.IfNotExists,
	}
	for _, el := range n.Elements {
		if el.PrimaryKey != nil {
			for _, col := range el.PrimaryKey.Columns {
				spec.PrimaryKey = append(spec.PrimaryKey, unquoteIdent(col))
			}
			continue
		}
		if el.Property != nil {
			spec.Properties = append(spec.Properties, convertProp(el.Property))
		}
	}
	return spec
}

func convertRel(r *relTableDef) RelSpec {
	spec := RelSpec{
		Name:        unquoteIdent(r.Name),
		IfNotExists: r.IfNotExists,
	}
	for _, el := range r.Elements {
		switch {
		case el.Endpoints != nil:
			spec.From = unquoteIdent(el.Endpoints.From)
			spec.To = unquoteIdent(el.Endpoints.To)
		case el.Mult != "":
			spec.Multiplicity = strings.ToUpper(el.Mult)
		case el.Property != nil:
			spec.Properties = append(spec.Properties, convertProp(el.Property))
		}
	}
	return spec
}

func convertProp(p *propDef) PropertySpec {
	spec := PropertySpec{
		Name: unquoteIdent(p.Name),
		Type: canonicalType(p.Type),
	}
	if p.Default != nil {
		spec.Default = p.Default.Value
		if p.Default.Call {
			spec.Default += "()"
		}
	}
	return spec
}

// canonicalType renders a parsed type back into canonical Kuzu type text.
func canonicalType(t *typeRef) string {
	switch {
	case t.Struct != nil:
		parts := make([]string, 0, len(t.Struct.Fields))
		for _, f := range t.Struct.Fields {
			parts = append(parts, unquoteIdent(f.Name)+" "+canonicalType(f.Type))
		}
		return "STRUCT(" + strings.Join(parts, ", ") + ")"
	case t.Map != nil:
		return "MAP(" + canonicalType(t.Map.Key) + ", " + canonicalType(t.Map.Value) + ")"
	case t.Named != nil:
		out := strings.ToUpper(unquoteIdent(t.Named.Name))
		if len(t.Named.Params) > 0 {
			out += "(" + strings.Join(t.Named.Params, ", ") + ")"
		}
		for _, suf := range t.Named.Suffixes {
			if suf.Size != nil {
				out += "[" + *suf.Size + "]"
			} else {
				out += "[]"
			}
		}
		return out
	default:
		return ""
	}
}

func unquoteIdent(name string) string {
	if len(name) >= 2 && name[0] == '`' && name[len(name)-1] == '`' {
		return name[1 : len(name)-1]
	}
	return name
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i] + " ..."
	}
	if len(s) > 80 {
		s = s[:77] + "..."
	}
	return s
}
