package cypher

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Compiler compiles AST nodes into Cypher query strings.
// It traverses the AST and generates the corresponding Cypher syntax.
type Compiler struct{}

// Compile compiles a single AST node into its Cypher string representation.
// It returns an error if the node type is unknown or if compilation fails.
func (c *Compiler) Compile(node QueryNode) (string, error) {
	switch n := node.(type) {
	case Clause:
		return c.compileClause(n)
	case Pattern:
		return c.compilePattern(n)
	case RelPattern:
		return c.compileRel(n)
	case Expr:
		return c.compileExpr(n)
	default:
		return "", fmt.Errorf("unknown node type: %T", node)
	}
}

// CompileQuery compiles a full query, joining its clauses with newlines.
// It returns an error if the query has no clauses.
func (c *Compiler) CompileQuery(q Query) (string, error) {
	if len(q.Clauses) == 0 {
		return "", fmt.Errorf("empty query")
	}
	parts := make([]string, 0, len(q.Clauses))
	for _, cl := range q.Clauses {
		s, err := c.compileClause(cl)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n"), nil
}

// --- Clauses ---

func (c *Compiler) compileClause(clause Clause) (string, error) {
	switch cl := clause.(type) {
	case MatchClause:
		if len(cl.Patterns) == 0 {
			return "", fmt.Errorf("match clause has no patterns")
		}
		patterns := make([]string, 0, len(cl.Patterns))
		for _, p := range cl.Patterns {
			s, err := c.compilePattern(p)
			if err != nil {
				return "", err
			}
			patterns = append(patterns, s)
		}
		keyword := "MATCH"
		if cl.Optional {
			keyword = "OPTIONAL MATCH"
		}
		out := keyword + " " + strings.Join(patterns, ", ")
		if cl.Where != nil {
			where, err := c.compileExpr(cl.Where)
			if err != nil {
				return "", err
			}
			out += "\nWHERE " + where
		}
		return out, nil

	case CreateClause:
		if len(cl.Patterns) == 0 {
			return "", fmt.Errorf("create clause has no patterns")
		}
		patterns := make([]string, 0, len(cl.Patterns))
		for _, p := range cl.Patterns {
			s, err := c.compilePattern(p)
			if err != nil {
				return "", err
			}
			patterns = append(patterns, s)
		}
		return "CREATE " + strings.Join(patterns, ", "), nil

	case MergeClause:
		if cl.Pattern == nil {
			return "", fmt.Errorf("merge clause has no pattern")
		}
		pattern, err := c.compilePattern(cl.Pattern)
		if err != nil {
			return "", err
		}
		out := "MERGE " + pattern
		if len(cl.OnCreate) > 0 {
			items, err := c.compileSetItems(cl.OnCreate)
			if err != nil {
				return "", err
			}
			out += "\nON CREATE SET " + items
		}
		if len(cl.OnMatch) > 0 {
			items, err := c.compileSetItems(cl.OnMatch)
			if err != nil {
				return "", err
			}
			out += "\nON MATCH SET " + items
		}
		return out, nil

	case SetClause:
		if len(cl.Items) == 0 {
			return "", fmt.Errorf("set clause has no items")
		}
		items, err := c.compileSetItems(cl.Items)
		if err != nil {
			return "", err
		}
		return "SET " + items, nil

	case DeleteClause:
		if len(cl.Variables) == 0 {
			return "", fmt.Errorf("delete clause has no variables")
		}
		keyword := "DELETE"
		if cl.Detach {
			keyword = "DETACH DELETE"
		}
		return keyword + " " + strings.Join(cl.Variables, ", "), nil

	case ReturnClause:
		if len(cl.Items) == 0 {
			return "", fmt.Errorf("return clause has no items")
		}
		items, err := c.compileReturnItems(cl.Items)
		if err != nil {
			return "", err
		}
		if cl.Distinct {
			return "RETURN DISTINCT " + items, nil
		}
		return "RETURN " + items, nil

	case WithClause:
		if len(cl.Items) == 0 {
			return "", fmt.Errorf("with clause has no items")
		}
		items, err := c.compileReturnItems(cl.Items)
		if err != nil {
			return "", err
		}
		out := "WITH "
		if cl.Distinct {
			out = "WITH DISTINCT "
		}
		out += items
		if cl.Where != nil {
			where, err := c.compileExpr(cl.Where)
			if err != nil {
				return "", err
			}
			out += "\nWHERE " + where
		}
		return out, nil

	case UnwindClause:
		if cl.Expression == nil {
			return "", fmt.Errorf("unwind clause has no expression")
		}
		expr, err := c.compileExpr(cl.Expression)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("UNWIND %s AS %s", expr, cl.Alias), nil

	case CallClause:
		args := make([]string, 0, len(cl.Args))
		for _, a := range cl.Args {
			s, err := c.compileExpr(a)
			if err != nil {
				return "", err
			}
			args = append(args, s)
		}
		return fmt.Sprintf("CALL %s(%s)", cl.Procedure, strings.Join(args, ", ")), nil

	case OrderByClause:
		if len(cl.Items) == 0 {
			return "", fmt.Errorf("order by clause has no items")
		}
		items := make([]string, 0, len(cl.Items))
		for _, item := range cl.Items {
			expr, err := c.compileExpr(item.Expression)
			if err != nil {
				return "", err
			}
			dir := "ASC"
			if item.Descending {
				dir = "DESC"
			}
			items = append(items, expr+" "+dir)
		}
		return "ORDER BY " + strings.Join(items, ", "), nil

	case SkipClause:
		return fmt.Sprintf("SKIP %d", cl.Count), nil

	case LimitClause:
		return fmt.Sprintf("LIMIT %d", cl.Count), nil

	case RawClause:
		return cl.Content, nil

	default:
		return "", fmt.Errorf("unknown clause type: %T", clause)
	}
}

func (c *Compiler) compileSetItems(items []SetItem) (string, error) {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if item.Value == nil {
			return "", fmt.Errorf("set item for %s.%s has no value", item.Property.Variable, item.Property.Name)
		}
		target, err := c.compileExpr(item.Property)
		if err != nil {
			return "", err
		}
		value, err := c.compileExpr(item.Value)
		if err != nil {
			return "", err
		}
		parts = append(parts, target+" = "+value)
	}
	return strings.Join(parts, ", "), nil
}

func (c *Compiler) compileReturnItems(items []ReturnItem) (string, error) {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if item.Expression == nil {
			return "", fmt.Errorf("return item has no expression")
		}
		expr, err := c.compileExpr(item.Expression)
		if err != nil {
			return "", err
		}
		if item.Alias != "" {
			expr += " AS " + QuoteIdentifier(item.Alias)
		}
		parts = append(parts, expr)
	}
	return strings.Join(parts, ", "), nil
}

// --- Patterns ---

func (c *Compiler) compilePattern(pattern Pattern) (string, error) {
	switch p := pattern.(type) {
	case NodePattern:
		return c.compileNode(p)

	case PathPattern:
		if len(p.Nodes) != len(p.Rels)+1 {
			return "", fmt.Errorf("path pattern has %d nodes and %d relationships", len(p.Nodes), len(p.Rels))
		}
		var b strings.Builder
		start, err := c.compileNode(p.Nodes[0])
		if err != nil {
			return "", err
		}
		b.WriteString(start)
		for i, rel := range p.Rels {
			relStr, err := c.compileRel(rel)
			if err != nil {
				return "", err
			}
			node, err := c.compileNode(p.Nodes[i+1])
			if err != nil {
				return "", err
			}
			b.WriteString(relStr)
			b.WriteString(node)
		}
		return b.String(), nil

	default:
		return "", fmt.Errorf("unknown pattern type: %T", pattern)
	}
}

func (c *Compiler) compileNode(n NodePattern) (string, error) {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(n.Variable)
	for _, label := range n.Labels {
		b.WriteString(":")
		b.WriteString(QuoteIdentifier(label))
	}
	props, err := c.compileProperties(n.Properties)
	if err != nil {
		return "", err
	}
	if props != "" {
		if n.Variable != "" || len(n.Labels) > 0 {
			b.WriteString(" ")
		}
		b.WriteString(props)
	}
	b.WriteString(")")
	return b.String(), nil
}

func (c *Compiler) compileRel(r RelPattern) (string, error) {
	var b strings.Builder
	b.WriteString(r.Variable)
	for i, t := range r.Types {
		if i == 0 {
			b.WriteString(":")
		} else {
			b.WriteString("|")
		}
		b.WriteString(QuoteIdentifier(t))
	}
	if r.VarLength {
		b.WriteString("*")
		if r.MinHops > 0 {
			fmt.Fprintf(&b, "%d", r.MinHops)
		}
		if r.MinHops > 0 || r.MaxHops > 0 {
			b.WriteString("..")
		}
		if r.MaxHops > 0 {
			fmt.Fprintf(&b, "%d", r.MaxHops)
		}
	}
	props, err := c.compileProperties(r.Properties)
	if err != nil {
		return "", err
	}
	if props != "" {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(props)
	}
	inner := "[" + b.String() + "]"
	switch r.Direction {
	case Incoming:
		return "<-" + inner + "-", nil
	case Undirected:
		return "-" + inner + "-", nil
	default:
		return "-" + inner + "->", nil
	}
}

func (c *Compiler) compileProperties(props []Property) (string, error) {
	if len(props) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(props))
	for _, p := range props {
		if p.Value == nil {
			return "", fmt.Errorf("property %s has no value", p.Name)
		}
		value, err := c.compileExpr(p.Value)
		if err != nil {
			return "", err
		}
		parts = append(parts, QuoteIdentifier(p.Name)+": "+value)
	}
	return "{" + strings.Join(parts, ", ") + "}", nil
}

// --- Expressions ---

// comparisonOps are the binary operators compiled without surrounding
// parentheses. Logical and arithmetic operators are parenthesized so
// nested expressions keep their grouping.
var comparisonOps = map[string]bool{
	"=": true, "<>": true, "<": true, "<=": true, ">": true, ">=": true,
	"IN": true, "CONTAINS": true, "STARTS WITH": true, "ENDS WITH": true,
	"=~": true,
}

func (c *Compiler) compileExpr(expr Expr) (string, error) {
	switch e := expr.(type) {
	case Variable:
		return e.Name, nil

	case PropertyRef:
		return e.Variable + "." + QuoteIdentifier(e.Name), nil

	case Literal:
		return formatGoValue(e.Val)

	case ParamRef:
		return "$" + e.Name, nil

	case BinaryExpr:
		if e.Left == nil || e.Right == nil {
			return "", fmt.Errorf("binary expression with operator %q has a nil operand", e.Operator)
		}
		left, err := c.compileExpr(e.Left)
		if err != nil {
			return "", err
		}
		right, err := c.compileExpr(e.Right)
		if err != nil {
			return "", err
		}
		if comparisonOps[e.Operator] {
			return fmt.Sprintf("%s %s %s", left, e.Operator, right), nil
		}
		return fmt.Sprintf("(%s %s %s)", left, e.Operator, right), nil

	case NotExpr:
		if e.Operand == nil {
			return "", fmt.Errorf("not expression has a nil operand")
		}
		inner, err := c.compileExpr(e.Operand)
		if err != nil {
			return "", err
		}
		return "NOT (" + inner + ")", nil

	case IsNullExpr:
		if e.Operand == nil {
			return "", fmt.Errorf("is null expression has a nil operand")
		}
		inner, err := c.compileExpr(e.Operand)
		if err != nil {
			return "", err
		}
		if e.Negated {
			return inner + " IS NOT NULL", nil
		}
		return inner + " IS NULL", nil

	case FunctionCall:
		if e.Star {
			return e.Name + "(*)", nil
		}
		args := make([]string, 0, len(e.Args))
		for _, a := range e.Args {
			s, err := c.compileExpr(a)
			if err != nil {
				return "", err
			}
			args = append(args, s)
		}
		if e.Distinct {
			return e.Name + "(DISTINCT " + strings.Join(args, ", ") + ")", nil
		}
		return e.Name + "(" + strings.Join(args, ", ") + ")", nil

	case ListExpr:
		items := make([]string, 0, len(e.Items))
		for _, item := range e.Items {
			s, err := c.compileExpr(item)
			if err != nil {
				return "", err
			}
			items = append(items, s)
		}
		return "[" + strings.Join(items, ", ") + "]", nil

	case MapExpr:
		if len(e.Keys) != len(e.Values) {
			return "", fmt.Errorf("map expression has %d keys and %d values", len(e.Keys), len(e.Values))
		}
		parts := make([]string, 0, len(e.Keys))
		for i, k := range e.Keys {
			v, err := c.compileExpr(e.Values[i])
			if err != nil {
				return "", err
			}
			parts = append(parts, QuoteIdentifier(k)+": "+v)
		}
		return "{" + strings.Join(parts, ", ") + "}", nil

	case RawExpr:
		return e.Content, nil

	default:
		return "", fmt.Errorf("unknown expression type: %T", expr)
	}
}

// --- Formatting ---

var plainIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// QuoteIdentifier wraps an identifier in backticks when it is not a plain
// identifier (letters, digits and underscores, not starting with a digit).
func QuoteIdentifier(name string) string {
	if plainIdent.MatchString(name) {
		return name
	}
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// EscapeString escapes special characters in a string for use in Cypher
// string literals. It handles backslashes, quotes, newlines, carriage
// returns, and tabs.
func EscapeString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\r", `\r`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	return s
}

// FormatGoValue converts a Go value into its Cypher literal string
// representation. It handles the primitive types plus time.Time (DATE or
// TIMESTAMP), time.Duration (INTERVAL), uuid.UUID (UUID), []byte (BLOB),
// slices (list literals) and string-keyed maps (struct literals, keys
// sorted). This is the canonical formatting function for Go values; other
// packages should use this instead of implementing their own.
// Unsupported values render as a quoted string; the compiler uses
// formatGoValue instead, which reports them as errors.
func FormatGoValue(value any) string {
	s, err := formatGoValue(value)
	if err != nil {
		return `"` + EscapeString(fmt.Sprintf("%v", value)) + `"`
	}
	return s
}

// formatGoValue is the erroring form of FormatGoValue. Values with no
// Cypher literal representation return an error naming the Go type.
func formatGoValue(value any) (string, error) {
	if value == nil {
		return "NULL", nil
	}

	switch val := value.(type) {
	case string:
		return `"` + EscapeString(val) + `"`, nil
	case bool:
		if val {
			return "true", nil
		}
		return "false", nil
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", val), nil
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val), nil
	case float32, float64:
		return fmt.Sprintf("%v", val), nil
	case time.Time:
		return formatTime(val), nil
	case time.Duration:
		return `INTERVAL("` + FormatInterval(val) + `")`, nil
	case uuid.UUID:
		return `UUID("` + val.String() + `")`, nil
	case []byte:
		return formatBlob(val), nil
	}

	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return "NULL", nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]string, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			item, err := formatGoValue(v.Index(i).Interface())
			if err != nil {
				return "", err
			}
			items = append(items, item)
		}
		return "[" + strings.Join(items, ", ") + "]", nil
	case reflect.Map:
		if v.Type().Key().Kind() == reflect.String {
			keys := make([]string, 0, v.Len())
			for _, k := range v.MapKeys() {
				keys = append(keys, k.String())
			}
			sort.Strings(keys)
			parts := make([]string, 0, len(keys))
			for _, k := range keys {
				elem := v.MapIndex(reflect.ValueOf(k).Convert(v.Type().Key()))
				s, err := formatGoValue(elem.Interface())
				if err != nil {
					return "", err
				}
				parts = append(parts, QuoteIdentifier(k)+": "+s)
			}
			return "{" + strings.Join(parts, ", ") + "}", nil
		}
	case reflect.String:
		return `"` + EscapeString(v.String()) + `"`, nil
	case reflect.Bool:
		return formatGoValue(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprintf("%d", v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fmt.Sprintf("%d", v.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%v", v.Float()), nil
	}

	return "", fmt.Errorf("cannot format %T as a Cypher literal", value)
}

func formatTime(t time.Time) string {
	// Midnight without sub-day components formats as a date literal.
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return `DATE("` + t.Format("2006-01-02") + `")`
	}
	if t.Location() == time.UTC {
		return `TIMESTAMP("` + t.Format("2006-01-02 15:04:05.999999") + `")`
	}
	return `TIMESTAMP("` + t.Format("2006-01-02 15:04:05.999999-07:00") + `")`
}

// FormatInterval renders a duration as an interval string with day, hour,
// minute, second and microsecond components (e.g. "1 days 2 hours").
// Sub-microsecond precision is truncated.
func FormatInterval(d time.Duration) string {
	if d == 0 {
		return "0 microseconds"
	}
	// Each component carries the sign so negative durations sum correctly.
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second
	d -= seconds * time.Second
	micros := d / time.Microsecond

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%s%d days", sign, days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%s%d hours", sign, hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%s%d minutes", sign, minutes))
	}
	if seconds > 0 {
		parts = append(parts, fmt.Sprintf("%s%d seconds", sign, seconds))
	}
	if micros > 0 {
		parts = append(parts, fmt.Sprintf("%s%d microseconds", sign, micros))
	}
	return strings.Join(parts, " ")
}

func formatBlob(b []byte) string {
	var sb strings.Builder
	sb.WriteString(`BLOB('`)
	for _, by := range b {
		fmt.Fprintf(&sb, `\x%02X`, by)
	}
	sb.WriteString(`')`)
	return sb.String()
}
