package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
)

// resultSet is one query result ready for printing.
type resultSet struct {
	Columns []string
	Rows    [][]any
}

// renderTable prints the result as an aligned table with a header row.
func renderTable(w io.Writer, rs resultSet) error {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)

	for i, col := range rs.Columns {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, col)
	}
	fmt.Fprintln(tw)

	for _, row := range rs.Rows {
		for i, v := range row {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, formatCell(v))
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "(%d %s)\n", len(rs.Rows), plural("row", len(rs.Rows)))
	return err
}

// renderJSON prints the result as an indented JSON array of objects
// keyed by column name.
func renderJSON(w io.Writer, rs resultSet) error {
	out := make([]map[string]any, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		obj := make(map[string]any, len(rs.Columns))
		for i, col := range rs.Columns {
			if i < len(row) {
				obj[col] = jsonCell(row[i])
			}
		}
		out = append(out, obj)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// formatCell renders one value for table output.
func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return x.Format(time.RFC3339)
	case time.Duration:
		return x.String()
	case []byte:
		return fmt.Sprintf("\\x%x", x)
	case fmt.Stringer:
		return x.String()
	case map[string]any, []any:
		blob, err := json.Marshal(jsonCell(x))
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(blob)
	default:
		return fmt.Sprint(x)
	}
}

// jsonCell rewrites values that encoding/json cannot represent.
func jsonCell(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = jsonCell(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[fmt.Sprint(k)] = jsonCell(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = jsonCell(val)
		}
		return out
	case time.Time:
		return x.Format(time.RFC3339)
	case time.Duration:
		return x.String()
	case []byte:
		return fmt.Sprintf("\\x%x", x)
	case *big.Int:
		return x.String()
	case uuid.UUID:
		return x.String()
	case fmt.Stringer:
		return x.String()
	default:
		return v
	}
}

func plural(noun string, n int) string {
	if n == 1 {
		return noun
	}
	return noun + "s"
}
