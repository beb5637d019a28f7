//go:build cgo && kuzu

package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/CaliLuke/go-kuzu/kuzu"
)

type shell struct {
	conn   *kuzu.Connection
	out    io.Writer
	format string
	timer  bool
	logger *zap.Logger
}

func (s *shell) run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	fmt.Fprintf(s.out, "kuzush (engine %s). Type :quit to exit.\n", kuzu.Version())

	for {
		fmt.Fprint(s.out, "kuzu> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ":") {
			quit, err := s.meta(line)
			if err != nil {
				fmt.Fprintf(s.out, "error: %v\n", err)
			}
			if quit {
				return nil
			}
			continue
		}

		if err := s.execute(line); err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
}

// meta handles :commands. It returns true when the shell should exit.
func (s *shell) meta(line string) (bool, error) {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q", ":exit":
		return true, nil
	case ":timer":
		if len(fields) != 2 || (fields[1] != "on" && fields[1] != "off") {
			return false, fmt.Errorf("usage: :timer on|off")
		}
		s.timer = fields[1] == "on"
		fmt.Fprintf(s.out, "timer %s\n", fields[1])
		return false, nil
	case ":tables":
		return false, s.execute("CALL show_tables() RETURN *")
	case ":schema":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: :schema <table>")
		}
		return false, s.execute(fmt.Sprintf("CALL table_info('%s') RETURN *", fields[1]))
	case ":help", ":h":
		fmt.Fprintln(s.out, "meta commands: :tables :schema <tbl> :timer on|off :quit")
		return false, nil
	default:
		return false, fmt.Errorf("unknown command %s (try :help)", fields[0])
	}
}

func (s *shell) execute(query string) error {
	s.logger.Debug("executing", zap.String("query", query))

	start := time.Now()
	res, err := s.conn.Query(query)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	for {
		if err := s.printResult(res); err != nil {
			res.Close()
			return err
		}
		if !res.HasNextResult() {
			break
		}
		next, err := res.NextResult()
		res.Close()
		if err != nil {
			return err
		}
		res = next
	}
	res.Close()

	if s.timer {
		fmt.Fprintf(s.out, "time: %s\n", elapsed.Round(time.Microsecond))
	}
	return nil
}

func (s *shell) printResult(res *kuzu.QueryResult) error {
	rs, err := collectResult(res)
	if err != nil {
		return err
	}
	if s.format == "json" {
		return renderJSON(s.out, rs)
	}
	return renderTable(s.out, rs)
}

// collectResult materializes a query result for printing.
func collectResult(res *kuzu.QueryResult) (resultSet, error) {
	cols, err := res.Columns()
	if err != nil {
		return resultSet{}, err
	}
	rs := resultSet{Columns: cols}

	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return resultSet{}, err
		}
		values, err := tuple.Values()
		tuple.Close()
		if err != nil {
			return resultSet{}, err
		}
		rs.Rows = append(rs.Rows, values)
	}
	return rs, nil
}
