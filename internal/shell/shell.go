// Package shell implements the interactive read-eval loop over a Backend,
// used by the `open` subcommand for manual inspection.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/PayRpc/dbbench-go/internal/backend"
)

// Run reads lines from in, dispatching help/stat/read/write commands
// against be, and writes output to out. It returns when in reaches EOF.
func Run(in io.Reader, out io.Writer, be backend.Backend) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "help":
			fmt.Fprintln(out, "Commands:")
			fmt.Fprintln(out, "  help                 Show this help message")
			fmt.Fprintln(out, "  stat                 Show database statistics")
			fmt.Fprintln(out, "  read <KEY>           Read the value for the given KEY")
			fmt.Fprintln(out, "  write <KEY> <VALUE>  Write the VALUE for the given KEY")
		case "stat":
			s, ok := be.(backend.Statter)
			if !ok {
				fmt.Fprintln(out, "Error: backend does not support stat")
				continue
			}
			stat, err := s.Stat()
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintln(out, stat)
		case "read":
			if len(fields) < 2 {
				fmt.Fprintln(out, "Usage: read <KEY>")
				continue
			}
			if err := be.Read([]byte(fields[1])); err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintln(out, "OK")
		case "write":
			if len(fields) < 3 {
				fmt.Fprintln(out, "Usage: write <KEY> <VALUE>")
				continue
			}
			if err := be.Write([]byte(fields[1]), []byte(fields[2])); err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintln(out, "OK")
		default:
			fmt.Fprintf(out, "Unknown command %q, type 'help' to see available commands\n", fields[0])
		}
	}
	return scanner.Err()
}
