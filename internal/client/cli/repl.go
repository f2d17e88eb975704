package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to. The real App
// satisfies it; tests can provide a lightweight stub.
type execIface interface {
	List(ctx context.Context) error
	Add(ctx context.Context) error
	Delete(ctx context.Context, id string) error
	Import(ctx context.Context, path string) error
	Export(ctx context.Context, path string) error
	Pending(ctx context.Context) error
	Status(ctx context.Context) error
}

const helpText = "Available commands: (l)ist, add, delete <id>, import <file>, export <file>, pending, status, exit"

// runREPL reads commands line by line from reader and dispatches them to a.
// The prompt, showing statusFn, is printed only when prompt is true. The
// loop ends on EOF, on "exit" or "quit", or when ctx is cancelled.
//
// Handler errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer, prompt bool) {
	for {
		if ctx.Err() != nil {
			return
		}
		if prompt {
			fmt.Fprintf(w, "gj %s> ", statusFn())
		}

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			fmt.Fprintln(w, helpText)

		case "l", "list":
			cmdErr = a.List(ctx)

		case "add":
			cmdErr = a.Add(ctx)

		case "delete", "rm":
			if len(args) != 1 {
				fmt.Fprintln(w, "Usage: delete <id>")
				continue
			}
			cmdErr = a.Delete(ctx, args[0])

		case "import":
			if len(args) != 1 {
				fmt.Fprintln(w, "Usage: import <file.json|file.yaml>")
				continue
			}
			cmdErr = a.Import(ctx, args[0])

		case "export":
			if len(args) != 1 {
				fmt.Fprintln(w, "Usage: export <file.json|file.yaml>")
				continue
			}
			cmdErr = a.Export(ctx, args[0])

		case "pending":
			cmdErr = a.Pending(ctx)

		case "status":
			cmdErr = a.Status(ctx)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(w, "Error:", cmdErr)
		}
	}
}
