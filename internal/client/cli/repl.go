package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	List(ctx context.Context, sortBy string) error
	Admin(ctx context.Context) error
	Search(ctx context.Context, text string) error
	Get(ctx context.Context, id string) error
	SharedWith(ctx context.Context, id string) error
	Share(ctx context.Context, id string) error
	Private(ctx context.Context, id string) error
	Grant(ctx context.Context, id, user string) error
	Revoke(ctx context.Context, id, user string) error
	Delete(ctx context.Context, id string) error
	Folders(ctx context.Context) error
	Mkdir(ctx context.Context, name string) error
	Refresh(ctx context.Context) error
	Watch(ctx context.Context, prefix string) error
}

// runREPL starts a simple read–eval–print loop over the local registry.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are printed here so a failed
// mutation never kills the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("reg %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		var err error

		switch cmd {
		case "help":
			printlnFn("Available commands: list [name|size|date|downloads], admin, search <text>, get <id>,")
			printlnFn("  shared <id>, share <id>, private <id>, grant <id> <user>, revoke <id> <user>,")
			printlnFn("  delete <id>, folders, mkdir <name>, refresh, watch <mime-prefix>, exit")

		case "l", "list":
			sortBy := ""
			if len(args) > 0 {
				sortBy = args[0]
			}
			err = a.List(ctx, sortBy)

		case "admin":
			err = a.Admin(ctx)

		case "search":
			if len(args) == 0 {
				printlnFn("Usage: search <text>")
				continue
			}
			err = a.Search(ctx, strings.Join(args, " "))

		case "get":
			if len(args) == 0 {
				printlnFn("Usage: get <id>")
				continue
			}
			err = a.Get(ctx, args[0])

		case "shared":
			if len(args) == 0 {
				printlnFn("Usage: shared <id>")
				continue
			}
			err = a.SharedWith(ctx, args[0])

		case "share":
			if len(args) == 0 {
				printlnFn("Usage: share <id>")
				continue
			}
			err = a.Share(ctx, args[0])

		case "private":
			if len(args) == 0 {
				printlnFn("Usage: private <id>")
				continue
			}
			err = a.Private(ctx, args[0])

		case "grant":
			if len(args) < 2 {
				printlnFn("Usage: grant <id> <user>")
				continue
			}
			err = a.Grant(ctx, args[0], args[1])

		case "revoke":
			if len(args) < 2 {
				printlnFn("Usage: revoke <id> <user>")
				continue
			}
			err = a.Revoke(ctx, args[0], args[1])

		case "delete":
			if len(args) == 0 {
				printlnFn("Usage: delete <id>")
				continue
			}
			err = a.Delete(ctx, args[0])

		case "folders":
			err = a.Folders(ctx)

		case "mkdir":
			if len(args) == 0 {
				printlnFn("Usage: mkdir <name>")
				continue
			}
			err = a.Mkdir(ctx, strings.Join(args, " "))

		case "refresh":
			err = a.Refresh(ctx)

		case "watch":
			if len(args) == 0 {
				printlnFn("Usage: watch <mime-prefix>")
				continue
			}
			err = a.Watch(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err.Error())
		}
	}
}
