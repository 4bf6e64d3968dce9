package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. App satisfies it.
type execIface interface {
	isLoggedIn() bool
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	GoogleLogin(ctx context.Context) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	Deactivate(ctx context.Context) error
	Send(ctx context.Context, text string) error
	Threads(ctx context.Context) error
	Open(ctx context.Context, id string) error
	NewThread(ctx context.Context) error
	DeleteThread(ctx context.Context, id string) error
}

// runREPL reads commands from reader until EOF, "exit" or "quit".
//
//	Not logged in:
//	  help, signup, login, google, exit | quit
//
//	Logged in:
//	  help
//	  send <text> | s <text>  send a message; without text, read several lines
//	  threads | ls            list conversations and storage usage
//	  open <id>               switch to a conversation and print it
//	  new                     start a new conversation with the next message
//	  rm [id]                 delete a conversation (current one by default)
//	  me                      show the account
//	  passwd                  change password
//	  deactivate              deactivate the account
//	  logout                  revoke every session
//	  exit | quit
//
// Handler errors are ignored here; handlers report them to the user.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("ja %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)
		if cmd == "" {
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (s)end, threads, open, new, rm, me, passwd, deactivate, logout, exit")
			} else {
				printlnFn("Available commands: signup, login, google, exit")
			}
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		case "signup":
			_ = a.Signup(ctx)
			continue
		case "login":
			_ = a.Login(ctx)
			continue
		case "google":
			_ = a.GoogleLogin(ctx)
			continue
		}

		if !a.isLoggedIn() {
			switch cmd {
			case "send", "s", "threads", "ls", "open", "new", "rm", "me", "passwd", "deactivate", "logout":
				printlnFn("Please log in first")
			default:
				printlnFn("Unknown command:", cmd)
			}
			continue
		}

		switch cmd {
		case "send", "s":
			_ = a.Send(ctx, rest)
		case "threads", "ls":
			_ = a.Threads(ctx)
		case "open":
			_ = a.Open(ctx, rest)
		case "new":
			_ = a.NewThread(ctx)
		case "rm":
			_ = a.DeleteThread(ctx, rest)
		case "me":
			_ = a.Me(ctx)
		case "passwd":
			_ = a.ChangePassword(ctx)
		case "deactivate":
			_ = a.Deactivate(ctx)
		case "logout":
			_ = a.Logout(ctx)
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
