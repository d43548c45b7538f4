package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/takeuchi-shogo/go-example-pagestore/internal/storage"
)

const (
	PROMPT  = "pagestore> "
	VERSION = "0.1.0"
)

type Repl struct {
	input     io.Reader
	output    io.Writer
	store     storage.PageStore
	name      string
	sessionID uuid.UUID
}

// NewRepl creates a Repl over store. name describes the backing storage in
// the banner and in .info.
func NewRepl(input io.Reader, output io.Writer, store storage.PageStore, name string) *Repl {
	return &Repl{
		input:     input,
		output:    output,
		store:     store,
		name:      name,
		sessionID: uuid.New(),
	}
}

// SessionID returns the identifier of this REPL session.
func (r *Repl) SessionID() uuid.UUID {
	return r.sessionID
}

// Run reads commands until EOF, .exit or SIGINT/SIGTERM.
func (r *Repl) Run() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	r.RunContext(ctx)
}

// RunContext reads commands until EOF, .exit or ctx is done. It always
// returns, leaving the store open for the caller to close.
func (r *Repl) RunContext(ctx context.Context) {
	lines := make(chan string)
	done := make(chan struct{})
	defer close(done)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r.input) // 入力をスキャンする
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()

	r.printWelcome()

	for {
		r.printPrompt()

		select {
		case <-ctx.Done():
			fmt.Fprintln(r.output)
			r.printGoodBye()
			return
		case text, ok := <-lines:
			if !ok {
				return
			}

			line := strings.TrimSpace(text)
			if line == "" {
				continue
			}

			if r.executeCommand(line) {
				return
			}
		}
	}
}

func (r *Repl) printWelcome() {
	fmt.Fprintf(r.output, "Welcome to pagestore v%s\n", VERSION)
	fmt.Fprintf(r.output, "Storage: %s (session %s)\n", r.name, r.sessionID)
	fmt.Fprintln(r.output, "Type \".help\" for usage hints, \".exit\" to quit.")
	fmt.Fprintln(r.output)
}

func (r *Repl) printPrompt() {
	fmt.Fprint(r.output, PROMPT)
}

// executeCommand runs one line and reports whether the REPL should stop.
func (r *Repl) executeCommand(line string) bool {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case ".exit", ".quit":
		r.printGoodBye()
		return true
	case ".help", ".h":
		r.printHelp()
	case ".alloc":
		r.print("%d", r.store.Allocate())
	case ".pages":
		r.print("%d", r.store.NumPages())
	case ".read":
		r.read(rest)
	case ".write":
		r.write(rest)
	case ".sync":
		if err := r.store.Sync(); err != nil {
			r.printError(err)
			return false
		}
		r.print("OK")
	case ".info":
		r.print("storage:   %s", r.name)
		r.print("session:   %s", r.sessionID)
		r.print("page size: %d", storage.PageSize)
		r.print("pages:     %d", r.store.NumPages())
	default:
		r.print("Unknown command: %s", cmd)
	}
	return false
}

func (r *Repl) read(arg string) {
	id, err := parsePageID(arg)
	if err != nil {
		r.printError(err)
		return
	}

	page, err := r.store.ReadPage(id, make([]byte, storage.PageSize))
	if err != nil {
		r.printError(err)
		return
	}
	r.print("%q", bytes.TrimRight(page.Data(), "\x00"))
}

func (r *Repl) write(args string) {
	idArg, text, _ := strings.Cut(args, " ")
	id, err := parsePageID(idArg)
	if err != nil {
		r.printError(err)
		return
	}
	if len(text) > storage.PageSize {
		r.printError(fmt.Errorf("text is %d bytes, a page holds %d", len(text), storage.PageSize))
		return
	}

	// 残りはゼロで埋める
	data := make([]byte, storage.PageSize)
	copy(data, text)
	if err := r.store.WritePage(storage.NewPage(id, data)); err != nil {
		r.printError(err)
		return
	}
	r.print("OK")
}

func parsePageID(s string) (storage.PageID, error) {
	if s == "" {
		return 0, fmt.Errorf("missing page ID")
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid page ID %q", s)
	}
	return storage.PageID(n), nil
}

func (r *Repl) printHelp() {
	r.print("Commands:")
	r.print("  .help, .h          Show this help")
	r.print("  .alloc             Allocate a new page ID")
	r.print("  .pages             Show the next page ID to be allocated")
	r.print("  .read <id>         Print the contents of a page")
	r.print("  .write <id> <text> Write text, zero padded, to a page")
	r.print("  .sync              Flush written pages to disk")
	r.print("  .info              Show storage and session information")
	r.print("  .exit, .quit       Exit the REPL")
	r.print("  Ctrl+C             Exit the REPL")
	r.print("  Ctrl+D             Exit the REPL (EOF)")
}

func (r *Repl) print(s string, args ...interface{}) {
	fmt.Fprintf(r.output, s+"\n", args...)
}

func (r *Repl) printError(err error) {
	fmt.Fprintln(r.output, "Error:", err)
}

var goodbyeMessages = []string{
	"See you later! 👋",
	"Goodbye! Thanks for using pagestore.",
	"Bye! Happy coding!",
}

func (r *Repl) printGoodBye() {
	// NOTE:
	// Go 1.20+ では math/rand の rand.Seed は非推奨。
	// ここではローカルな RNG を作って、終了メッセージの選択だけに利用する。
	randomGenerator := rand.New(rand.NewSource(time.Now().UnixNano()))
	fmt.Fprintln(r.output, goodbyeMessages[randomGenerator.Intn(len(goodbyeMessages))])
}
