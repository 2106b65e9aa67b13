package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/term"

	"github.com/Dahire100/FrontierLMS-sub005/client"
	"github.com/Dahire100/FrontierLMS-sub005/core"
	"github.com/Dahire100/FrontierLMS-sub005/resources"
	"github.com/Dahire100/FrontierLMS-sub005/store"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf    *core.Config
	logger  core.Logger
	catalog *resources.Catalog
	api     *client.Client
	session *client.FileTokenSource
	mailer  core.EmailService
	in      *bufio.Reader // answers to confirmation prompts
	out     io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  resources - list the known resources")
	fmt.Fprintln(cli.out, "  list -r RESOURCE [-f key=value ...] [-search TEXT] [-page N] [-size N] - show a page of records")
	fmt.Fprintln(cli.out, "  create -r RESOURCE key=value ... - create a record")
	fmt.Fprintln(cli.out, "  update -r RESOURCE -id ID key=value ... - update a record")
	fmt.Fprintln(cli.out, "  delete -r RESOURCE -id ID [-yes] - delete a record")
	fmt.Fprintln(cli.out, "  export -r RESOURCE -o FILE.xlsx [-f key=value ...] [-search TEXT] - export records to a spreadsheet")
	fmt.Fprintln(cli.out, "  import -r RESOURCE -i FILE.xlsx - create a record per spreadsheet row")
	fmt.Fprintln(cli.out, "  promote -class C -to C2 [-year Y] [-pass 50] [-promote ID,...] [-retain ID,...] [-yes] [-notify] - promote students")
	fmt.Fprintln(cli.out, "  login -username USERNAME - log in and save the session token")
	fmt.Fprintln(cli.out, "  logout - forget the session token")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command against the postgres database")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	switch args[1] {
	case "resources":
		return cli.listResources()
	case "list":
		return cli.list(ctx, args[2:])
	case "create":
		return cli.create(ctx, args[2:])
	case "update":
		return cli.update(ctx, args[2:])
	case "delete":
		return cli.delete(ctx, args[2:])
	case "export":
		return cli.export(ctx, args[2:])
	case "import":
		return cli.importRows(ctx, args[2:])
	case "promote":
		return cli.promote(ctx, args[2:])
	case "login":
		return cli.login(ctx, args[2:])
	case "logout":
		return cli.session.Clear()
	case "migrate":
		return cli.migrate(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

// parse parses the flags and maps -h to errHelp.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	return nil
}

// resource parses the flag set and looks up its -r resource.
func (cli *commandLine) resource(fs *flag.FlagSet, name *string, args []string) (resources.Definition, error) {
	if err := parse(fs, args); err != nil {
		return resources.Definition{}, err
	}
	if *name == "" {
		fs.Usage()
		return resources.Definition{}, errHelp
	}
	return cli.catalog.Lookup(*name)
}

func (cli *commandLine) newStore(def resources.Definition) *store.Store {
	return def.Store(cli.api, store.WithLogger(cli.logger), store.WithNotifier(printer{cli.out}))
}

// confirm asks a y/N question on cli.in. yes skips the question.
func (cli *commandLine) confirm(yes bool) store.Confirmer {
	return store.ConfirmFunc(func(prompt string) bool {
		if yes {
			return true
		}
		fmt.Fprintf(cli.out, "%s [y/N]: ", prompt)
		answer, err := cli.in.ReadString('\n')
		if err != nil && answer == "" {
			return false
		}
		switch core.CleanString(answer, true) {
		case "y", "yes":
			return true
		}
		return false
	})
}

// printer shows store notifications on the terminal.
type printer struct {
	w io.Writer
}

func (p printer) Success(msg string) { fmt.Fprintln(p.w, msg) }
func (p printer) Error(msg string)   { fmt.Fprintln(p.w, "error: "+msg) }

// pairsFlag collects repeated -f key=value flags.
type pairsFlag map[string]string

func (p pairsFlag) String() string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+p[k])
	}
	return strings.Join(parts, ",")
}

func (p pairsFlag) Set(s string) error {
	key, value, err := splitPair(s)
	if err != nil {
		return err
	}
	p[key] = value
	return nil
}

func (p pairsFlag) filters() client.FilterState {
	fs := make(client.FilterState, len(p))
	for k, v := range p {
		fs[k] = v
	}
	return fs
}

// parsePairs reads the key=value positional args of create and update.
func parsePairs(args []string) (map[string]string, error) {
	values := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, err := splitPair(arg)
		if err != nil {
			return nil, err
		}
		values[key] = value
	}
	return values, nil
}

func splitPair(s string) (string, string, error) {
	i := strings.Index(s, "=")
	if i <= 0 {
		return "", "", fmt.Errorf("%q: expected key=value", s)
	}
	return strings.TrimSpace(s[:i]), s[i+1:], nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
