package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/Dahire100/FrontierLMS-sub005/core"
	"github.com/Dahire100/FrontierLMS-sub005/form"
	"github.com/Dahire100/FrontierLMS-sub005/resources"
	"github.com/Dahire100/FrontierLMS-sub005/store"
	"github.com/Dahire100/FrontierLMS-sub005/table"
)

func (cli *commandLine) listResources() error {
	rows := make([]core.Record, 0)
	for _, def := range cli.catalog.All() {
		rows = append(rows, core.Record{"name": def.Name, "title": def.Title, "endpoint": def.Endpoint})
	}
	view := &table.View{
		Title: "Resources",
		Columns: []table.Column{
			{Key: "name", Label: "Name"},
			{Key: "title", Label: "Title"},
			{Key: "endpoint", Label: "Endpoint"},
		},
		Data:     rows,
		PageSize: len(rows),
	}
	return view.Render(cli.out)
}

func (cli *commandLine) list(ctx context.Context, args []string) error {
	listCmd := cli.newFlagSet("list")
	name := listCmd.String("r", "", "The resource to list.")
	filters := make(pairsFlag)
	listCmd.Var(filters, "f", "A key=value filter. Repeatable.")
	search := listCmd.String("search", "", "Only show rows containing this text.")
	page := listCmd.Int("page", 1, "The page to show.")
	size := listCmd.Int("size", table.DefaultPageSize, "Rows per page.")

	def, err := cli.resource(listCmd, name, args)
	if err != nil {
		return err
	}

	st := cli.newStore(def)
	if err = st.Load(ctx, filters.filters()); err != nil {
		return err
	}
	view := def.View(st.Snapshot())
	view.Search, view.Page, view.PageSize = *search, *page, *size
	return view.Render(cli.out)
}

func (cli *commandLine) create(ctx context.Context, args []string) error {
	createCmd := cli.newFlagSet("create")
	name := createCmd.String("r", "", "The resource to create a record of.")

	def, err := cli.resource(createCmd, name, args)
	if err != nil {
		return err
	}
	values, err := parsePairs(createCmd.Args())
	if err != nil {
		return err
	}

	f := form.New(def.Schema)
	if err = f.SetAll(values); err != nil {
		return err
	}
	rec, err := cli.newStore(def).Create(ctx, f)
	if err != nil {
		return err
	}
	cli.printRecord(def, rec)
	return nil
}

// update edits the record the way the console does: the current values fill the form, the
// given pairs override them and the whole form is submitted.
func (cli *commandLine) update(ctx context.Context, args []string) error {
	updateCmd := cli.newFlagSet("update")
	name := updateCmd.String("r", "", "The resource the record belongs to.")
	id := updateCmd.String("id", "", "The record id.")

	def, err := cli.resource(updateCmd, name, args)
	if err != nil {
		return err
	}
	if *id == "" {
		updateCmd.Usage()
		return errHelp
	}
	values, err := parsePairs(updateCmd.Args())
	if err != nil {
		return err
	}

	st := cli.newStore(def)
	current, err := cli.find(ctx, st, *id)
	if err != nil {
		return err
	}

	f := form.New(def.Schema)
	f.Load(current)
	if err = f.SetAll(values); err != nil {
		return err
	}
	rec, err := st.Update(ctx, *id, f)
	if err != nil {
		return err
	}
	cli.printRecord(def, rec)
	return nil
}

func (cli *commandLine) delete(ctx context.Context, args []string) error {
	deleteCmd := cli.newFlagSet("delete")
	name := deleteCmd.String("r", "", "The resource the record belongs to.")
	id := deleteCmd.String("id", "", "The record id.")
	yes := deleteCmd.Bool("yes", false, "Do not ask for confirmation.")

	def, err := cli.resource(deleteCmd, name, args)
	if err != nil {
		return err
	}
	if *id == "" {
		deleteCmd.Usage()
		return errHelp
	}

	st := cli.newStore(def)
	if _, err = cli.find(ctx, st, *id); err != nil {
		return err
	}
	return st.Remove(ctx, *id, cli.confirm(*yes))
}

func (cli *commandLine) find(ctx context.Context, st *store.Store, id string) (core.Record, error) {
	if err := st.Load(ctx, nil); err != nil {
		return nil, err
	}
	return st.Get(id)
}

func (cli *commandLine) printRecord(def resources.Definition, rec core.Record) {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		label := k
		if f, ok := def.Schema.Field(k); ok {
			label = f.Label
		}
		fmt.Fprintf(cli.out, "%s: %s\n", label, core.FormatValue(rec[k]))
	}
}
