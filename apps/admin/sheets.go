package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/Dahire100/FrontierLMS-sub005/form"
	"github.com/Dahire100/FrontierLMS-sub005/spreadsheet"
)

func (cli *commandLine) export(ctx context.Context, args []string) error {
	exportCmd := cli.newFlagSet("export")
	name := exportCmd.String("r", "", "The resource to export.")
	output := exportCmd.String("o", "", "The .xlsx file to write.")
	filters := make(pairsFlag)
	exportCmd.Var(filters, "f", "A key=value filter. Repeatable.")
	search := exportCmd.String("search", "", "Only export rows containing this text.")

	def, err := cli.resource(exportCmd, name, args)
	if err != nil {
		return err
	}
	if *output == "" {
		exportCmd.Usage()
		return errHelp
	}

	st := cli.newStore(def)
	if err = st.Load(ctx, filters.filters()); err != nil {
		return err
	}
	view := def.View(st.Snapshot())
	view.Search = *search

	file, err := os.Create(*output)
	if err != nil {
		return errors.Wrap(err, "creating export file")
	}
	if err = spreadsheet.Export(file, view); err != nil {
		_ = file.Close()
		return err
	}
	if err = file.Close(); err != nil {
		return errors.Wrap(err, "closing export file")
	}
	fmt.Fprintf(cli.out, "Exported %d %s to %s\n", len(view.Matches()), def.Title, *output)
	return nil
}

// importRows creates one record per spreadsheet row. Rows are bound and submitted one by one;
// a failing row is reported and the import goes on.
func (cli *commandLine) importRows(ctx context.Context, args []string) error {
	importCmd := cli.newFlagSet("import")
	name := importCmd.String("r", "", "The resource to import into.")
	input := importCmd.String("i", "", "The .xlsx file to read.")

	def, err := cli.resource(importCmd, name, args)
	if err != nil {
		return err
	}
	if *input == "" {
		importCmd.Usage()
		return errHelp
	}

	file, err := os.Open(*input)
	if err != nil {
		return errors.Wrap(err, "opening import file")
	}
	defer file.Close()

	rows, err := spreadsheet.Import(file, def.Schema)
	if err != nil {
		return err
	}

	st := cli.newStore(def)
	var created, failed int
	for i, values := range rows {
		f := form.New(def.Schema)
		if err = f.SetAll(values); err == nil {
			_, err = st.Create(ctx, f)
		}
		if err != nil {
			failed++
			fmt.Fprintf(cli.out, "record %d: %v\n", i+1, err)
			continue
		}
		created++
	}
	fmt.Fprintf(cli.out, "Imported %d %s, %d failed\n", created, def.Title, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d rows failed", failed, len(rows))
	}
	return nil
}
