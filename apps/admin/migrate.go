package main

import (
	"github.com/pkg/errors"

	"github.com/Dahire100/FrontierLMS-sub005/storage/database"
)

var (
	openDBFunc = database.Open  // mockable
	gooseFunc  = database.Goose // mockable
)

func (cli *commandLine) migrate(args []string) error {
	if len(args) == 0 {
		cli.printUsage()
		return errHelp
	}
	db, err := openDBFunc(cli.conf)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer db.Close()

	return gooseFunc(db.DB, args[0], args[1:]...)
}
