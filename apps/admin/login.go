package main

import (
	"context"
	"fmt"
	"syscall"

	"github.com/pkg/errors"

	"github.com/Dahire100/FrontierLMS-sub005/client"
)

const loginEndpoint = "/api/auth/login"

var errNoToken = errors.New("login response carries no token")

func (cli *commandLine) login(ctx context.Context, args []string) error {
	loginCmd := cli.newFlagSet("login")
	uname := loginCmd.String("username", "", "The admin username. The password will be prompted next.")

	if err := parse(loginCmd, args); err != nil {
		return err
	}
	if *uname == "" {
		loginCmd.Usage()
		return errHelp
	}
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return err
	}
	if len(pwd) == 0 {
		loginCmd.Usage()
		return errHelp
	}

	resp, err := cli.api.Post(ctx, loginEndpoint, map[string]string{"username": *uname, "password": string(pwd)})
	if err != nil {
		return errors.Wrap(err, "logging in")
	}
	token := resp.String("token")
	if token == "" {
		return errNoToken
	}
	if err = cli.session.Save(token); err != nil {
		return err
	}

	if exp, ok := client.TokenExpiry(token); ok {
		fmt.Fprintf(cli.out, "Logged in as %s until %s\n", *uname, exp.Format("2006-01-02 15:04"))
	} else {
		fmt.Fprintf(cli.out, "Logged in as %s\n", *uname)
	}
	return nil
}
