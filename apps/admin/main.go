package main

import (
	"bufio"
	"fmt"
	"net/http"
	"os"

	"github.com/Dahire100/FrontierLMS-sub005/client"
	"github.com/Dahire100/FrontierLMS-sub005/core"
	"github.com/Dahire100/FrontierLMS-sub005/resources"
	emailsvc "github.com/Dahire100/FrontierLMS-sub005/services/email"
	logsvc "github.com/Dahire100/FrontierLMS-sub005/services/logger"
)

func main() {
	conf, err := core.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}
	logger := logsvc.New("ADMIN : ", conf)

	catalog := resources.Default()
	if conf.Catalog.File != "" {
		if err = catalog.LoadOverrides(conf.Catalog.File); err != nil {
			logger.Fatal(fmt.Sprintf("loading catalog overrides: %v", err), err)
		}
	}

	session := client.NewFileTokenSource(conf.Session.File)
	var tokens client.TokenSource = session
	if conf.Session.Token != "" {
		tokens = client.StaticToken(conf.Session.Token)
	}
	httpClient := &http.Client{Timeout: conf.API.Timeout}

	// start CLI
	cli := commandLine{
		conf:    conf,
		logger:  logger,
		catalog: catalog,
		api:     client.New(conf.API.URL, client.WithHTTPClient(httpClient), client.WithTokenSource(tokens), client.WithLogger(logger)),
		session: session,
		mailer:  emailsvc.New(conf, logger),
		in:      bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}
	err = cli.run(os.Args)

	// let background mail and error reports finish before exiting
	cli.mailer.Wait()
	logsvc.Flush()

	if err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
