// Package testutil runs the reference backend in-process for tests.
package testutil

import (
	"context"
	"net/http/httptest"
	"net/mail"
	"testing"
	"time"

	echoapi "github.com/Dahire100/FrontierLMS-sub005/apps/api/echo"
	"github.com/Dahire100/FrontierLMS-sub005/core"
	"github.com/Dahire100/FrontierLMS-sub005/core/collection"
	"github.com/Dahire100/FrontierLMS-sub005/resources"
	"github.com/Dahire100/FrontierLMS-sub005/storage/database/inmem"
)

const (
	AdminUsername = "admin"
	AdminPassword = "s3cret-pwd"
)

// Config returns a test configuration. Nothing is read from the environment.
func Config() *core.Config {
	return &core.Config{
		Env:      "TEST",
		TestMode: true,
		AppName:  "FrontierLMS",
		Build:    "test",
		Server: core.ServerConfig{
			Address:            ":0",
			Host:               "localhost",
			SecretKey:          "test-secret",
			JWTExpirationDelta: 10 * time.Minute,
			AdminUsername:      AdminUsername,
			AdminPassword:      AdminPassword,
			Storage:            "inmem",
		},
		Mail: core.MailConfig{
			DefaultFromEmail: mail.Address{Name: "FrontierLMS", Address: "noreply@localhost"},
		},
	}
}

// NewService returns a record service over a fresh in-memory database.
func NewService(catalog *resources.Catalog) *collection.Service {
	repo := inmemdb.NewRecordRepository(inmemdb.Open())
	return collection.NewService(repo, catalog.Collections()...)
}

// NewServer returns the reference backend for the default catalog.
func NewServer(t *testing.T, conf *core.Config) (echoapi.Server, *collection.Service) {
	t.Helper()
	catalog := resources.Default()
	svc := NewService(catalog)
	srv, err := echoapi.NewServer(echoapi.ServerDeps{
		Conf:           conf,
		Service:        svc,
		Catalog:        catalog,
		DisableReqLogs: true,
	})
	if err != nil {
		t.Fatalf("NewServer(): %v", err)
	}
	t.Cleanup(func() { _ = srv.Close() })
	return srv, svc
}

// Backend is the reference backend listening on a local port.
type Backend struct {
	URL     string
	Token   string
	Conf    *core.Config
	Service *collection.Service
}

// StartBackend serves the reference backend over HTTP until the test ends.
func StartBackend(t *testing.T) *Backend {
	t.Helper()
	conf := Config()
	srv, svc := NewServer(t, conf)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return &Backend{URL: ts.URL, Token: Token(t, conf), Conf: conf, Service: svc}
}

// Token returns a valid admin token.
func Token(t *testing.T, conf *core.Config) string {
	t.Helper()
	token, err := echoapi.GenerateToken(conf.Server.SecretKey, echoapi.NewAdminClaims(conf))
	if err != nil {
		t.Fatalf("Token(): %v", err)
	}
	return token
}

// Seed stores records directly, bypassing HTTP.
func Seed(t *testing.T, svc *collection.Service, name string, recs ...core.Record) []core.Record {
	t.Helper()
	out := make([]core.Record, 0, len(recs))
	for _, rec := range recs {
		created, err := svc.Create(context.Background(), name, rec)
		if err != nil {
			t.Fatalf("Seed(%s): %v", name, err)
		}
		out = append(out, created)
	}
	return out
}
