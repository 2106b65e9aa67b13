package logsvc

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Dahire100/FrontierLMS-sub005/core"
)

func TestConsoleLogger(t *testing.T) {
	tests := []struct {
		name    string
		debug   bool
		log     func(l core.Logger)
		want    []string
		notWant []string
	}{
		{
			name: "info with args",
			log:  func(l core.Logger) { l.Info("loaded", map[string]interface{}{"count": 2}) },
			want: []string{"INFO loaded", "map[count:2]"},
		},
		{
			name: "error",
			log:  func(l core.Logger) { l.Error("Failed to load students", errors.New("http 500")) },
			want: []string{"ERROR Failed to load students", "http 500"},
		},
		{
			name:    "person is not printed",
			log:     func(l core.Logger) { l.Warn("denied", Person{ID: "1", Username: "admin"}) },
			want:    []string{"WARN denied"},
			notWant: []string{"admin"},
		},
		{name: "debug disabled", log: func(l core.Logger) { l.Debug("noisy") }, notWant: []string{"noisy"}},
		{name: "debug enabled", debug: true, log: func(l core.Logger) { l.Debug("noisy") }, want: []string{"DEBUG noisy"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewConsoleLogger(log.New(&buf, "", 0), tt.debug))
			for _, s := range tt.want {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tt.notWant {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}

func TestNew(t *testing.T) {
	_, ok := New("TEST : ", &core.Config{}).(*ConsoleLogger)
	assert.True(t, ok, "console without a rollbar token")

	_, ok = New("TEST : ", &core.Config{RollbarToken: "tok", TestMode: true}).(*ConsoleLogger)
	assert.True(t, ok, "never rollbar in test mode")

	rl, ok := New("TEST : ", &core.Config{RollbarToken: "tok", Env: "QA"}).(*RollbarLogger)
	if assert.True(t, ok) {
		rl.Enable(false)
	}
}
