package client

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

// TokenEnvVar holds a bearer token when no session file is used.
const TokenEnvVar = "FRONTIER_TOKEN"

// TokenSource supplies the bearer token. Implementations are read-only from the client's view.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a fixed token.
type StaticToken string

func (t StaticToken) Token() (string, error) { return string(t), nil }

// EnvToken reads the token from an environment variable on every call.
type EnvToken string

func (name EnvToken) Token() (string, error) {
	return strings.TrimSpace(os.Getenv(string(name))), nil
}

// FileTokenSource reads the token saved by `login`. A missing file is an empty token.
type FileTokenSource struct {
	Path string
}

// DefaultSessionFile returns `<user config dir>/frontier/session`.
func DefaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "frontier", "session")
}

func NewFileTokenSource(path string) *FileTokenSource {
	if path == "" {
		path = DefaultSessionFile()
	}
	return &FileTokenSource{Path: path}
}

func (fts *FileTokenSource) Token() (string, error) {
	data, err := ioutil.ReadFile(fts.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrap(err, "reading session file")
	}
	return strings.TrimSpace(string(data)), nil
}

// Save stores the token, readable by the current user only.
func (fts *FileTokenSource) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(fts.Path), 0700); err != nil {
		return errors.Wrap(err, "creating session dir")
	}
	if err := ioutil.WriteFile(fts.Path, []byte(token+"\n"), 0600); err != nil {
		return errors.Wrap(err, "writing session file")
	}
	return nil
}

// Clear removes the session file.
func (fts *FileTokenSource) Clear() error {
	if err := os.Remove(fts.Path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing session file")
	}
	return nil
}

// TokenExpiry reads the `exp` claim without verifying the signature: the backend verifies.
func TokenExpiry(token string) (time.Time, bool) {
	claims := new(jwt.StandardClaims)
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == 0 {
		return time.Time{}, false
	}
	return time.Unix(claims.ExpiresAt, 0), true
}
