// Package integrationtest provides server helpers used in end-to-end tests.
package integrationtest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-petr/basic-bank/cmd/httpserver"
	"github.com/go-petr/basic-bank/internal/middleware"
	"github.com/go-petr/basic-bank/pkg/configpkg"
	"github.com/go-petr/basic-bank/pkg/dbpkg"
	"github.com/go-petr/basic-bank/pkg/tokenpkg"
	"github.com/rs/zerolog"
)

// Config returns the configuration of a seeded in-memory server.
func Config() configpkg.Config {
	return configpkg.Config{
		DBDriver:            dbpkg.DriverSQLite,
		DBSource:            ":memory:",
		TokenType:           tokenpkg.TypePaseto,
		TokenSymmetricKey:   "12345678901234567890123456789012",
		AccessTokenDuration: 15 * time.Minute,
		LoginUsername:       "testuser",
		LoginPassword:       "password123",
		SeedAccounts:        true,
		KafkaTopic:          "transfer_recorded",
	}
}

// SetupServer returns a server backed by its own seeded in-memory database.
func SetupServer(t *testing.T) *httpserver.Server {
	t.Helper()

	config := Config()
	logger := zerolog.Nop()

	db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		t.Fatalf("dbpkg.Setup(%q, %q) returned error: %v", config.DBDriver, config.DBSource, err)
	}

	if err := dbpkg.Migrate(context.Background(), db, config.DBDriver); err != nil {
		t.Fatalf("dbpkg.Migrate() returned error: %v", err)
	}

	server, err := httpserver.New(db, logger, config)
	if err != nil {
		t.Fatalf(`httpserver.New(db, logger, config) returned error: %v`, err)
	}

	t.Cleanup(func() {
		if err := server.Close(); err != nil {
			t.Errorf("server.Close() returned error: %v", err)
		}

		if err := db.Close(); err != nil {
			t.Errorf("db.Close() returned error: %v", err)
		}
	})

	return server
}

// Do sends a request with a JSON body to the server. A non-empty token is sent as bearer token.
func Do(t *testing.T, server http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer

	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Encoding request body error: %v", err)
		}
	}

	req, err := http.NewRequest(method, path, &buf)
	if err != nil {
		t.Fatalf("http.NewRequest(%s, %s) returned error: %v", method, path, err)
	}

	if token != "" {
		req.Header.Set(middleware.AuthHeaderKey, middleware.AuthTypeBearer+" "+token)
	}

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	return recorder
}

// Login logs in with the configured credentials and returns the access token.
func Login(t *testing.T, server *httpserver.Server) string {
	t.Helper()

	recorder := Do(t, server, http.MethodPost, "/users/login", map[string]string{
		"username": server.Config.LoginUsername,
		"password": server.Config.LoginPassword,
	}, "")

	if recorder.Code != http.StatusOK {
		t.Fatalf("login: status %d, body %s", recorder.Code, recorder.Body.String())
	}

	var res struct {
		AccessToken string `json:"access_token"`
	}

	if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
		t.Fatalf("Decoding login response error: %v", err)
	}

	return res.AccessToken
}
