package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walimu/walimu/core"
	"github.com/walimu/walimu/services/marketplace"
)

func TestMain(m *testing.M) {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags)
	os.Exit(m.Run())
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	pwd        string
}

func runCases(t *testing.T, cli *commandLine, tests []cliTest) {
	t.Helper()
	for _, tt := range tests {
		readPasswordFunc = func(int) ([]byte, error) { return []byte(tt.pwd), nil }

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(append([]string{"admin"}, tt.args...))
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantErrStr != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrStr)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func Test_commandLine_migrate(t *testing.T) {
	db, err := sql.Open("postgres", "host=localhost sslmode=disable")
	require.NoError(t, err) // no connection is made until the pool is used
	cli := &commandLine{db: db}

	gooseRunFunc = func(command string, _ *sql.DB, _ string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version":
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s requires a VERSION", command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create requires a NAME")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	runCases(t, cli, []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: `"lol": no such command`},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to requires a VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "create", args: []string{"migrate", "create", "sessions", "sql"}},
	})

	t.Run("without a database", func(t *testing.T) {
		nodb := &commandLine{}
		assert.Equal(t, errNoDatabase, nodb.run([]string{"admin", "migrate", "up"}))
	})
}

func Test_commandLine_purgeSessions(t *testing.T) {
	cli := &commandLine{}
	assert.Equal(t, errNoDatabase, cli.run([]string{"admin", "purgesessions"}))
}

func Test_commandLine_login(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"tok","user":{"email":"a@b.cd","full_name":"A B","user_type":"admin"}}`))
	}))
	defer ts.Close()

	cli := &commandLine{
		conf:   &core.Config{},
		market: marketplace.NewClientForURL(ts.URL),
	}

	runCases(t, cli, []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "missing email", args: []string{"login"}, wantErr: errHelp},
		{name: "empty password", args: []string{"login", "-email", "a@b.cd"}, wantErr: errHelp},
		{name: "bad password", args: []string{"login", "-email", "a@b.cd"}, pwd: "nope", wantErrStr: "Invalid credentials"},
		{name: "ok", args: []string{"login", "-email", "a@b.cd"}, pwd: "secret"},
	})
}
