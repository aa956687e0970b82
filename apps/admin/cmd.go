package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/walimu/walimu/core"
	"github.com/walimu/walimu/services/marketplace"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp       = errors.New("help provided")
	errNoDatabase = errors.New("this command requires the postgres session engine")
)

type sessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

type commandLine struct {
	conf   *core.Config
	db     *sql.DB
	store  sessionPurger
	market *marketplace.Client
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS]       - run a goose migration command (up, down, status, ...)")
	fmt.Println("  purgesessions                - delete expired sessions from the store")
	fmt.Println("  login -email EMAIL           - verify credentials against the backend")
	fmt.Println("  tailchat -email EMAIL -chat CHAT_ID - follow a chat's messages")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	loginEmail := loginCmd.String("email", "", "The account's email. The password will be prompted next.")

	tailCmd := flag.NewFlagSet("tailchat", flag.ExitOnError)
	tailEmail := tailCmd.String("email", "", "The account's email. The password will be prompted next.")
	tailChatID := tailCmd.String("chat", "", "The chat to follow.")
	tailEvery := tailCmd.Duration("every", 5*time.Second, "Poll interval.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	case "purgesessions":
		return cli.purgeSessions()

	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *loginEmail == "" {
			loginCmd.Usage()
			return errHelp
		}
		pwd, err := promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			loginCmd.Usage()
			return errHelp
		}
		return cli.login(*loginEmail, pwd)

	case "tailchat":
		if err := tailCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *tailEmail == "" || *tailChatID == "" {
			tailCmd.Usage()
			return errHelp
		}
		pwd, err := promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			tailCmd.Usage()
			return errHelp
		}
		return cli.tailChat(*tailEmail, pwd, *tailChatID, *tailEvery)

	default:
		cli.printUsage()
		return errHelp
	}
}

func promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	return string(pwd), err
}
