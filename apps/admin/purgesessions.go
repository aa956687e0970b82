package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) purgeSessions() error {
	if cli.store == nil {
		return errNoDatabase
	}

	n, err := cli.store.PurgeExpired(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("purged %d expired session(s)\n", n)
	return nil
}
