package main

import (
	"context"
	"fmt"
)

// login is a smoke check against the backend: it verifies the credentials and
// prints the resolved profile. No session is stored.
func (cli *commandLine) login(email, pwd string) error {
	res, err := cli.market.Login(context.Background(), email, pwd, "")
	if err != nil {
		return err
	}

	fmt.Printf("authenticated: %s <%s>\n", res.User.FullName, res.User.Email)
	fmt.Printf("role: %s\n", res.User.Role.Name())
	if res.User.BursaryName.Valid {
		fmt.Printf("bursary: %s\n", res.User.BursaryName.String)
	}
	return nil
}
