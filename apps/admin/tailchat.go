package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/walimu/walimu/services/marketplace"
)

// tailChat follows a chat from the terminal, printing new messages as they
// arrive. Ctrl-C stops the poller.
func (cli *commandLine) tailChat(email, pwd, chatID string, every time.Duration) error {
	res, err := cli.market.Login(context.Background(), email, pwd, "")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		cancel()
	}()

	var seen int
	poller := marketplace.NewMessagePoller(cli.market, every)
	poller.Run(ctx, res.Token, chatID, func(msgs []marketplace.Message, err error) {
		if err != nil {
			logger.Printf("fetch failed: %v", err)
			return
		}
		if len(msgs) < seen {
			seen = 0
		}
		for _, msg := range msgs[seen:] {
			fmt.Printf("[%s] %s: %s\n", msg.SentAt.Format("15:04:05"), msg.Sender, msg.Body)
		}
		seen = len(msgs)
	})
	return nil
}
