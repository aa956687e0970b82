package main

import (
	"log"
	"os"

	"github.com/walimu/walimu/core"
	"github.com/walimu/walimu/services/marketplace"
	"github.com/walimu/walimu/storage/database"
	pgstore "github.com/walimu/walimu/storage/sessionstore/postgres"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	cli := commandLine{
		conf:   conf,
		market: marketplace.NewClient(conf),
	}

	// the DB-backed commands only apply to the postgres session engine
	if conf.Session.Engine == "postgres" {
		db, err := database.Open(conf)
		errAndDie(err)
		defer func() { _ = db.Close() }()
		errAndDie(db.Ping())

		cli.db = db
		cli.store = pgstore.New(db, conf)
	}

	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
