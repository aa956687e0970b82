package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/walimu/walimu/apps/api/echo"
	"github.com/walimu/walimu/core"
	"github.com/walimu/walimu/core/session"
	emailsvc "github.com/walimu/walimu/services/email"
	logsvc "github.com/walimu/walimu/services/logger"
	"github.com/walimu/walimu/services/marketplace"
	placesvc "github.com/walimu/walimu/services/places"
	"github.com/walimu/walimu/services/telemetry"
	"github.com/walimu/walimu/storage/database"
	inmemstore "github.com/walimu/walimu/storage/sessionstore/inmem"
	pgstore "github.com/walimu/walimu/storage/sessionstore/postgres"
	redisstore "github.com/walimu/walimu/storage/sessionstore/redis"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "PORTAL : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	shutdownTracing := telemetry.Setup(conf.AppName)
	defer func() { _ = shutdownTracing(context.Background()) }()

	// set up the session store
	store, closeStore, err := setUpStore(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up session store: %v", err), err)
	}
	defer closeStore()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	market := marketplace.NewClient(conf)
	places := placesvc.NewService(conf)
	sessSvc := session.NewService(store, market, mailSvc, conf, logger)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	session.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start Portal Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			SessSvc:    sessSvc,
			Market:     market,
			Places:     places,
			Validate:   validate,
			Translator: translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

// setUpStore builds the session store named by sessionEngine. The postgres
// engine owns its table and migrates it on boot; redis and inmem need no
// schema.
func setUpStore(conf *core.Config) (session.Store, func(), error) {
	noop := func() {}

	switch conf.Session.Engine {
	case "redis":
		store := redisstore.New(conf)
		if err := store.Ping(context.Background()); err != nil {
			return nil, noop, err
		}
		return store, noop, nil

	case "postgres":
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, noop, err
		}
		db, err := database.Open(conf)
		if err != nil {
			return nil, noop, err
		}
		if err = database.Migrate(db); err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return pgstore.New(db, conf), func() { _ = db.Close() }, nil

	default:
		return inmemstore.New(), noop, nil
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
