package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/edumanage/core"
	"github.com/trezcool/edumanage/core/academy"
	"github.com/trezcool/edumanage/core/insight"
	"github.com/trezcool/edumanage/core/session"
	"github.com/trezcool/edumanage/core/user"
	emailsvc "github.com/trezcool/edumanage/services/email"
	logsvc "github.com/trezcool/edumanage/services/logger"
	"github.com/trezcool/edumanage/services/textgen"
	inmemdb "github.com/trezcool/edumanage/storage/inmem"
	kvstore "github.com/trezcool/edumanage/storage/kv"
)

var logger core.Logger

func main() {
	conf, err := core.NewConfig()
	if err != nil {
		log.Fatal(err)
	}

	rbLogger := logsvc.NewRollbarLogger(log.New(os.Stderr, "CLI : ", log.LstdFlags|log.Lshortfile), conf)
	defer rbLogger.Close()
	logger = rbLogger

	// every run starts from the seed data
	db, err := inmemdb.Open()
	errAndDie(err)

	store, err := kvstore.Open(conf.Session.Path)
	errAndDie(err)
	defer store.Close()

	state, err := session.Load(store, session.PreferredTheme(conf.Theme.Default, os.Getenv))
	errAndDie(err)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	academy.InitValidators(validate, translator)

	mailSvc := emailsvc.NewService(conf, logger)
	usrSvc := user.NewService(inmemdb.NewUserRepository(db), mailSvc, validate, translator, conf)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// start CLI
	cli := commandLine{
		ctx:        ctx,
		out:        os.Stdout,
		translator: translator,
		users:      usrSvc,
		academy:    academy.NewService(inmemdb.NewAcademyRepository(db), usrSvc, validate),
		insight:    insight.NewService(textgen.NewGenerator(conf, logger), logger),
		stats:      db,
		state:      state,
	}
	err = cli.run(os.Args)
	// welcome mails are sent in the background
	mailSvc.Wait()
	if err != nil {
		if err != errHelp {
			logger.Error("command failed", err)
		}
		stop()
		_ = store.Close()
		rbLogger.Close()
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
