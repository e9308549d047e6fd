package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/trezcool/registrar/apps/shared"
	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/report"
	logsvc "github.com/trezcool/registrar/services/logger"
	"github.com/trezcool/registrar/storage/database"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	if err := database.CreateIfNotExist(conf); err != nil {
		logger.Fatal(fmt.Sprintf("creating database: %v", err), err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}

	core.ParseEmailTemplates(conf, logger)
	mailSvc := shared.NewMailService(conf, logger)
	validate, _ := shared.NewValidator()

	// start CLI
	cli := commandLine{
		db:        db.DB,
		engine:    conf.Database.Engine,
		validate:  validate,
		apiURL:    conf.APIURL(),
		out:       os.Stdout,
		newReportSvc: func(ctx context.Context) (*report.Service, error) {
			return shared.NewReportService(ctx, conf, db, mailSvc, logger)
		},
	}
	err = cli.run(os.Args)

	// let the import reports go out
	if w, ok := mailSvc.(interface{ Wait() }); ok {
		w.Wait()
	}
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %v", err), err)
		}
		os.Exit(1)
	}
}
