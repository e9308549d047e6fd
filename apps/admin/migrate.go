package main

import (
	"github.com/pressly/goose/v3"

	appfs "github.com/trezcool/registrar/fs"
)

var gooseRunFunc = goose.Run // mockable

func (cli *commandLine) migrate(args []string) error {
	goose.SetBaseFS(appfs.FS)
	if err := goose.SetDialect(cli.engine); err != nil {
		return err
	}
	return gooseRunFunc(args[0], cli.db, appfs.MigrationsDir(cli.engine), args[1:]...)
}
