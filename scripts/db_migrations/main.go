package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-tracker/internal/config"
	"github.com/carson-networks/finance-tracker/internal/storage/sqlconfig"
)

// Applies the embedded migrations. Same as `finance-tracker migrate`, kept for the compose setup.
func main() {
	env, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("ProcessEnvironmentVariables")
		return
	}

	db, err := sqlconfig.Open(context.Background(), env.ConnectionString())
	if err != nil {
		logrus.WithError(err).Fatal("sqlconfig.Open")
		return
	}
	defer db.Close()

	result, err := sqlconfig.RunMigrations(db.SQL())
	if err != nil {
		logrus.WithError(err).Fatal("sqlconfig.RunMigrations")
		return
	}

	logrus.WithFields(logrus.Fields{
		"preMigrationVersion":  result.PreVersion,
		"postMigrationVersion": result.PostVersion,
	}).Info("Migration status")
}
