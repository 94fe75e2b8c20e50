package persistence

import (
	"errors"
	"os"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
)

var ErrDatabaseNotConfigured = errors.New("database not configured")

type DatabaseConfig struct {
	DriverType string
	DriverArgs string
}

// ParseDatabaseConfigFromEnv MYSQL_SERVICE=root:root@(127.0.0.1:3306) MYSQL_DATABASE=fieldjobs
func ParseDatabaseConfigFromEnv() (*DatabaseConfig, error) {
	svc := strings.TrimSpace(os.Getenv("MYSQL_SERVICE"))
	if svc == "" {
		return nil, ErrDatabaseNotConfigured
	}
	database := strings.TrimSpace(os.Getenv("MYSQL_DATABASE"))
	if database == "" {
		database = "fieldjobs"
	}
	return &DatabaseConfig{
		DriverType: "mysql",
		DriverArgs: svc + "/" + database + "?charset=utf8mb4&parseTime=True&loc=Local&timeout=5s",
	}, nil
}

// PrepareMysqlDatabase creates the database named in driverArgs when it is absent.
func PrepareMysqlDatabase(driverArgs string) error {
	cfg, err := mysql.ParseDSN(driverArgs)
	if err != nil {
		return err
	}
	databaseName := cfg.DBName
	if databaseName == "" {
		return errors.New("database name is missing in driver args")
	}
	cfg.DBName = ""

	db, err := gorm.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logrus.Warnf("failed to close bootstrap connection: %v", err)
		}
	}()

	return db.Exec("CREATE DATABASE IF NOT EXISTS `" + databaseName + "` DEFAULT CHARACTER SET utf8mb4").Error
}
