package main

import (
	"context"
	"errors"
	"fieldjobs/account"
	"fieldjobs/bizerror"
	"fieldjobs/client/es"
	"fieldjobs/client/s3"
	"fieldjobs/common"
	"fieldjobs/domain/job"
	"fieldjobs/domain/job/jobrest"
	"fieldjobs/event"
	"fieldjobs/indices"
	"fieldjobs/infra/ratelimit"
	"fieldjobs/infra/tracing"
	"fieldjobs/notification"
	"fieldjobs/persistence"
	"fieldjobs/photo"
	"fieldjobs/session"
	"fieldjobs/sessions"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	common.ConfigureLogLevel()
	logrus.Info("service start")

	closer, err := tracing.Bootstrap("fieldjobs")
	if err != nil {
		logrus.Fatalf("tracing bootstrap failed %v", err)
	}
	defer closer.Close()

	directory := account.NewDirectory()
	inbox := notification.NewStore()
	sinks := notification.Fanout{inbox}
	bus := event.NewBus()

	ds, err := startDatabase()
	if err != nil {
		logrus.Fatalf("database bootstrap failed %v", err)
	}
	if ds != nil {
		defer ds.Stop()

		gormSink := &notification.GormSink{DS: ds}
		if err := gormSink.Migrate(); err != nil {
			logrus.Fatalf("notification migration failed %v", err)
		}
		dispatcher := notification.NewDispatcher(gormSink, 0)
		defer dispatcher.Stop()
		sinks = append(sinks, dispatcher)

		bus.Register(event.PersistHandler(ds))
	}

	engine := job.NewEngine(job.NewMemoryStore(), sinks,
		job.WithEventBus(bus), job.WithAssigneeValidator(directory.ValidateTechs))

	searchEnabled := es.CreateClientFromEnv() != nil
	if searchEnabled {
		bus.Register(indices.IndexHandler(engine.GetJob))
	}

	storageEnabled, err := s3.Bootstrap()
	if err != nil {
		logrus.Fatalf("object storage bootstrap failed %v", err)
	}

	limitConfig, err := ratelimit.ParseConfigFromEnv()
	if err != nil {
		logrus.Fatalf("parse rate limit config failed %v", err)
	}

	r := gin.Default()
	r.Use(bizerror.ErrorHandling())
	r.Use(tracing.TracingIngress())
	r.Use(ratelimit.NewLimiter(*limitConfig).Middleware())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "fieldjobs")
	})

	auth := session.SimpleAuthFilter()
	sessions.RegisterSessionsHandler(r, directory)
	sessions.RegisterSessionHandler(r, auth)
	account.RegisterUsersHandler(r, directory, auth)
	jobrest.RegisterJobsRestAPI(r, engine, auth)
	notification.RegisterNotificationsRestAPI(r, inbox, auth)
	if searchEnabled {
		indices.RegisterJobSearchRestAPI(r, auth)
	}
	if storageEnabled {
		photo.RegisterPhotosRestAPI(r, auth)
	}

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":80"
	}
	if err := r.Run(addr); err != nil {
		panic(err)
	}
}

// startDatabase returns nil when no database is configured, the service then keeps state in memory only.
func startDatabase() (*persistence.DataSourceManager, error) {
	dbConfig, err := persistence.ParseDatabaseConfigFromEnv()
	if errors.Is(err, persistence.ErrDatabaseNotConfigured) {
		logrus.Info("database not configured, events and notifications stay in memory")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	// create database (no conflict)
	if err := persistence.PrepareMysqlDatabase(dbConfig.DriverArgs); err != nil {
		return nil, err
	}
	ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
	if err := ds.Start(); err != nil {
		return nil, err
	}
	// database migration (race condition)
	if err := ds.GormDB(context.Background()).AutoMigrate(&event.EventRecord{}).Error; err != nil {
		ds.Stop()
		return nil, err
	}
	return ds, nil
}
