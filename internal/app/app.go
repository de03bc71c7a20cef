package app

import (
	"context"
	"net/http"

	"kidsweek-go/internal/config"
	"kidsweek-go/internal/db"
	"kidsweek-go/internal/domain/activity"
	"kidsweek-go/internal/domain/invite"
	"kidsweek-go/internal/domain/member"
	"kidsweek-go/internal/domain/notification"
	"kidsweek-go/internal/domain/zone"
	"kidsweek-go/internal/mail"
	"kidsweek-go/internal/push"
	activityrepo "kidsweek-go/internal/repository/postgres/activity"
	inviterepo "kidsweek-go/internal/repository/postgres/invite"
	memberrepo "kidsweek-go/internal/repository/postgres/member"
	notificationrepo "kidsweek-go/internal/repository/postgres/notification"
	zonerepo "kidsweek-go/internal/repository/postgres/zone"
	"kidsweek-go/internal/scheduler"
	"kidsweek-go/internal/transport/httpserver"
	"kidsweek-go/internal/transport/httpserver/handler"
	"kidsweek-go/pkg/logger"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	scheduler  *scheduler.Scheduler
	db         *gorm.DB
	log        logger.Logger
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(dbConn, log); err != nil {
		return nil, err
	}

	members := member.NewService(memberrepo.NewPostgres(dbConn))
	zones := zone.NewService(zonerepo.NewPostgres(dbConn))

	activityStore := activityrepo.NewPostgres(dbConn)
	engine := notification.NewEngine(
		notificationrepo.NewPostgres(dbConn),
		memberrepo.NewPostgres(dbConn),
		activityStore,
		push.NewExpo(cfg.Push, log),
		log,
	)
	activities := activity.NewService(activityStore, engine)

	invites := invite.NewService(
		inviterepo.NewPostgres(dbConn),
		memberrepo.NewPostgres(dbConn),
		mail.NewBrevo(cfg.Mail, log),
		cfg.Invites.TTL,
		log,
	)

	handlers := handler.New(members, zones, activities, engine, invites, log)

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handlers, members, log)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	sched := scheduler.New(log)
	sched.Add("reminder-sweep", cfg.Scheduler.ReminderInterval, engine.SweepDueReminders)
	sched.Add("invite-expiry", cfg.Scheduler.InviteExpiryInterval, invites.ExpireDue)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		scheduler:  sched,
		db:         dbConn,
		log:        log,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) StartScheduler(ctx context.Context) {
	a.scheduler.Start(ctx)
}

func (a *App) Close() error {
	a.scheduler.Stop()

	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
