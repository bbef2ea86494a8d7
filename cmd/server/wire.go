// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/Agnesa14/SkillCast/internal/app"
	"github.com/Agnesa14/SkillCast/internal/application"
	"github.com/Agnesa14/SkillCast/internal/auth"
	"github.com/Agnesa14/SkillCast/internal/config"
	"github.com/Agnesa14/SkillCast/internal/firebase"
	"github.com/Agnesa14/SkillCast/internal/job"
	"github.com/Agnesa14/SkillCast/internal/notification"
	"github.com/Agnesa14/SkillCast/internal/platform/database"
	platformElasticsearch "github.com/Agnesa14/SkillCast/internal/platform/elasticsearch"
	"github.com/Agnesa14/SkillCast/internal/platform/logger"
	"github.com/Agnesa14/SkillCast/internal/scheduler"
	"github.com/Agnesa14/SkillCast/internal/session"
	"github.com/Agnesa14/SkillCast/internal/shared"
	"github.com/Agnesa14/SkillCast/internal/user"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform layer
		logger.New,
		database.NewGORM,
		platformElasticsearch.NewClient,

		// Firebase Admin SDK
		firebase.NewService,
		wire.Bind(new(auth.AdminGateway), new(*firebase.Service)),

		// Profiles
		user.NewGORMRepository,
		user.NewWatcher,
		user.NewService,
		wire.Bind(new(shared.ProfileService), new(user.Service)),
		wire.Bind(new(shared.ProfileWatcher), new(*user.Watcher)),
		wire.Bind(new(session.ProfileRegistry), new(user.Service)),

		// Auth and session
		auth.NewFirebaseProvider,
		wire.Bind(new(auth.Provider), new(*auth.FirebaseProvider)),
		auth.NewClient,
		session.NewHolder,
		wire.Bind(new(auth.SessionGateway), new(*session.Holder)),

		// Postings and applications
		job.NewGORMRepository,
		job.NewService,
		application.NewGORMRepository,
		wire.Bind(new(job.ApplicationCounter), new(application.Repository)),
		wire.Bind(new(application.JobDirectory), new(job.Service)),
		application.NewService,

		// Notifications
		notification.NewGORMRepository,
		notification.NewService,
		wire.Bind(new(application.Notifier), new(notification.Service)),

		// Handlers
		auth.NewHandler,
		user.NewHandler,
		job.NewHandler,
		application.NewHandler,
		notification.NewHandler,

		// Background jobs
		scheduler.NewPostingExpiryJob,

		// Application layer
		app.NewServer,

		provideCleanup,
	)
	return nil, nil, nil
}
