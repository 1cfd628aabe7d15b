// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"parking_share_backend/internal/app"
	"parking_share_backend/internal/config"
	"parking_share_backend/internal/favorite"
	"parking_share_backend/internal/filestorage"
	"parking_share_backend/internal/firebase"
	"parking_share_backend/internal/jobs"
	"parking_share_backend/internal/notification"
	"parking_share_backend/internal/parking"
	"parking_share_backend/internal/platform/database"
	"parking_share_backend/internal/platform/logger"
	"parking_share_backend/internal/review"
	"parking_share_backend/internal/user"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform layer
		logger.New,
		database.NewGORM,
		provideCleanup,

		// Firebase
		firebase.NewService,

		// Modules
		filestorage.NewLocalService,
		notification.NewGORMRepository,
		notification.NewService,
		notification.NewHandler,
		user.NewGORMRepository,
		user.NewService,
		user.NewHandler,
		parking.NewGORMRepository,
		parking.NewService,
		parking.NewHandler,
		favorite.NewGORMRepository,
		favorite.NewService,
		favorite.NewHandler,
		review.NewGORMRepository,
		review.NewService,
		review.NewHandler,

		// Background jobs
		jobs.NewScheduler,

		// Application layer
		app.NewServer,
	)
	return nil, nil, nil
}
