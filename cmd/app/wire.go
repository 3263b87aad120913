//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/msuny-c/fdb-viewer/internal/bootstrap"
	"github.com/msuny-c/fdb-viewer/internal/domain/auth"
	"github.com/msuny-c/fdb-viewer/internal/domain/document"
	"github.com/msuny-c/fdb-viewer/internal/infra/config"
	httpiface "github.com/msuny-c/fdb-viewer/internal/interface/http"
	"github.com/msuny-c/fdb-viewer/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideDocumentConfig,
		provideAuthConfig,
		provideDocumentRepository,
		provideDocumentCache,
		provideObjectStorage,
		document.NewService,
		auth.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
