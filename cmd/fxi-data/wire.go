//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"fxi-data/internal/app"
)

// InitializeApp builds App (Config, logger, resolver, source, publisher,
// metrics and runner) via Wire. Caller must call cleanup when done.
func InitializeApp(v app.Verbosity) (*app.App, func(), error) {
	wire.Build(app.ProviderSet)
	return nil, nil, nil
}
