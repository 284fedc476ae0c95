//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"github.com/sevigo/codewise/internal/app"
	"github.com/sevigo/codewise/internal/config"
)

func InitializeApp(ctx context.Context, cfg *config.Config) (*app.App, func(), error) {
	wire.Build(AppSet)
	return &app.App{}, nil, nil
}
