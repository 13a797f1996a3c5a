//go:build wireinject

package main

import (
	"github.com/google/wire"

	"medifind-server/intake-api/internal/domain"
	"medifind-server/intake-api/internal/infrastructure"
	"medifind-server/intake-api/internal/interfaces"
	"medifind-server/intake-api/internal/interfaces/httpserver/routes"
)

func CreateApplication() (*Application, error) {
	wire.Build(
		domain.ServiceProvider,
		infrastructure.InfrastructureProvider,
		routes.RouteProvider,
		interfaces.InterfacesProvider,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil
}
