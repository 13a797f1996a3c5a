package interfaces

import (
	"github.com/google/wire"

	"medifind-server/intake-api/internal/interfaces/httpserver"
)

var InterfacesProvider = wire.NewSet(
	httpserver.NewHttpServer,
)
