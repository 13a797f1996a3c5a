package repository

import (
	"medifind-server/intake-api/internal/infrastructure/database/repository/conversationrepo"
	"medifind-server/intake-api/internal/infrastructure/database/repository/doctorrepo"

	"github.com/google/wire"
)

var RepositoryProvider = wire.NewSet(
	conversationrepo.NewConversationGormRepository,
	doctorrepo.NewDoctorGormRepository,
)
