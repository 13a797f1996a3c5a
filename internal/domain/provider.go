package domain

import (
	"github.com/google/wire"

	"medifind-server/intake-api/internal/domain/conversation"
	"medifind-server/intake-api/internal/domain/doctor"
	"medifind-server/intake-api/internal/domain/intake"
	"medifind-server/intake-api/internal/domain/turn"
)

// ServiceProvider provides all domain services
var ServiceProvider = wire.NewSet(
	conversation.NewConversationService,
	doctor.NewDoctorService,
	intake.NewTurnPolicy,
	turn.NewTurnService,
)
