package routes

import (
	"github.com/google/wire"

	"medifind-server/intake-api/internal/interfaces/httpserver/handlers/chathandler"
	"medifind-server/intake-api/internal/interfaces/httpserver/handlers/conversationhandler"
	"medifind-server/intake-api/internal/interfaces/httpserver/handlers/doctorhandler"
	v1 "medifind-server/intake-api/internal/interfaces/httpserver/routes/v1"
	"medifind-server/intake-api/internal/interfaces/httpserver/routes/v1/analyze"
	"medifind-server/intake-api/internal/interfaces/httpserver/routes/v1/conversation"
	"medifind-server/intake-api/internal/interfaces/httpserver/routes/v1/doctor"
)

var RouteProvider = wire.NewSet(
	// Handlers
	chathandler.NewChatHandler,
	conversationhandler.NewConversationHandler,
	doctorhandler.NewDoctorHandler,

	// Routes
	v1.NewV1Route,
	analyze.NewAnalyzeRoute,
	conversation.NewConversationRoute,
	doctor.NewDoctorRoute,
)
