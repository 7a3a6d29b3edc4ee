package handlers

import (
	"time"

	"github.com/Freeeeeet/study_planner/internal/controller/state"
	"github.com/Freeeeeet/study_planner/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	userService      *service.UserService
	taskService      *service.TaskService
	dashboardService *service.DashboardService
	stateManager     *state.Manager
	live             *LiveSessions
	now              func() time.Time
	logger           *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	userService *service.UserService,
	taskService *service.TaskService,
	dashboardService *service.DashboardService,
	stateManager *state.Manager,
	live *LiveSessions,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		userService:      userService,
		taskService:      taskService,
		dashboardService: dashboardService,
		stateManager:     stateManager,
		live:             live,
		now:              time.Now,
		logger:           logger,
	}
}
