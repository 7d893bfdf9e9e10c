package handler

import (
	"codesync/internal/app/collab"
	"codesync/internal/app/executor"
	"codesync/internal/configs"
)

// AppDeps bundles the shared dependencies injected into every HTTP handler.
type AppDeps struct {
	Manager  *collab.Manager
	Executor *executor.Client
	Config   *configs.AppConfig
}
