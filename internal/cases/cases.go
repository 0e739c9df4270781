// Package cases implements the rescue case lifecycle: citizens report
// animals in need, approved organizations claim a case, talk to the
// reporter on its conversation log, and resolve it when the rescue is done.
package cases

import (
	"resgate/internal/cases/handler"
	"resgate/internal/cases/service"
)

// Service orchestrates the case lifecycle.
type Service = service.Service

// Handler exposes case operations over HTTP.
type Handler = handler.Handler

var (
	NewService = service.NewService
	NewHandler = handler.New
)
