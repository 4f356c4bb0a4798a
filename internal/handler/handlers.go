// Package handler holds the controllers served by the dispatch engine.
//
// Each controller declares its routes with [route.Definition] values and
// implements the handlers as methods taking the request context and, for
// routes with a body, a pointer to the decoded request type.
package handler

import (
	"github.com/MKhiriev/go-web-interface/internal/logger"
	"github.com/MKhiriev/go-web-interface/internal/route"
)

// Handlers groups the controllers of the application.
type Handlers struct {
	Status   *StatusController
	Accounts *AccountController
	Files    *FileController
}

// NewHandlers builds every controller.
func NewHandlers(version string, logger *logger.Logger) *Handlers {
	logger.Info().Msg("creating new handlers...")

	return &Handlers{
		Status:   NewStatusController(version),
		Accounts: NewAccountController(),
		Files:    NewFileController(),
	}
}

// Controllers returns the controllers in registration order.
func (h *Handlers) Controllers() []route.Controller {
	return []route.Controller{h.Status, h.Accounts, h.Files}
}
