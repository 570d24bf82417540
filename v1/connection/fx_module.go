package connection

import (
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/storefront/v1/execmode"
	"github.com/Aleph-Alpha/storefront/v1/logger"
)

// FXModule provides the process-wide *Manager.
//
// Dependencies required by this module:
//   - a connection.Dialer (usually a SchemeRouter)
//   - connection.Config, execmode.Mode and logger.Logger
//   - optionally a connection.Observer
var FXModule = fx.Module("connection",
	fx.Provide(NewManagerWithDI),
)

// ManagerParams groups the dependencies of NewManagerWithDI.
type ManagerParams struct {
	fx.In

	Dialer   Dialer
	Config   Config
	Mode     execmode.Mode
	Logger   logger.Logger
	Observer Observer `optional:"true"`
}

// NewManagerWithDI builds a Manager whose tuning is derived from the execution
// mode and the configured overrides.
func NewManagerWithDI(p ManagerParams) *Manager {
	opts := p.Config.OptionsFor(p.Mode)
	return NewManager(p.Dialer, p.Config.URI, opts, p.Logger).WithObserver(p.Observer)
}
