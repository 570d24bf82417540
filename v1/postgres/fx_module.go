package postgres

import "go.uber.org/fx"

// FXModule provides the PostgreSQL *Dialer. Register it in a
// connection.SchemeRouter under the names in Schemes.
var FXModule = fx.Module("postgres",
	fx.Provide(NewDialer),
)

// Schemes lists the URI schemes served by Dialer.
var Schemes = []string{"postgres", "postgresql"}
