package mongo

import "go.uber.org/fx"

// FXModule provides the MongoDB *Dialer. Register it in a
// connection.SchemeRouter under "mongodb" and "mongodb+srv".
var FXModule = fx.Module("mongo",
	fx.Provide(NewDialer),
)

// Schemes lists the URI schemes served by Dialer.
var Schemes = []string{"mongodb", "mongodb+srv"}
