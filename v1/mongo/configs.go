package mongo

// Config holds MongoDB specific settings that are not part of the URI.
type Config struct {
	// Database is used when the URI has no path component. Defaults to "storefront".
	Database string `mapstructure:"database"`

	// AppName is reported to the server for connection attribution.
	AppName string `mapstructure:"app_name"`
}

const (
	defaultDatabase   = "storefront"
	productCollection = "products"
)

func (c Config) database() string {
	if c.Database == "" {
		return defaultDatabase
	}
	return c.Database
}
