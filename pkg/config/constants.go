package config

const (
	// EnvPrefix namespaces every environment variable consumed by the app.
	EnvPrefix = "JUV"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "JUV_DB_DSN"
	EnvDBHost = "JUV_DB_HOST"
	EnvDBUser = "JUV_DB_USER"
	EnvDBName = "JUV_DB_NAME"
)
