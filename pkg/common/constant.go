package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyVigilantAPIKey string = "VIGILANT_API_KEY"

	EnvKeyVigilantDBType string = "VIGILANT_DB_TYPE"
	EnvKeyVigilantDbPath string = "VIGILANT_DB_PATH"

	EnvKeyPort                 string = "PORT"
	EnvKeyVigilantHttpHostPort string = "VIGILANT_HTTP_HOST_PORT"
	EnvKeyVigilantGrpcHostPort string = "VIGILANT_GRPC_HOST_PORT"

	EnvKeyVigilantDefaultRate  string = "VIGILANT_DEFAULT_RATE"
	EnvKeyVigilantDefaultBurst string = "VIGILANT_DEFAULT_BURST"

	EnvKeyVigilantStaleAfter string = "VIGILANT_STALE_AFTER"

	ServiceName    string = "Vigilant API"
	ServiceVersion string = "0.1.0"

	LoggerNameFleetCore       string = "fleet_core"
	LoggerNameRestfulServer   string = "restful_server"
	LoggerNameGrpcServer      string = "grpc_server"
	LoggerNameAgent           string = "agent"
	LoggerFieldFleetCategory  string = "category"
	LoggerCategoryFleetRig    string = "registry"
	LoggerCategoryFleetIngest string = "ingest"
	LoggerCategoryFleetQuery  string = "query"
)
