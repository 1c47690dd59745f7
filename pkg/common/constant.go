package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyIOTDBType string = "IOT_DB_TYPE"
	EnvKeyIOTDbPath string = "IOT_DB_PATH"
	EnvKeyIOTDbDSN  string = "IOT_DB_DSN"

	EnvKeyIOTLogDir string = "IOT_LOG_DIR"

	LoggerNameHydrationCore string = "hydration_core"
	LoggerNameIngestLoop    string = "ingest_loop"
	LoggerNameRestfulServer string = "restful_server"
	LoggerNameGrpcServer    string = "grpc_server"

	LoggerFieldCategory        string = "category"
	LoggerCategoryConsumption  string = "consumption"
	LoggerCategoryDock         string = "dock"
	LoggerCategoryRegistry     string = "registry"
	LoggerCategoryProfile      string = "profile"
	LoggerCategoryIntake       string = "intake"
	LoggerCategoryTransport    string = "transport"
	LoggerCategoryLimiter      string = "limiter"
	LoggerCategoryNotification string = "notification"
)
