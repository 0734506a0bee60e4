package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyHCDBType string = "HC_DB_TYPE"
	EnvKeyHCDbPath string = "HC_DB_PATH"
	EnvKeyHCLogDir string = "HC_LOG_DIR"

	EnvKeyHCHttpHostPort string = "HC_HTTP_HOST_PORT"
	EnvKeyHCGrpcHostPort string = "HC_GRPC_HOST_PORT"

	EnvKeyHCAdminRate  string = "HC_ADMIN_RATE"
	EnvKeyHCAdminBurst string = "HC_ADMIN_BURST"

	LoggerNameSchema        string = "schema"
	LoggerNameMigrate       string = "migrate"
	LoggerNameAdmin         string = "admin"
	LoggerNameRestfulServer string = "restful_server"
	LoggerNameGrpcServer    string = "grpc_server"
	LoggerNameCli           string = "cli"

	LoggerFieldCategory      string = "category"
	LoggerCategoryApply      string = "apply"
	LoggerCategoryRevert     string = "revert"
	LoggerCategoryInspect    string = "inspect"
	LoggerCategoryDump       string = "dump"
	LoggerCategorySplit      string = "split"
	LoggerCategoryHCL        string = "hcl"
	LoggerCategoryMigrations string = "migrations"
)
