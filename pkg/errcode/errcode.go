package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Config errors
	RulesLoadError
	InvalidSolutionConfigError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBDatabaseCheckError
	DBRoleCheckError
	DBCreateDatabaseError
	DBGrantError
	DBExecError
	DBTableExistsCheckError
	DBQueryTablesError

	// Schema errors
	SchemaCreateError
	SchemaMigrateError

	// Store errors
	StoreSaveError
	StoreQueryError
	StoreNotFoundError

	// Odoo errors
	OdooConnectionError
	OdooAuthError
	OdooRPCError
	OdooResponseError

	// Requirements errors
	RequirementsMalformedError
	UnknownIndustryError

	// Discovery errors
	UnknownDiscoveryTypeError

	// Installer errors
	InstallerDumpError
	InstallerCreateError
	InstallerRestoreError
	InstallerModuleError

	// Integration errors
	SetupStepError
	SolutionNotFoundError
	UnknownOperationError

	// Cache errors
	CacheError

	// REST server errors
	ServerError
)
