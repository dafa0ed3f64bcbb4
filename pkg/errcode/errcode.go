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
	WriteFileError

	// Logging errors
	CreateLogFileError

	// Catalog errors
	CatalogReadError
	CatalogInvalidError

	// Database errors
	DBConnectionError
	DBUnknownDriverError
	DBTableCheckError
	DBEmptyDatabaseError
	DBNotConnectedError
	DBDropTableError
	DBQueryError
	DBBusyError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError
	SchemaMigrateError

	// Import errors
	ImportReadError
	ImportDecodeError
	ImportInsertError
	ImportAllFilesFailedError

	// Description import errors
	DescriptionsReadError
	DescriptionsColumnError
	DescriptionsInsertError

	// Export errors
	ExportNoVersionsError
	ExportReconcileError
	ExportWriteError
	ExportLogError
	ExportAllVersionsFailedError

	// Optimize errors
	OptimizerOrphanRemovalError
	OptimizerVacuumError

	// Check errors
	CheckReadError
	CheckMissingIDsError

	CancelledError
)
