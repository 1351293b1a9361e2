package db_connection

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nivschuman/ChainDemocracy/internal/config"
	db_config "github.com/nivschuman/ChainDemocracy/internal/database/config"
	models "github.com/nivschuman/ChainDemocracy/internal/database/models"
)

const memoryDsn = ":memory:"

var modelsToMigrate = []any{
	&models.RecordDB{},
	&models.AppStateDB{},
	&models.TransactionReceiptDB{},
}

var GlobalDB *gorm.DB = nil

func InitializeGlobalDB(databaseConfig config.DatabaseConfig, debug bool) error {
	if GlobalDB != nil {
		return nil
	}

	var err error
	GlobalDB, err = OpenDatabase(databaseConfig.Dialect, databaseConfig.Dsn, debug)

	return err
}

func OpenDatabase(dialect string, dsn string, debug bool) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch dialect {
	case config.DatabaseDialectSqlite:
		if err := ensureDirectory(dsn); err != nil {
			return nil, err
		}
		dialector = sqlite.Open(dsn)
	case config.DatabaseDialectPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database dialect: %q", dialect)
	}

	db, err := gorm.Open(dialector, db_config.GetGormConfig(debug))
	if err != nil {
		return nil, err
	}

	if dsn == memoryDsn {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// every connection to :memory: opens a new empty database
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(modelsToMigrate...); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureDirectory(dsn string) error {
	if dsn == memoryDsn {
		return nil
	}

	dir := filepath.Dir(dsn)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("failed to create databases directory: %w", err)
		}
		log.Printf("Created directory '%s'", dir)
	}
	return nil
}

func ResetDatabase(db *gorm.DB) error {
	err := db.Migrator().DropTable(modelsToMigrate...)

	if err != nil {
		return err
	}

	return db.AutoMigrate(modelsToMigrate...)
}

func CloseDatabaseConnection(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
