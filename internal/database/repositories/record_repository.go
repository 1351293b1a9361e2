package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nivschuman/ChainDemocracy/internal/address"
	db_models "github.com/nivschuman/ChainDemocracy/internal/database/models"
	mapping "github.com/nivschuman/ChainDemocracy/internal/mapping"
	models "github.com/nivschuman/ChainDemocracy/internal/models"
)

type RecordRepository interface {
	GetRecord(ctx context.Context, addr address.Address) (*models.Record, error)
	ApplyRecords(ctx context.Context, records []*models.Record) error
	ApplyBlock(ctx context.Context, appState *models.AppState, records []*models.Record, receipts []*models.TransactionReceipt) error
	GetRecordsByOwnerPaged(ctx context.Context, owner address.Address, offset int, pageSize int) ([]*models.Record, int64, error)
	CountRecords(ctx context.Context) (int64, error)
}

type RecordRepositoryImpl struct {
	db *gorm.DB
}

var GlobalRecordRepository RecordRepository = nil

func InitializeGlobalRecordRepository(db *gorm.DB) error {
	if GlobalRecordRepository != nil {
		return nil
	}

	GlobalRecordRepository = NewRecordRepositoryImpl(db)
	return nil
}

func NewRecordRepositoryImpl(db *gorm.DB) *RecordRepositoryImpl {
	return &RecordRepositoryImpl{db: db}
}

func (repo *RecordRepositoryImpl) GetRecord(ctx context.Context, addr address.Address) (*models.Record, error) {
	var recordDB db_models.RecordDB
	result := repo.db.WithContext(ctx).Where("address = ?", addr.Bytes()).First(&recordDB)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}

	return mapping.RecordDBToRecord(&recordDB)
}

func (repo *RecordRepositoryImpl) ApplyRecords(ctx context.Context, records []*models.Record) error {
	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		height, err := currentHeight(tx)
		if err != nil {
			return err
		}
		return upsertRecords(tx, records, height)
	})
}

// ApplyBlock stores the records and receipts of a block together with its
// app state. Either all of them are written or none.
func (repo *RecordRepositoryImpl) ApplyBlock(ctx context.Context, appState *models.AppState, records []*models.Record, receipts []*models.TransactionReceipt) error {
	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertRecords(tx, records, appState.Height); err != nil {
			return err
		}
		if err := insertReceipts(tx, receipts); err != nil {
			return fmt.Errorf("failed to insert %d receipts: %w", len(receipts), err)
		}
		return saveAppState(tx, appState)
	})
}

func upsertRecords(tx *gorm.DB, records []*models.Record, height int64) error {
	if len(records) == 0 {
		return nil
	}

	recordsDB := make([]*db_models.RecordDB, len(records))
	for i, record := range records {
		recordsDB[i] = mapping.RecordToRecordDB(record, height)
	}

	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{"owner", "data", "updated_height"}),
	}).CreateInBatches(recordsDB, 100).Error

	if err != nil {
		return fmt.Errorf("failed to upsert %d records: %w", len(records), err)
	}
	return nil
}

func (repo *RecordRepositoryImpl) GetRecordsByOwnerPaged(ctx context.Context, owner address.Address, offset int, pageSize int) ([]*models.Record, int64, error) {
	query := repo.db.WithContext(ctx).Model(&db_models.RecordDB{}).Where("owner = ?", owner.Bytes())

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recordsDB []*db_models.RecordDB
	if err := query.Order("address").
		Offset(offset).
		Limit(pageSize).
		Find(&recordsDB).Error; err != nil {
		return nil, 0, err
	}

	records := make([]*models.Record, 0, len(recordsDB))
	for _, recordDB := range recordsDB {
		record, err := mapping.RecordDBToRecord(recordDB)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, record)
	}

	return records, total, nil
}

func (repo *RecordRepositoryImpl) CountRecords(ctx context.Context) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&db_models.RecordDB{}).Count(&count).Error
	return count, err
}
