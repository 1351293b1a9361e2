package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nivschuman/ChainDemocracy/internal/address"
	db_models "github.com/nivschuman/ChainDemocracy/internal/database/models"
	mapping "github.com/nivschuman/ChainDemocracy/internal/mapping"
	models "github.com/nivschuman/ChainDemocracy/internal/models"
)

type ReceiptRepository interface {
	GetReceipt(ctx context.Context, transactionId []byte) (*models.TransactionReceipt, error)
	GetReceiptsByPayerPaged(ctx context.Context, payer address.Address, offset int, pageSize int) ([]*models.TransactionReceipt, int64, error)
}

type ReceiptRepositoryImpl struct {
	db *gorm.DB
}

var GlobalReceiptRepository ReceiptRepository = nil

func InitializeGlobalReceiptRepository(db *gorm.DB) error {
	if GlobalReceiptRepository != nil {
		return nil
	}

	GlobalReceiptRepository = NewReceiptRepositoryImpl(db)
	return nil
}

func NewReceiptRepositoryImpl(db *gorm.DB) *ReceiptRepositoryImpl {
	return &ReceiptRepositoryImpl{db: db}
}

// insertReceipts skips receipts that are already stored, so replaying a block
// is harmless.
func insertReceipts(tx *gorm.DB, receipts []*models.TransactionReceipt) error {
	if len(receipts) == 0 {
		return nil
	}

	receiptsDB := make([]*db_models.TransactionReceiptDB, len(receipts))
	for i, receipt := range receipts {
		receiptsDB[i] = mapping.ReceiptToReceiptDB(receipt)
	}

	return tx.Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(receiptsDB, 100).Error
}

func (repo *ReceiptRepositoryImpl) GetReceipt(ctx context.Context, transactionId []byte) (*models.TransactionReceipt, error) {
	var receiptDB db_models.TransactionReceiptDB
	result := repo.db.WithContext(ctx).Where("id = ?", transactionId).First(&receiptDB)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}

	return mapping.ReceiptDBToReceipt(&receiptDB)
}

func (repo *ReceiptRepositoryImpl) GetReceiptsByPayerPaged(ctx context.Context, payer address.Address, offset int, pageSize int) ([]*models.TransactionReceipt, int64, error) {
	query := repo.db.WithContext(ctx).Model(&db_models.TransactionReceiptDB{}).Where("payer_address = ?", payer.Bytes())

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var receiptsDB []*db_models.TransactionReceiptDB
	if err := query.Order("height DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&receiptsDB).Error; err != nil {
		return nil, 0, err
	}

	receipts := make([]*models.TransactionReceipt, 0, len(receiptsDB))
	for _, receiptDB := range receiptsDB {
		receipt, err := mapping.ReceiptDBToReceipt(receiptDB)
		if err != nil {
			return nil, 0, err
		}
		receipts = append(receipts, receipt)
	}

	return receipts, total, nil
}
