package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	db_models "github.com/nivschuman/ChainDemocracy/internal/database/models"
	mapping "github.com/nivschuman/ChainDemocracy/internal/mapping"
	models "github.com/nivschuman/ChainDemocracy/internal/models"
)

type AppStateRepository interface {
	// GetAppState returns a zero state before the first commit.
	GetAppState(ctx context.Context) (*models.AppState, error)
	SaveAppState(ctx context.Context, appState *models.AppState) error
}

type AppStateRepositoryImpl struct {
	db *gorm.DB
}

var GlobalAppStateRepository AppStateRepository = nil

func InitializeGlobalAppStateRepository(db *gorm.DB) error {
	if GlobalAppStateRepository != nil {
		return nil
	}

	GlobalAppStateRepository = NewAppStateRepositoryImpl(db)
	return nil
}

func NewAppStateRepositoryImpl(db *gorm.DB) *AppStateRepositoryImpl {
	return &AppStateRepositoryImpl{db: db}
}

func (repo *AppStateRepositoryImpl) GetAppState(ctx context.Context) (*models.AppState, error) {
	var appStateDB db_models.AppStateDB
	result := repo.db.WithContext(ctx).Where("id = ?", 1).First(&appStateDB)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return &models.AppState{}, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}

	return mapping.AppStateDBToAppState(&appStateDB), nil
}

func (repo *AppStateRepositoryImpl) SaveAppState(ctx context.Context, appState *models.AppState) error {
	return saveAppState(repo.db.WithContext(ctx), appState)
}

func currentHeight(tx *gorm.DB) (int64, error) {
	var appStateDB db_models.AppStateDB
	result := tx.Where("id = ?", 1).Limit(1).Find(&appStateDB)
	if result.Error != nil {
		return 0, result.Error
	}
	return appStateDB.Height, nil
}

func saveAppState(tx *gorm.DB, appState *models.AppState) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"height", "app_hash"}),
	}).Create(mapping.AppStateToAppStateDB(appState)).Error
}
