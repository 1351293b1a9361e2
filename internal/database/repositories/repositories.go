package repositories

import "gorm.io/gorm"

func InitializeGlobalRepositories(db *gorm.DB) error {
	err := InitializeGlobalRecordRepository(db)
	if err != nil {
		return err
	}

	err = InitializeGlobalAppStateRepository(db)
	if err != nil {
		return err
	}

	return InitializeGlobalReceiptRepository(db)
}
