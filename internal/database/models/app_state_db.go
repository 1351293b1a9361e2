package db_models

// AppStateDB holds a single row with the last committed block.
type AppStateDB struct {
	Id      uint   `gorm:"primaryKey;column:id"`
	Height  int64  `gorm:"column:height;not null"`
	AppHash []byte `gorm:"column:app_hash"`
}

func (AppStateDB) TableName() string {
	return "app_state"
}
