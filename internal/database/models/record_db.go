package db_models

type RecordDB struct {
	Address       []byte `gorm:"primaryKey;column:address"`
	Owner         []byte `gorm:"column:owner;not null;index"`
	Data          []byte `gorm:"column:data;not null"`
	UpdatedHeight int64  `gorm:"column:updated_height;not null"`
}

func (RecordDB) TableName() string {
	return "records"
}
