package db_models

type TransactionReceiptDB struct {
	Id           []byte `gorm:"primaryKey;column:id"`
	Height       int64  `gorm:"column:height;not null;index"`
	PayerAddress []byte `gorm:"column:payer_address;not null;index"`
	Instruction  string `gorm:"column:instruction;not null"`
	Code         uint32 `gorm:"column:code;not null"`
	Log          string `gorm:"column:log"`
}

func (TransactionReceiptDB) TableName() string {
	return "transaction_receipts"
}
