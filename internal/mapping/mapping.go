package mapping

import (
	"slices"

	"github.com/nivschuman/ChainDemocracy/internal/address"
	db_models "github.com/nivschuman/ChainDemocracy/internal/database/models"
	models "github.com/nivschuman/ChainDemocracy/internal/models"
)

func RecordToRecordDB(record *models.Record, height int64) *db_models.RecordDB {
	return &db_models.RecordDB{
		Address:       record.Address.Bytes(),
		Owner:         record.Owner.Bytes(),
		Data:          slices.Clone(record.Data),
		UpdatedHeight: height,
	}
}

func RecordDBToRecord(recordDB *db_models.RecordDB) (*models.Record, error) {
	addr, err := address.FromBytes(recordDB.Address)
	if err != nil {
		return nil, err
	}

	owner, err := address.FromBytes(recordDB.Owner)
	if err != nil {
		return nil, err
	}

	return &models.Record{
		Address: addr,
		Owner:   owner,
		Data:    slices.Clone(recordDB.Data),
	}, nil
}

func AppStateToAppStateDB(appState *models.AppState) *db_models.AppStateDB {
	return &db_models.AppStateDB{
		Id:      1,
		Height:  appState.Height,
		AppHash: slices.Clone(appState.AppHash),
	}
}

func AppStateDBToAppState(appStateDB *db_models.AppStateDB) *models.AppState {
	return &models.AppState{
		Height:  appStateDB.Height,
		AppHash: slices.Clone(appStateDB.AppHash),
	}
}

func ReceiptToReceiptDB(receipt *models.TransactionReceipt) *db_models.TransactionReceiptDB {
	return &db_models.TransactionReceiptDB{
		Id:           slices.Clone(receipt.TransactionId),
		Height:       receipt.Height,
		PayerAddress: receipt.Payer.Bytes(),
		Instruction:  receipt.Instruction,
		Code:         receipt.Code,
		Log:          receipt.Log,
	}
}

func ReceiptDBToReceipt(receiptDB *db_models.TransactionReceiptDB) (*models.TransactionReceipt, error) {
	payer, err := address.FromBytes(receiptDB.PayerAddress)
	if err != nil {
		return nil, err
	}

	return &models.TransactionReceipt{
		TransactionId: slices.Clone(receiptDB.Id),
		Height:        receiptDB.Height,
		Payer:         payer,
		Instruction:   receiptDB.Instruction,
		Code:          receiptDB.Code,
		Log:           receiptDB.Log,
	}, nil
}
