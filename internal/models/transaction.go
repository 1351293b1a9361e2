package models

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nivschuman/ChainDemocracy/internal/address"
	"github.com/nivschuman/ChainDemocracy/internal/crypto/hash"
	"github.com/nivschuman/ChainDemocracy/internal/crypto/ppk"
)

const MaxTransactionAccounts = 255

var ErrMalformedTransaction = errors.New("malformed transaction")

type AccountMeta struct {
	Address    address.Address
	IsWritable bool
}

type Transaction struct {
	Id             []byte          //hash of every field except Signature, 32 bytes
	Nonce          uuid.UUID       //makes identical instructions produce distinct transactions, 16 bytes
	PayerPublicKey []byte          //public key of payer marshal compressed, 33 bytes
	ProgramId      address.Address //program the instruction is addressed to, 32 bytes
	Accounts       []AccountMeta   //record handles supplied to the program
	Data           []byte          //raw instruction buffer
	Signature      []byte          //signature of Id by payer, in ASN1 format, 70-72 bytes
}

func NewTransaction(payerPublicKey []byte, programId address.Address, accounts []AccountMeta, data []byte) *Transaction {
	transaction := &Transaction{
		Nonce:          uuid.New(),
		PayerPublicKey: bytes.Clone(payerPublicKey),
		ProgramId:      programId,
		Accounts:       accounts,
		Data:           bytes.Clone(data),
	}
	transaction.SetId()
	return transaction
}

func (transaction *Transaction) unsignedBytes() []byte {
	buf := new(bytes.Buffer)

	buf.Write(transaction.Nonce[:])
	binary.Write(buf, binary.BigEndian, uint32(len(transaction.PayerPublicKey)))
	buf.Write(transaction.PayerPublicKey)
	buf.Write(transaction.ProgramId.Bytes())

	buf.WriteByte(uint8(len(transaction.Accounts)))
	for _, meta := range transaction.Accounts {
		buf.Write(meta.Address.Bytes())
		if meta.IsWritable {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	}

	binary.Write(buf, binary.BigEndian, uint32(len(transaction.Data)))
	buf.Write(transaction.Data)

	return buf.Bytes()
}

func (transaction *Transaction) GetTransactionHash() []byte {
	return hash.HashBytes(transaction.unsignedBytes())
}

func (transaction *Transaction) SetId() {
	transaction.Id = transaction.GetTransactionHash()
}

func (transaction *Transaction) PayerAddress() address.Address {
	return address.FromPublicKey(transaction.PayerPublicKey)
}

func (transaction *Transaction) Sign(privateKey ppk.PrivateKey) error {
	transaction.SetId()

	signature, err := privateKey.CreateSignature(transaction.Id)
	if err != nil {
		return err
	}

	transaction.Signature = signature
	return nil
}

func (transaction *Transaction) VerifySignature() (bool, error) {
	publicKey, err := ppk.GetPublicKeyFromBytes(transaction.PayerPublicKey)
	if err != nil {
		return false, err
	}

	return publicKey.VerifySignature(transaction.Signature, transaction.GetTransactionHash()), nil
}

func (transaction *Transaction) AsBytes() []byte {
	buf := bytes.NewBuffer(transaction.unsignedBytes())

	binary.Write(buf, binary.BigEndian, uint32(len(transaction.Signature)))
	buf.Write(transaction.Signature)

	return buf.Bytes()
}

func TransactionFromBytes(b []byte) (*Transaction, error) {
	buf := bytes.NewReader(b)
	transaction := &Transaction{}

	if _, err := readFull(buf, transaction.Nonce[:]); err != nil {
		return nil, err
	}

	payerPublicKey, err := readLengthPrefixed(buf, ppk.CompressedPublicKeySize)
	if err != nil {
		return nil, err
	}
	transaction.PayerPublicKey = payerPublicKey

	programId := make([]byte, address.Size)
	if _, err := readFull(buf, programId); err != nil {
		return nil, err
	}
	transaction.ProgramId, _ = address.FromBytes(programId)

	count, err := buf.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTransaction, err)
	}

	transaction.Accounts = make([]AccountMeta, count)
	for i := range transaction.Accounts {
		key := make([]byte, address.Size)
		if _, err := readFull(buf, key); err != nil {
			return nil, err
		}
		writable, err := buf.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedTransaction, err)
		}
		if writable > 1 {
			return nil, fmt.Errorf("%w: invalid writable flag %d", ErrMalformedTransaction, writable)
		}

		transaction.Accounts[i].Address, _ = address.FromBytes(key)
		transaction.Accounts[i].IsWritable = writable == 1
	}

	if transaction.Data, err = readLengthPrefixed(buf, len(b)); err != nil {
		return nil, err
	}
	if transaction.Signature, err = readLengthPrefixed(buf, 128); err != nil {
		return nil, err
	}

	if buf.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformedTransaction, buf.Len())
	}

	transaction.SetId()
	return transaction, nil
}

func readFull(buf *bytes.Reader, dst []byte) (int, error) {
	n, err := buf.Read(dst)
	if err != nil || n != len(dst) {
		return n, fmt.Errorf("%w: short read", ErrMalformedTransaction)
	}
	return n, nil
}

func readLengthPrefixed(buf *bytes.Reader, max int) ([]byte, error) {
	var length uint32
	if err := binary.Read(buf, binary.BigEndian, &length); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTransaction, err)
	}
	if int64(length) > int64(max) || int(length) > buf.Len() {
		return nil, fmt.Errorf("%w: field length %d out of range", ErrMalformedTransaction, length)
	}

	out := make([]byte, length)
	if length == 0 {
		return out, nil
	}
	if _, err := readFull(buf, out); err != nil {
		return nil, err
	}
	return out, nil
}
