package ledger

import (
	"errors"
	"fmt"
)

type ErrorKind uint32

const (
	MalformedInstruction ErrorKind = iota + 1
	UnknownVariant
	AddressMismatch
	AccountAlreadyInitialized
	AccountNotInitialized
	UnauthorizedOwner
	MissingRecordArgument
	CandidateNotFound
	AllocationFailure
	InvalidRecordData
	RecordOverflow
	CandidateAlreadyRegistered
	ElectionNotOpen
	InvalidElectionDates
	MissingSignature
	ReadOnlyRecord
)

var errorKindNames = map[ErrorKind]string{
	MalformedInstruction:       "MalformedInstruction",
	UnknownVariant:             "UnknownVariant",
	AddressMismatch:            "AddressMismatch",
	AccountAlreadyInitialized:  "AccountAlreadyInitialized",
	AccountNotInitialized:      "AccountNotInitialized",
	UnauthorizedOwner:          "UnauthorizedOwner",
	MissingRecordArgument:      "MissingRecordArgument",
	CandidateNotFound:          "CandidateNotFound",
	AllocationFailure:          "AllocationFailure",
	InvalidRecordData:          "InvalidRecordData",
	RecordOverflow:             "RecordOverflow",
	CandidateAlreadyRegistered: "CandidateAlreadyRegistered",
	ElectionNotOpen:            "ElectionNotOpen",
	InvalidElectionDates:       "InvalidElectionDates",
	MissingSignature:           "MissingSignature",
	ReadOnlyRecord:             "ReadOnlyRecord",
}

func (kind ErrorKind) String() string {
	if name, ok := errorKindNames[kind]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", uint32(kind))
}

// ProgramError is the only error an instruction reports. Two program errors
// match under errors.Is when their kinds are equal.
type ProgramError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

var (
	ErrMalformedInstruction       = &ProgramError{Kind: MalformedInstruction}
	ErrUnknownVariant             = &ProgramError{Kind: UnknownVariant}
	ErrAddressMismatch            = &ProgramError{Kind: AddressMismatch}
	ErrAccountAlreadyInitialized  = &ProgramError{Kind: AccountAlreadyInitialized}
	ErrAccountNotInitialized      = &ProgramError{Kind: AccountNotInitialized}
	ErrUnauthorizedOwner          = &ProgramError{Kind: UnauthorizedOwner}
	ErrMissingRecordArgument      = &ProgramError{Kind: MissingRecordArgument}
	ErrCandidateNotFound          = &ProgramError{Kind: CandidateNotFound}
	ErrAllocationFailure          = &ProgramError{Kind: AllocationFailure}
	ErrInvalidRecordData          = &ProgramError{Kind: InvalidRecordData}
	ErrRecordOverflow             = &ProgramError{Kind: RecordOverflow}
	ErrCandidateAlreadyRegistered = &ProgramError{Kind: CandidateAlreadyRegistered}
	ErrElectionNotOpen            = &ProgramError{Kind: ElectionNotOpen}
	ErrInvalidElectionDates       = &ProgramError{Kind: InvalidElectionDates}
	ErrMissingSignature           = &ProgramError{Kind: MissingSignature}
	ErrReadOnlyRecord             = &ProgramError{Kind: ReadOnlyRecord}
)

func NewError(kind ErrorKind, format string, args ...any) *ProgramError {
	return &ProgramError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func WrapError(kind ErrorKind, err error, format string, args ...any) *ProgramError {
	return &ProgramError{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

func (e *ProgramError) Error() string {
	msg := e.Kind.String()
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProgramError) Unwrap() error {
	return e.Err
}

func (e *ProgramError) Is(target error) bool {
	other, ok := target.(*ProgramError)
	return ok && other.Kind == e.Kind
}

// Code is the non zero result code reported to the transaction submitter.
func (e *ProgramError) Code() uint32 {
	return uint32(e.Kind)
}

// KindOf returns the kind of the first program error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var programErr *ProgramError
	if errors.As(err, &programErr) {
		return programErr.Kind, true
	}
	return 0, false
}

// FromCode rebuilds the program error reported under a result code.
func FromCode(code uint32, msg string) (*ProgramError, bool) {
	kind := ErrorKind(code)
	if _, ok := errorKindNames[kind]; !ok {
		return nil, false
	}
	return &ProgramError{Kind: kind, Msg: msg}, true
}
