// Package program is the election program: it decodes an instruction and
// applies it to the records supplied by the runtime.
package program

import (
	"github.com/nivschuman/ChainDemocracy/internal/address"
	"github.com/nivschuman/ChainDemocracy/internal/instruction"
	"github.com/nivschuman/ChainDemocracy/internal/ledger"
	"github.com/nivschuman/ChainDemocracy/internal/logger"
)

type Option func(*Program)

func WithLogger(log *logger.Logger) Option {
	return func(program *Program) {
		program.log = log.WithComponent("Program")
	}
}

// WithElectionWindow rejects votes cast outside [start, end) of the election.
func WithElectionWindow(enforce bool) Option {
	return func(program *Program) {
		program.enforceElectionWindow = enforce
	}
}

// WithRegistrationWindow rejects candidates registered once the election started.
func WithRegistrationWindow(enforce bool) Option {
	return func(program *Program) {
		program.enforceRegistrationWindow = enforce
	}
}

type Program struct {
	log                       *logger.Logger
	enforceElectionWindow     bool
	enforceRegistrationWindow bool
}

func New(options ...Option) *Program {
	program := &Program{log: logger.Discard()}
	for _, option := range options {
		option(program)
	}
	return program
}

var _ ledger.Program = (*Program)(nil)

func (program *Program) Process(runtime ledger.Runtime, programId address.Address, accounts []*ledger.AccountInfo, data []byte) error {
	ix, err := instruction.Unpack(data)
	if err != nil {
		return err
	}

	program.log.Printf("Instruction: %s", ix.Tag())

	return ix.Accept(&invocation{
		program:   program,
		runtime:   runtime,
		programId: programId,
		accounts:  ledger.NewAccountIter(accounts),
	})
}

// invocation carries the state of one Process call.
type invocation struct {
	program   *Program
	runtime   ledger.Runtime
	programId address.Address
	accounts  *ledger.AccountIter
}

var _ instruction.Handler = (*invocation)(nil)

func (inv *invocation) nextAccounts(roles ...string) ([]*ledger.AccountInfo, error) {
	accounts := make([]*ledger.AccountInfo, 0, len(roles))
	for _, role := range roles {
		account, err := inv.accounts.Next(role)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}
