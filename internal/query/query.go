// Package query renders election records as read only views.
package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/nivschuman/ChainDemocracy/internal/address"
	"github.com/nivschuman/ChainDemocracy/internal/models"
	"github.com/nivschuman/ChainDemocracy/internal/program"
)

var ErrNotFound = errors.New("record not found")

// Result codes of read queries, kept clear of the program error codes.
const (
	CodeOK         uint32 = 0
	CodeBadRequest uint32 = 400
	CodeNotFound   uint32 = 404
	CodeInternal   uint32 = 500
)

const (
	PathRecord     = "/record"
	PathElection   = "/election"
	PathCandidates = "/candidates"
	PathResult     = "/result"
)

type RecordReader interface {
	GetRecord(ctx context.Context, addr address.Address) (*models.Record, error)
}

type CandidateView struct {
	Name    string          `json:"name"`
	Address address.Address `json:"address"`
	Votes   int64           `json:"votes"`
}

type ElectionView struct {
	Address       address.Address `json:"address"`
	Name          string          `json:"name"`
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	IsActive      bool            `json:"is_active"`
	NumberOfVotes int64           `json:"number_of_votes"`
	Candidates    []CandidateView `json:"candidates"`
}

type ResultEntryView struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

type ResultView struct {
	Election      string            `json:"election"`
	NumberOfVotes int64             `json:"number_of_votes"`
	Results       []ResultEntryView `json:"results"`
}

type RecordView struct {
	Address address.Address `json:"address"`
	Owner   address.Address `json:"owner"`
	Size    int             `json:"size"`
	Data    []byte          `json:"data"`
}

type Service struct {
	reader    RecordReader
	programId address.Address
}

func NewService(reader RecordReader, programId address.Address) *Service {
	return &Service{reader: reader, programId: programId}
}

func (service *Service) ProgramId() address.Address {
	return service.programId
}

func (service *Service) Record(ctx context.Context, addr address.Address) (*RecordView, error) {
	record, err := service.reader.GetRecord(ctx, addr)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, addr.String())
	}

	return NewRecordView(record), nil
}

func NewRecordView(record *models.Record) *RecordView {
	return &RecordView{
		Address: record.Address,
		Owner:   record.Owner,
		Size:    len(record.Data),
		Data:    record.Data,
	}
}

// programRecord loads a record owned by the election program.
func (service *Service) programRecord(ctx context.Context, addr address.Address, kind string) (*models.Record, error) {
	record, err := service.reader.GetRecord(ctx, addr)
	if err != nil {
		return nil, err
	}
	if record == nil || record.Owner != service.programId {
		return nil, fmt.Errorf("%w: %s %s", ErrNotFound, kind, addr.Short())
	}
	return record, nil
}

func (service *Service) loadElection(ctx context.Context, name string) (address.Address, *models.ElectionRecord, error) {
	addr, err := program.ElectionAddress(service.programId, name)
	if err != nil {
		return address.Zero, nil, err
	}

	record, err := service.programRecord(ctx, addr, "election")
	if err != nil {
		return address.Zero, nil, err
	}

	election, err := models.ElectionRecordFromBytes(record.Data)
	if err != nil {
		return address.Zero, nil, err
	}
	if !election.IsInitialized {
		return address.Zero, nil, fmt.Errorf("%w: election %q", ErrNotFound, name)
	}

	return addr, election, nil
}

func (service *Service) loadCandidateList(ctx context.Context, name string) (*models.CandidateListRecord, error) {
	addr, err := program.CandidateListAddress(service.programId, name)
	if err != nil {
		return nil, err
	}

	record, err := service.programRecord(ctx, addr, "candidate list")
	if err != nil {
		return nil, err
	}

	return models.CandidateListRecordFromBytes(record.Data)
}

func (service *Service) Election(ctx context.Context, name string) (*ElectionView, error) {
	addr, election, err := service.loadElection(ctx, name)
	if err != nil {
		return nil, err
	}

	candidates, err := service.candidates(ctx, name, election)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	return &ElectionView{
		Address:       addr,
		Name:          election.Name,
		StartDate:     election.StartDate,
		EndDate:       election.EndDate,
		IsActive:      election.IsActive,
		NumberOfVotes: election.NumberOfVotes,
		Candidates:    candidates,
	}, nil
}

func (service *Service) Candidates(ctx context.Context, name string) ([]CandidateView, error) {
	_, election, err := service.loadElection(ctx, name)
	if err != nil {
		return nil, err
	}
	return service.candidates(ctx, name, election)
}

func (service *Service) candidates(ctx context.Context, name string, election *models.ElectionRecord) ([]CandidateView, error) {
	candidateList, err := service.loadCandidateList(ctx, name)
	if err != nil {
		return []CandidateView{}, err
	}

	candidates := make([]CandidateView, 0, len(candidateList.Candidates))
	for _, candidateName := range candidateList.SortedNames() {
		addr := candidateList.Candidates[candidateName]
		candidates = append(candidates, CandidateView{
			Name:    candidateName,
			Address: addr,
			Votes:   election.VotesFor(addr),
		})
	}
	return candidates, nil
}

func (service *Service) Result(ctx context.Context, name string) (*ResultView, error) {
	addr, err := program.ResultAddress(service.programId, name)
	if err != nil {
		return nil, err
	}

	record, err := service.programRecord(ctx, addr, "result")
	if err != nil {
		return nil, err
	}

	result, err := models.ResultRecordFromBytes(record.Data)
	if err != nil {
		return nil, err
	}

	view := &ResultView{
		Election:      name,
		NumberOfVotes: result.NumberOfVotes,
		Results:       make([]ResultEntryView, 0, len(result.Results)),
	}
	for _, entry := range result.Results {
		view.Results = append(view.Results, ResultEntryView{Name: entry.Name, Percentage: entry.Percentage})
	}
	return view, nil
}
