package models_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nivschuman/ChainDemocracy/internal/address"
	"github.com/nivschuman/ChainDemocracy/internal/codec"
	"github.com/nivschuman/ChainDemocracy/internal/models"
)

func testAddress(label string) address.Address {
	return address.FromPublicKey([]byte(label))
}

func TestElectionRecordRoundTrip(t *testing.T) {
	records := []*models.ElectionRecord{
		{
			IsInitialized: true,
			Name:          "mayor-2024",
			StartDate:     "2024-05-01 08:00:00",
			EndDate:       "2024-05-02 20:00:00",
			Votes: map[address.Address]int64{
				testAddress("alice"): 3,
				testAddress("bob"):   1,
			},
			NumberOfVotes: 4,
			IsActive:      false,
		},
		{Votes: map[address.Address]int64{}},
	}

	for _, record := range records {
		decoded, err := models.ElectionRecordFromBytes(record.AsBytes())
		require.NoError(t, err)
		require.Equal(t, record, decoded)
	}
}

func TestElectionRecordEncodingIsByteStable(t *testing.T) {
	first := &models.ElectionRecord{Votes: map[address.Address]int64{}}
	second := &models.ElectionRecord{Votes: map[address.Address]int64{}}

	for i, label := range []string{"a", "b", "c", "d", "e"} {
		first.Votes[testAddress(label)] = int64(i)
	}
	for i := 4; i >= 0; i-- {
		second.Votes[testAddress([]string{"a", "b", "c", "d", "e"}[i])] = int64(i)
	}

	require.Equal(t, first.AsBytes(), second.AsBytes())
}

func TestCandidateListRecordRoundTrip(t *testing.T) {
	records := []*models.CandidateListRecord{
		{
			IsInitialized: true,
			Candidates: map[string]address.Address{
				"Alice": testAddress("alice"),
				"Bob":   testAddress("bob"),
			},
		},
		{Candidates: map[string]address.Address{}},
	}

	for _, record := range records {
		decoded, err := models.CandidateListRecordFromBytes(record.AsBytes())
		require.NoError(t, err)
		require.Equal(t, record, decoded)
	}
}

func TestCandidateRecordRoundTrip(t *testing.T) {
	records := []*models.CandidateRecord{
		{IsInitialized: true, FirstName: "Alice", LastName: "Liddell"},
		{},
	}

	for _, record := range records {
		decoded, err := models.CandidateRecordFromBytes(record.AsBytes())
		require.NoError(t, err)
		require.Equal(t, record, decoded)
	}
}

func TestVoterRecordRoundTrip(t *testing.T) {
	records := []*models.VoterRecord{
		{CardNumber: "CARD-001", VotedFor: testAddress("alice")},
		{},
	}

	for _, record := range records {
		decoded, err := models.VoterRecordFromBytes(record.AsBytes())
		require.NoError(t, err)
		require.Equal(t, record, decoded)
	}
}

func TestResultRecordRoundTrip(t *testing.T) {
	records := []*models.ResultRecord{
		{
			Results: []models.ResultEntry{
				{Name: "Alice", Percentage: 75},
				{Name: "Bob", Percentage: 25},
			},
			NumberOfVotes: 4,
		},
		{Results: []models.ResultEntry{}},
	}

	for _, record := range records {
		decoded, err := models.ResultRecordFromBytes(record.AsBytes())
		require.NoError(t, err)
		require.Equal(t, record, decoded)
	}
}

func TestRecordsDecodeFromZeroedAllocation(t *testing.T) {
	election, err := models.ElectionRecordFromBytes(make([]byte, models.ElectionRecordSize("x", "", "")))
	require.NoError(t, err)
	require.False(t, election.IsInitialized)
	require.Empty(t, election.Votes)

	candidateList, err := models.CandidateListRecordFromBytes(make([]byte, models.CandidateListRecordSize))
	require.NoError(t, err)
	require.False(t, candidateList.IsInitialized)

	candidate, err := models.CandidateRecordFromBytes(make([]byte, models.CandidateRecordSize("a", "b")))
	require.NoError(t, err)
	require.False(t, candidate.IsInitialized)

	result, err := models.ResultRecordFromBytes(make([]byte, models.ResultRecordSize))
	require.NoError(t, err)
	require.Empty(t, result.Results)
}

func TestRecordsRejectStructurallyInvalidBuffers(t *testing.T) {
	_, err := models.ElectionRecordFromBytes([]byte{1, 200, 0, 0, 0, 'x'})
	require.ErrorIs(t, err, codec.ErrDecode)

	_, err = models.CandidateListRecordFromBytes([]byte{3})
	require.ErrorIs(t, err, codec.ErrDecode)

	_, err = models.VoterRecordFromBytes([]byte{0, 0, 0, 0, 1, 2})
	require.ErrorIs(t, err, codec.ErrDecode)

	_, err = models.ResultRecordFromBytes([]byte{1, 0})
	require.ErrorIs(t, err, codec.ErrDecode)
}

func TestRecordSizesFitEncodings(t *testing.T) {
	candidate := &models.CandidateRecord{IsInitialized: true, FirstName: "", LastName: ""}
	require.Len(t, candidate.AsBytes(), models.CandidateRecordSize("", ""))

	voter := &models.VoterRecord{CardNumber: "CARD-001"}
	require.Len(t, voter.AsBytes(), models.VoterRecordSize("CARD-001"))

	election := &models.ElectionRecord{
		IsInitialized: true,
		Name:          "mayor-2024",
		StartDate:     "2024-05-01 08:00:00",
		EndDate:       "2024-05-02 20:00:00",
	}
	require.LessOrEqual(t, len(election.AsBytes()), models.ElectionRecordSize(election.Name, election.StartDate, election.EndDate))
}

func TestFullName(t *testing.T) {
	require.Equal(t, "Alice Liddell", models.FullName("Alice", "Liddell"))
	require.Equal(t, "Alice", models.FullName("Alice", ""))
	require.Equal(t, "Bob", models.FullName("", "Bob"))
	require.Equal(t, "", models.FullName("", ""))
}
