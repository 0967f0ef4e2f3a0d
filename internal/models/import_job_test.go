package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRoundTrip(t *testing.T) {
	report := &ValidationReport{
		TotalRows:   2,
		ValidRows:   1,
		InvalidRows: 1,
		Errors:      []string{"Row 2: account_number is required"},
		Warnings:    []string{},
		RowDetails: []RowValidation{
			{RowNumber: 1, IsValid: true, Errors: []string{}, Warnings: []string{}},
			{RowNumber: 2, IsValid: false, Errors: []string{"account_number is required"}, Warnings: []string{}},
		},
	}
	payload, err := json.Marshal(report)
	require.NoError(t, err)

	job := &ImportJob{ValidationResults: payload}
	decoded, err := job.Report()
	require.NoError(t, err)
	assert.Equal(t, report, decoded)
	assert.Equal(t, []int{1}, decoded.ValidRowNumbers())
}

func TestReportMissing(t *testing.T) {
	job := &ImportJob{}
	report, err := job.Report()
	require.NoError(t, err)
	assert.Nil(t, report)
}

func TestErrorListMissingColumn(t *testing.T) {
	job := &ImportJob{}
	assert.Equal(t, []string{}, job.ErrorList())

	job.ProcessingErrors = []byte(`["Row 7: failed"]`)
	assert.Equal(t, []string{"Row 7: failed"}, job.ErrorList())
}

func TestIsTerminal(t *testing.T) {
	for status, terminal := range map[string]bool{
		JobStatusPending:             false,
		JobStatusValidating:          false,
		JobStatusValidated:           false,
		JobStatusProcessing:          false,
		JobStatusCompleted:           true,
		JobStatusCompletedWithErrors: true,
		JobStatusFailed:              true,
	} {
		job := &ImportJob{Status: status}
		assert.Equal(t, terminal, job.IsTerminal(), status)
	}
}

func TestNormalizeEnums(t *testing.T) {
	assert.Equal(t, "credit_card", NormalizeAccountType("credit_card"))
	assert.Equal(t, "other", NormalizeAccountType("spaceship"))
	assert.Equal(t, "other", NormalizeAccountType(""))

	assert.Equal(t, "disputed", NormalizeAccountStatus("disputed"))
	assert.Equal(t, "active", NormalizeAccountStatus("hibernating"))
}

func TestStagingRowFields(t *testing.T) {
	row := &StagingRow{MappedData: []byte(`{"account_number":"ACC-1","current_balance":"10"}`)}
	fields, err := row.Fields()
	require.NoError(t, err)
	assert.Equal(t, "ACC-1", fields[FieldAccountNumber])

	empty := &StagingRow{}
	fields, err = empty.Fields()
	require.NoError(t, err)
	assert.Empty(t, fields)
}
