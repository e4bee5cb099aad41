package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	all := []Status{StatusPending, StatusAccepted, StatusCompleted, StatusCancelled}
	allowed := map[[2]Status]bool{
		{StatusPending, StatusAccepted}:   true,
		{StatusPending, StatusCancelled}:  true,
		{StatusAccepted, StatusCompleted}: true,
		{StatusAccepted, StatusCancelled}: true,
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[[2]Status{from, to}], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
	assert.True(t, StatusCompleted.IsTerminal())
	assert.False(t, StatusAccepted.IsTerminal())
}

func TestGenerateVerificationCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := GenerateVerificationCode(DefaultCodeLength)
		require.NoError(t, err)
		assert.Regexp(t, `^\d{6}$`, code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 150)

	code, err := GenerateVerificationCode(0)
	require.NoError(t, err)
	assert.Len(t, code, DefaultCodeLength)

	assert.True(t, CodeMatches("012345", "012345"))
	assert.False(t, CodeMatches("012345", "12345"))
}

func TestWithoutCodeLeavesOriginal(t *testing.T) {
	d := DonationRequest{Collection: &Collection{VerificationCode: "123456"}}
	view := d.WithoutCode()
	assert.Empty(t, view.Collection.VerificationCode)
	assert.Equal(t, "123456", d.Collection.VerificationCode)
}

func TestRequestValidation(t *testing.T) {
	ok := CompleteRequest{ActualWeight: decimal.RequireFromString("4.8"), VerificationCode: "004211"}
	assert.NoError(t, ok.Validate())

	bad := ok
	bad.VerificationCode = "12ab56"
	assert.Error(t, bad.Validate())

	bad = ok
	bad.ActualWeight = decimal.NewFromInt(-1)
	assert.Error(t, bad.Validate())

	bad = ok
	bad.ImageURLs = []string{"not a url"}
	assert.Error(t, bad.Validate())
}

func TestWeightMustFitStorageColumn(t *testing.T) {
	for _, weight := range []string{"0.004", "1.114", "100000000000"} {
		create := CreateRequest{
			WasteCategoryID: uuid.New(),
			AddressID:       uuid.New(),
			EstimatedWeight: decimal.RequireFromString(weight),
		}
		err := create.Validate()
		require.Error(t, err, weight)
		assert.Contains(t, err.Error(), "estimatedWeight", weight)

		complete := CompleteRequest{ActualWeight: decimal.RequireFromString(weight), VerificationCode: "004211"}
		err = complete.Validate()
		require.Error(t, err, weight)
		assert.Contains(t, err.Error(), "actualWeight", weight)
	}

	edge := CompleteRequest{ActualWeight: decimal.RequireFromString("99999999.99"), VerificationCode: "004211"}
	assert.NoError(t, edge.Validate())
}
