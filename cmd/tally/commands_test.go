package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yurifrl/tally/pkg/models"
	"github.com/yurifrl/tally/pkg/parser"
)

func TestAddOptionsBuild(t *testing.T) {
	tx, err := addOptions{kind: "income", amount: "2000.12", category: "Salary", source: "Work"}.build()
	require.NoError(t, err)
	assert.Equal(t, models.KindIncome, tx.Kind())
	assert.Equal(t, "Work", tx.Source())

	_, err = addOptions{amount: "5", category: "Misc"}.build()
	assert.ErrorIs(t, err, parser.ErrKindRequired)

	_, err = addOptions{kind: "expense", amount: "five", category: "Misc"}.build()
	assert.ErrorIs(t, err, models.ErrTypeValidation)
}
