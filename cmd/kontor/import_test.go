package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBankCSV = `Buchungstag;Empfänger;IBAN;Verwendungszweck;Betrag
10.03.2024;Acme GmbH;DE02120300000000202051;RG 2024-001;1.190,00
15.03.2024;Hetzner Online GmbH;DE12500105170648489890;Server 2024-03;-238,00
invalid-date;Broken;DE00;skip me;10,00
`

func TestParseBankCSV(t *testing.T) {
	txns, err := parseBankCSV(strings.NewReader(sampleBankCSV), "test.csv")
	require.NoError(t, err)
	require.Len(t, txns, 2, "header and malformed rows are skipped")

	incoming := txns[0]
	assert.Equal(t, "Acme GmbH", incoming.CounterpartName)
	assert.Equal(t, "DE02120300000000202051", incoming.CounterpartIBAN)
	assert.Equal(t, "RG 2024-001", incoming.Purpose)
	assert.InDelta(t, 1190, incoming.Amount, 0.001, "German decimal comma and thousands dot")
	assert.Equal(t, 2024, incoming.Date.Year())
	assert.NotEmpty(t, incoming.Hash)
	assert.True(t, strings.HasPrefix(incoming.ID, "csv:"))

	outgoing := txns[1]
	assert.InDelta(t, -238, outgoing.Amount, 0.001)
}

func TestParseCSVDate(t *testing.T) {
	german, err := parseCSVDate("10.03.2024")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", german.Format("2006-01-02"))

	iso, err := parseCSVDate("2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, german, iso)

	_, err = parseCSVDate("03/10/2024")
	assert.Error(t, err)
}
