package data

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLocalCSVSemicolonDecimalComma(t *testing.T) {
	// The legacy downloader export: semicolon separated, Portuguese
	// headers, decimal commas.
	dir := t.TempDir()
	writeCSV(t, dir, "PETR4.csv", `Data;Fechamento;Máxima;Mínima;Abertura
2024-01-02;37,45;37,90;36,80;37,00
2024-01-03;38,10;38,55;37,20;37,50
2024-01-04;37,80;38,20;37,40;38,00
`)

	prov := NewLocalCSVDataProvider(dir)
	bars, err := prov.GetDailyBars(context.Background(), "petr4",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, bars, 3)

	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), bars[0].Date)
	assert.InDelta(t, 37.45, bars[0].Close, 1e-9)
	assert.InDelta(t, 37.90, bars[0].High, 1e-9)
	assert.InDelta(t, 36.80, bars[0].Low, 1e-9)
	assert.InDelta(t, 37.00, bars[0].Open, 1e-9)
}

func TestLocalCSVCommaSeparated(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "VALE3.csv", `Date,Close,High,Low
2024-02-01,61.20,62.00,60.90
2024-02-02,61.80,62.10,61.10
`)

	bars, err := NewLocalCSVDataProvider(dir).GetDailyBars(context.Background(), "VALE3",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.InDelta(t, 61.20, bars[0].Close, 1e-9)
	assert.InDelta(t, 62.10, bars[1].High, 1e-9)
}

func TestLocalCSVDateRangeFilter(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "ABEV3.csv", `date;close;high;low
2023-12-28;14,00;14,10;13,90
2024-01-02;14,20;14,30;14,00
2024-01-03;14,10;14,40;14,05
`)

	bars, err := NewLocalCSVDataProvider(dir).GetDailyBars(context.Background(), "ABEV3",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), bars[0].Date)
}

func TestLocalCSVMissingTicker(t *testing.T) {
	_, err := NewLocalCSVDataProvider(t.TempDir()).GetDailyBars(context.Background(), "NOPE4",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrNoData)
}

func TestLocalCSVAllRowsOutOfRange(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "ITUB4.csv", `date;close
2020-05-05;25,00
`)

	_, err := NewLocalCSVDataProvider(dir).GetDailyBars(context.Background(), "ITUB4",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrNoData)
}

func TestLocalCSVBrazilianDateLayout(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "BBAS3.csv", `data;fechamento
02/01/2024;55,10
03/01/2024;55,70
`)

	bars, err := NewLocalCSVDataProvider(dir).GetDailyBars(context.Background(), "BBAS3",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), bars[0].Date)
	assert.InDelta(t, 55.10, bars[0].Close, 1e-9)
}
