package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/GukMaksim/construction-inventory/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestReadCatalog_CabecerasRusasYComaDecimal(t *testing.T) {
	csv := "Код;Наименование;Ед.;Цена;Мин\n" +
		"CAB-3x2.5;Кабель ВВГ 3x2.5;м;95,50;100\n" +
		"PPR-20;Труба PPR 20;м.;1 250,00;\n"

	rows, errs := readCatalog(strings.NewReader(csv), ';')
	require.Empty(t, errs)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, 2, first.line)
	assert.Equal(t, "CAB-3x2.5", first.request.Code)
	assert.Equal(t, entity.UnitMeter, first.request.Unit)
	assert.Equal(t, "95.5", first.request.Price.String())
	assert.Equal(t, "100", first.request.MinQuantity.String())

	assert.Equal(t, "1250", rows[1].request.Price.String())
	assert.True(t, rows[1].request.MinQuantity.IsZero())
}

func TestReadCatalog_FilasInvalidasNoDetienenLaLectura(t *testing.T) {
	csv := "code,name,unit,price\n" +
		"A-1,Arena,M3,10\n" +
		"A-2,Grava,TONELADA,10\n" +
		",Sin código,PIECE,1\n" +
		"A-3,Cemento,KG,abc\n" +
		"A-4,Ladrillo,шт,0.5\n"

	rows, errs := readCatalog(strings.NewReader(csv), ',')
	require.Len(t, rows, 2)
	assert.Equal(t, "A-1", rows[0].request.Code)
	assert.Equal(t, entity.UnitPiece, rows[1].request.Unit)
	require.Len(t, errs, 3)
	assert.Contains(t, errs[0].Error(), "línea 3")
	assert.Contains(t, errs[0].Error(), "TONELADA")
}

func TestReadCatalog_FaltaColumnaObligatoria(t *testing.T) {
	_, errs := readCatalog(strings.NewReader("code;name\nA;B\n"), ';')
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), `"unit"`)
}

func TestDecodeReader(t *testing.T) {
	encoded, err := charmap.Windows1251.NewEncoder().String("Кабель")
	require.NoError(t, err)

	r, err := decodeReader(bytes.NewReader([]byte(encoded)), "windows-1251")
	require.NoError(t, err)
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Кабель", string(out))

	r, err = decodeReader(strings.NewReader("\ufeffcode"), "utf-8")
	require.NoError(t, err)
	out, err = io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "code", string(out))

	_, err = decodeReader(strings.NewReader(""), "koi8-r")
	assert.Error(t, err)
}
