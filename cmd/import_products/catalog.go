package main

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/GukMaksim/construction-inventory/internal/application/dto"
	"github.com/GukMaksim/construction-inventory/internal/domain/entity"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type catalogRow struct {
	line    int
	request dto.CreateProductRequest
}

// alias de cabecera -> columna canónica
var headerAliases = map[string]string{
	"code":         "code",
	"код":          "code",
	"артикул":      "code",
	"name":         "name",
	"наименование": "name",
	"название":     "name",
	"unit":         "unit",
	"ед":           "unit",
	"ед.изм":       "unit",
	"price":        "price",
	"цена":         "price",
	"min_quantity": "min_quantity",
	"minquantity":  "min_quantity",
	"мин":          "min_quantity",
	"barcode":      "barcode",
	"штрихкод":     "barcode",
}

// unidades tal como vienen de 1C
var unitAliases = map[string]string{
	"шт":   entity.UnitPiece,
	"м":    entity.UnitMeter,
	"кг":   entity.UnitKg,
	"л":    entity.UnitLiter,
	"уп":   entity.UnitPack,
	"упак": entity.UnitPack,
	"м2":   entity.UnitM2,
	"м²":   entity.UnitM2,
	"м3":   entity.UnitM3,
	"м³":   entity.UnitM3,
}

// decodeReader convierte la entrada a UTF-8 (quitando el BOM si lo hay).
func decodeReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8":
		return transform.NewReader(r, unicode.UTF8BOM.NewDecoder()), nil
	case "windows-1251", "cp1251", "win1251":
		return transform.NewReader(r, charmap.Windows1251.NewDecoder()), nil
	}
	return nil, fmt.Errorf("codificación %q no admitida (utf-8 | windows-1251)", encoding)
}

// readCatalog lee el CSV. Las filas inválidas se devuelven como errores y no detienen la lectura.
func readCatalog(r io.Reader, delimiter rune) ([]catalogRow, []error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, []error{fmt.Errorf("leer cabecera: %w", err)}
	}
	columns := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(h)), ".")
		if canonical, ok := headerAliases[key]; ok {
			columns[canonical] = i
		}
	}
	for _, required := range []string{"code", "name", "unit"} {
		if _, ok := columns[required]; !ok {
			return nil, []error{fmt.Errorf("falta la columna %q", required)}
		}
	}

	var (
		rows []catalogRow
		errs []error
	)
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("línea %d: %w", line, err))
			continue
		}
		field := func(name string) string {
			i, ok := columns[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}
		if strings.Join(record, "") == "" {
			continue
		}

		req := dto.CreateProductRequest{
			Code:    field("code"),
			Name:    field("name"),
			Barcode: field("barcode"),
			Unit:    parseUnit(field("unit")),
		}
		if req.Price, err = parseNumber(field("price")); err != nil {
			errs = append(errs, fmt.Errorf("línea %d: precio: %w", line, err))
			continue
		}
		if req.MinQuantity, err = parseNumber(field("min_quantity")); err != nil {
			errs = append(errs, fmt.Errorf("línea %d: mínimo: %w", line, err))
			continue
		}
		if req.Code == "" || req.Name == "" {
			errs = append(errs, fmt.Errorf("línea %d: código y nombre son obligatorios", line))
			continue
		}
		if !entity.IsValidUnit(req.Unit) {
			errs = append(errs, fmt.Errorf("línea %d: unidad %q desconocida", line, field("unit")))
			continue
		}
		rows = append(rows, catalogRow{line: line, request: req})
	}
	return rows, errs
}

func parseUnit(s string) string {
	key := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), ".")
	if unit, ok := unitAliases[key]; ok {
		return unit
	}
	return strings.ToUpper(key)
}

// parseNumber acepta coma decimal y espacios de miles ("1 250,50"). Vacío = 0.
func parseNumber(s string) (decimal.Decimal, error) {
	s = strings.NewReplacer(" ", "", "\u00a0", "", ",", ".").Replace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
