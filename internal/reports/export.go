package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportXlsx выгружает сводку в Excel: лист с продажами по продуктам
// и лист с выручкой по материалам.
func ExportXlsx(s Summary) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(sheet, "sales"); err != nil {
		return nil, err
	}
	sheet = "sales"

	header := []interface{}{"product", "quantity", "percent"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	for i := range s.Labels {
		row := []interface{}{
			s.Labels[i],
			s.Quantities[i],
			fmt.Sprintf("%.1f%%", s.Percentages[i]),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	revSheet := "revenue_by_material"
	if _, err := f.NewSheet(revSheet); err != nil {
		return nil, err
	}
	revHeader := []interface{}{"material", "revenue"}
	if err := f.SetSheetRow(revSheet, "A1", &revHeader); err != nil {
		return nil, err
	}
	for i, r := range s.Revenue {
		row := []interface{}{r.Material, r.Revenue.String()}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(revSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileName — имя выгрузки с отметкой времени, как у остальных отчётов.
func FileName(now time.Time) string {
	return fmt.Sprintf("sales_%s.xlsx", now.Format("20060102_150405"))
}
