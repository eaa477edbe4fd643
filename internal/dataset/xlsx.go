package dataset

import (
	"bytes"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "superstore-dashboard/internal/errors"
	"superstore-dashboard/internal/models"
)

// Excel stores dates as day counts since 1899-12-30. Serial bounds keep
// plain numeric columns from being misread as dates: 60 is 1900-02-28,
// 2958465 is 9999-12-31.
const (
	minExcelSerial = 60
	maxExcelSerial = 2958465
)

func loadXLSX(data []byte) ([]models.Order, *LoadReport, error) {
	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, apperrors.FormatWrap(err, "cannot parse input as spreadsheet")
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, apperrors.Format("spreadsheet has no sheets")
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, nil, apperrors.FormatWrap(err, "cannot read spreadsheet rows")
	}

	return buildTable(rows)
}

func parseExcelSerial(value string) (t time.Time, ok bool) {
	serial, err := strconv.ParseFloat(value, 64)
	if err != nil || serial < minExcelSerial || serial > maxExcelSerial {
		return t, false
	}
	parsed, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return t, false
	}
	return parsed, true
}
