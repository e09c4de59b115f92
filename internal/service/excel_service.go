package service

import (
	"fmt"
	"strings"
	"time"

	"surety-web/internal/models"

	"github.com/xuri/excelize/v2"
)

type ExcelService struct{}

func NewExcelService() *ExcelService {
	return &ExcelService{}
}

// ParseSuretyFile reads the first sheet and maps each data row through the
// column synonym table. Cells are read raw so date cells arrive as their
// serial day-count instead of a locale-formatted string. Unrecognized columns
// are ignored; rows with no recognized non-empty cell come back empty and the
// importer reports them as unparseable.
func (s *ExcelService) ParseSuretyFile(filePath string) ([]RawRow, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("file must contain at least header row and one data row")
	}

	// Resolve each header column to a canonical field once.
	fieldByColumn := make(map[int]string)
	for col, header := range rows[0] {
		if field, ok := CanonicalField(SuretyColumnSynonyms, header); ok {
			fieldByColumn[col] = field
		}
	}
	if len(fieldByColumn) == 0 {
		return nil, fmt.Errorf("no recognized columns in header row")
	}

	var parsed []RawRow
	for i := 1; i < len(rows); i++ {
		row := make(RawRow)
		for col, field := range fieldByColumn {
			value := strings.TrimSpace(getCellValue(rows[i], col))
			if value != "" {
				row[field] = value
			}
		}
		parsed = append(parsed, row)
	}

	return parsed, nil
}

// UserRow is one row of a user import spreadsheet.
type UserRow struct {
	FullName string
	DOB      string
	MobileNo string
	Village  string
	EmailID  string
}

var userColumnSynonyms = []ColumnSynonym{
	{"full_name", []string{"Full Name", "fullName"}},
	{"dob", []string{"DOB (YYYY-MM-DD)", "DOB", "dob"}},
	{"mobile_no", []string{"Mobile No", "mobileNo"}},
	{"village", []string{"Village", "village"}},
	{"email_id", []string{"Email ID", "emailId"}},
}

// ParseUserFile reads user rows for bulk member onboarding.
func (s *ExcelService) ParseUserFile(filePath string) ([]UserRow, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("file must contain at least header row and one data row")
	}

	fieldByColumn := make(map[int]string)
	for col, header := range rows[0] {
		if field, ok := CanonicalField(userColumnSynonyms, header); ok {
			fieldByColumn[col] = field
		}
	}

	var parsed []UserRow
	for i := 1; i < len(rows); i++ {
		values := make(map[string]string)
		for col, field := range fieldByColumn {
			values[field] = strings.TrimSpace(getCellValue(rows[i], col))
		}
		parsed = append(parsed, UserRow{
			FullName: values["full_name"],
			DOB:      values["dob"],
			MobileNo: values["mobile_no"],
			Village:  values["village"],
			EmailID:  values["email_id"],
		})
	}

	return parsed, nil
}

var suretyExportHeaders = []string{
	"Surety Name", "Address", "Aadhar No.", "Police Station", "Case/FIR No.",
	"Act Name", "Section", "Accused Name", "Accused Address", "Court City",
	"Surety Amount", "Surety Date", "Assigned To", "Mobile No",
}

// ExportSureties writes all records to a styled workbook.
func (s *ExcelService) ExportSureties(sureties []models.SuretyWithOwner, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sureties"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	for i, header := range suretyExportHeaders {
		cell := fmt.Sprintf("%s1", getColumnName(i))
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIdx, surety := range sureties {
		row := rowIdx + 2

		var dateStr string
		if surety.DateOfSurety != nil {
			dateStr = surety.DateOfSurety.Format("2006-01-02")
		}

		values := []interface{}{
			surety.SuretyName,
			surety.Address,
			surety.AadharNo,
			surety.PoliceStation,
			surety.CaseFirNo,
			surety.ActName,
			surety.Section,
			surety.AccusedName,
			surety.AccusedAddress,
			surety.CourtCity,
			surety.Amount,
			dateStr,
			surety.OwnerFullName,
			surety.OwnerMobileNo,
		}

		for colIdx, value := range values {
			cell := fmt.Sprintf("%s%d", getColumnName(colIdx), row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", getColumnName(len(suretyExportHeaders)-1)), headerStyle)

	columnWidths := []float64{25, 30, 16, 20, 16, 20, 12, 25, 30, 15, 15, 14, 25, 14}
	for i, width := range columnWidths {
		colName := getColumnName(i)
		f.SetColWidth(sheetName, colName, colName, width)
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.SaveAs(outputPath)
}

// GenerateSuretyTemplate creates a template workbook for surety upload.
func (s *ExcelService) GenerateSuretyTemplate(outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Surety Records"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	headers := []string{
		"Surety Name", "Address", "Aadhar No.", "Police Station", "Case/FIR No.",
		"Act Name", "Section", "Accused Name", "Accused Address", "Court City",
		"Surety Amount", "Surety Date",
	}

	for i, header := range headers {
		cell := fmt.Sprintf("%s1", getColumnName(i))
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", getColumnName(len(headers)-1)), headerStyle)

	sampleData := [][]interface{}{
		{"Ramesh Kumar", "12 Station Road, Pune", "123456789012", "Shivaji Nagar", "FIR/2024/0117",
			"IPC", "420", "Suresh Patil", "45 MG Road, Pune", "Pune", 50000, "15/03/2024"},
		{"Anita Deshmukh", "8 Lake View, Nashik", "234567890123", "Panchavati", "FIR/2024/0204",
			"NDPS Act", "20(b)", "Vikram Joshi", "3 College Road, Nashik", "Nashik", 25000.50, "2024-04-02"},
	}

	for rowIdx, rowData := range sampleData {
		row := rowIdx + 2
		for colIdx, value := range rowData {
			cell := fmt.Sprintf("%s%d", getColumnName(colIdx), row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	instructionsStartRow := len(sampleData) + 4
	instructions := []string{
		"Instructions:",
		"1. Aadhar No.: exactly 12 digits; each record must have a unique number",
		"2. Surety Amount: numeric, greater than zero",
		"3. Surety Date: DD/MM/YYYY or YYYY-MM-DD; left blank, the import date is used",
		"4. All other columns are required",
		"",
		"Note: Do not modify the header row. Fill data starting from row 2.",
	}

	for i, instruction := range instructions {
		cell := fmt.Sprintf("A%d", instructionsStartRow+i)
		f.SetCellValue(sheetName, cell, instruction)
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.SaveAs(outputPath)
}

// Helper functions
func getCellValue(row []string, index int) string {
	if index < len(row) {
		return row[index]
	}
	return ""
}

func getColumnName(index int) string {
	result := ""
	for index >= 0 {
		result = string(rune('A'+(index%26))) + result
		index = index/26 - 1
	}
	return result
}

// ExportFileName builds a timestamped export file name.
func ExportFileName(prefix string) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, time.Now().Format("20060102_150405"))
}
