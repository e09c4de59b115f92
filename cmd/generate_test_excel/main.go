package main

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

func main() {
	// Create new Excel file
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Surety Records"
	_, err := f.NewSheet(sheetName)
	if err != nil {
		fmt.Printf("Error creating sheet: %v\n", err)
		return
	}

	// Headers use a mix of the accepted spelling variants on purpose, to
	// exercise the synonym mapping the same way real operator files do.
	headers := []string{
		"Surety Name", "Address", "Aadhar No.", "Police Station", "Case/FIR No.",
		"Act Name", "Section", "Accused Name", "Accused Address", "courtCity",
		"shurityAmount", "shurityDate",
	}

	// Write headers
	for i, header := range headers {
		cell := fmt.Sprintf("%s1", getColumnName(i))
		f.SetCellValue(sheetName, cell, header)
	}

	// Set header style
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", getColumnName(len(headers)-1)), headerStyle)

	// Rows cover the interesting import paths:
	// - two clean rows that should both save
	// - an intra-file duplicate of the first aadhaar (exactly one may save)
	// - an impossible day-first date (must not roll over into March)
	// - a currency-formatted amount and a non-numeric amount
	// - a 10-digit aadhaar that fails validation
	testData := [][]interface{}{
		{"Ramesh Kumar", "12 Station Road, Pune", "123456789012", "Shivaji Nagar", "FIR/2024/0117",
			"IPC", "420", "Suresh Patil", "45 MG Road, Pune", "Pune", 50000, "15/03/2024"},
		{"Anita Deshmukh", "8 Lake View, Nashik", "234567890123", "Panchavati", "FIR/2024/0204",
			"NDPS Act", "20(b)", "Vikram Joshi", "3 College Road, Nashik", "Nashik", "₹ 25,000.50", "2024-04-02"},
		{"Ramesh K.", "12 Station Road, Pune", "123456789012", "Shivaji Nagar", "FIR/2024/0118",
			"IPC", "406", "Mahesh Patil", "46 MG Road, Pune", "Pune", 30000, "16/03/2024"},
		{"Sunil Pawar", "5 Hill Road, Satara", "345678901234", "Satara City", "FIR/2024/0301",
			"IPC", "379", "Ganesh More", "9 Market Road, Satara", "Satara", 15000, "31/02/2024"},
		{"Kavita Shinde", "22 River Side, Kolhapur", "456789012345", "Laxmipuri", "FIR/2024/0315",
			"Arms Act", "25", "Rahul Jadhav", "7 Fort Road, Kolhapur", "Kolhapur", "abc", "20/04/2024"},
		{"Prakash Gaikwad", "31 Main Road, Solapur", "5678901234", "Sadar Bazar", "FIR/2024/0322",
			"IPC", "420", "Nitin Kale", "14 Station Road, Solapur", "Solapur", 40000, "25/04/2024"},
	}

	for rowIdx, rowData := range testData {
		row := rowIdx + 2
		for colIdx, value := range rowData {
			cell := fmt.Sprintf("%s%d", getColumnName(colIdx), row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	// Column widths
	widths := []float64{25, 30, 16, 20, 16, 14, 10, 25, 30, 14, 14, 14}
	for i, width := range widths {
		colName := getColumnName(i)
		f.SetColWidth(sheetName, colName, colName, width)
	}

	f.DeleteSheet("Sheet1")

	outputPath := filepath.Join(".", "test_sureties.xlsx")
	if err := f.SaveAs(outputPath); err != nil {
		fmt.Printf("Error saving file: %v\n", err)
		return
	}

	fmt.Printf("Test file generated: %s (%d rows)\n", outputPath, len(testData))
}

func getColumnName(index int) string {
	result := ""
	for index >= 0 {
		result = string(rune('A'+(index%26))) + result
		index = index/26 - 1
	}
	return result
}
