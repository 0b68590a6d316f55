// Package sheet maps Go structs to rows of a Google Sheets spreadsheet.
//
// A record is a struct whose value implements Record. Fields take part when they
// carry a sheet tag holding their zero-based column index:
//
//	type Weight struct {
//		Date  string  `sheet:"0"`
//		Value float64 `sheet:"1,name=Weight (kg)"`
//	}
//
//	func (Weight) SheetName() string { return "Weight" }
//
// Columns are laid out contiguously from column A in index order. GetSheet,
// CreateSheet, InsertValue and InsertValues read and write records through a
// Client bound to one spreadsheet.
package sheet
