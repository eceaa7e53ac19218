package logger

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/tealeg/xlsx"
)

var exportHeader = []string{
	"Id",
	"Installation Id",
	"File Path",
	"Offset",
	"Typed Text",
	"Entry Count",
	"Inserted Texts",
	"Created At",
}

// ExportXLSX writes every entry into a single sheet of a new workbook at path.
func (log *Logger) ExportXLSX(path string) error {
	it, err := log.Entries()
	if err != nil {
		return err
	}

	wb := xlsx.NewFile()
	sheet, err := wb.AddSheet("completions")
	if err != nil {
		return errors.Wrap(err, "add sheet")
	}

	row := sheet.AddRow()
	for _, title := range exportHeader {
		row.AddCell().SetString(title)
	}

	for it.Next() {
		entry, err := it.Value()
		if err != nil {
			return err
		}

		createdAt := ""
		if entry.CreatedAt != nil && entry.CreatedAt.Valid {
			createdAt = entry.CreatedAt.Time.Format(time.RFC3339)
		}

		row = sheet.AddRow()
		row.AddCell().SetInt(entry.Id)
		row.AddCell().SetString(entry.InstallationId)
		row.AddCell().SetString(entry.FilePath)
		row.AddCell().SetInt(entry.Offset)
		row.AddCell().SetString(entry.TypedText)
		row.AddCell().SetInt(entry.EntryCount)
		row.AddCell().SetString(strings.Join(entry.InsertedTexts, ", "))
		row.AddCell().SetString(createdAt)
	}

	if err := wb.Save(path); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	return nil
}
