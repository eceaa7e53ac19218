package logger_test

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/nedpals/enumcomplete/logger"
	"github.com/tealeg/xlsx"
)

func TestLogger_Log(t *testing.T) {
	log, err := logger.NewMemoryLogger()
	if err != nil {
		t.Fatal(err)
	}
	defer log.Close()

	err = log.Log(logger.LogEntry{
		FilePath:      "/src/app.ts",
		Offset:        42,
		TypedText:     "Red",
		InsertedTexts: logger.Texts{"Color.Red"},
	})
	if err != nil {
		t.Fatal(err)
	}

	entriesIter, err := log.Entries()
	if err != nil {
		t.Fatal(err)
	}

	entries, err := entriesIter.List()
	if err != nil {
		t.Fatal(err)
	}

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	entry := entries[0]
	if entry.InstallationId != log.InstallationId() {
		t.Errorf("expected installation id %s, got %s", log.InstallationId(), entry.InstallationId)
	}

	if entry.EntryCount != 1 {
		t.Errorf("expected entry count to default to 1, got %d", entry.EntryCount)
	}

	if len(entry.InsertedTexts) != 1 || entry.InsertedTexts[0] != "Color.Red" {
		t.Errorf("expected inserted texts [Color.Red], got %v", entry.InsertedTexts)
	}

	if entry.CreatedAt == nil || !entry.CreatedAt.Valid {
		t.Error("expected created_at to be set")
	}
}

func TestLogger_Entries(t *testing.T) {
	log, err := logger.NewMemoryLogger()
	if err != nil {
		t.Fatal(err)
	}
	defer log.Close()

	for i := 0; i < 5; i++ {
		err = log.Log(logger.LogEntry{
			FilePath:  fmt.Sprintf("/src/file%d.ts", i),
			Offset:    i,
			TypedText: "Red",
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	entriesIter, err := log.Entries()
	if err != nil {
		t.Fatal(err)
	}

	entries, err := entriesIter.List()
	if err != nil {
		t.Fatal(err)
	}

	if len(entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(entries))
	}

	for i, entry := range entries {
		if entry.Offset != i {
			t.Errorf("expected entries in insertion order, got offset %d at %d", entry.Offset, i)
		}

		if entry.InsertedTexts == nil || len(entry.InsertedTexts) != 0 {
			t.Errorf("expected empty inserted texts, got %v", entry.InsertedTexts)
		}
	}
}

func TestLogger_EntriesByFile(t *testing.T) {
	log, err := logger.NewMemoryLogger()
	if err != nil {
		t.Fatal(err)
	}
	defer log.Close()

	for _, path := range []string{"/src/a.ts", "/src/b.ts", "/src/a.ts"} {
		if err := log.Log(logger.LogEntry{FilePath: path, TypedText: "Red"}); err != nil {
			t.Fatal(err)
		}
	}

	entriesIter, err := log.EntriesByFile("/src/a.ts")
	if err != nil {
		t.Fatal(err)
	}

	entries, err := entriesIter.List()
	if err != nil {
		t.Fatal(err)
	}

	if len(entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(entries))
	}
}

func TestLogger_Reset(t *testing.T) {
	log, err := logger.NewMemoryLogger()
	if err != nil {
		t.Fatal(err)
	}
	defer log.Close()

	installationIds := []string{log.InstallationId(), "other-installation"}
	for _, installationId := range installationIds {
		for i := 0; i < 3; i++ {
			err := log.Log(logger.LogEntry{InstallationId: installationId, FilePath: "/src/a.ts"})
			if err != nil {
				t.Fatal(err)
			}
		}
	}

	if err := log.Reset(); err != nil {
		t.Fatal(err)
	}

	entriesIter, err := log.Entries()
	if err != nil {
		t.Fatal(err)
	}

	entries, err := entriesIter.List()
	if err != nil {
		t.Fatal(err)
	}

	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	for _, entry := range entries {
		if entry.InstallationId != "other-installation" {
			t.Errorf("expected only other-installation entries to remain, got %s", entry.InstallationId)
		}
	}
}

func TestLogger_Settings(t *testing.T) {
	log, err := logger.NewMemoryLogger()
	if err != nil {
		t.Fatal(err)
	}
	defer log.Close()

	if err := log.AddSetting("key", "value"); err != nil {
		t.Fatal(err)
	}

	value, err := log.GetSetting("key")
	if err != nil {
		t.Fatal(err)
	}

	if value != "value" {
		t.Errorf("expected value to be value, got %s", value)
	}

	if err := log.AddSetting("key", "other"); err != nil {
		t.Fatal(err)
	}

	if value, _ := log.GetSetting("key"); value != "other" {
		t.Errorf("expected value to be replaced, got %s", value)
	}

	if err := log.DeleteSetting("key"); err != nil {
		t.Fatal(err)
	}

	if _, err := log.GetSetting("key"); err == nil {
		t.Error("expected error after deleting setting")
	}
}

func TestLogger_InstallationId(t *testing.T) {
	log, err := logger.NewMemoryLogger()
	if err != nil {
		t.Fatal(err)
	}
	defer log.Close()

	id := log.InstallationId()
	if len(id) == 0 {
		t.Fatal("expected installation id to be generated on setup")
	}

	if err := log.GenerateInstallationId(); err != nil {
		t.Fatal(err)
	}

	if newId := log.InstallationId(); newId == id || len(newId) == 0 {
		t.Errorf("expected a new installation id, got %s", newId)
	}
}

func TestLogger_FromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.db")

	log, err := logger.NewLoggerFromPath(path)
	if err != nil {
		t.Fatal(err)
	}

	id := log.InstallationId()
	if err := log.Log(logger.LogEntry{FilePath: "/src/a.ts", TypedText: "Red"}); err != nil {
		t.Fatal(err)
	}
	log.Close()

	reopened, err := logger.NewLoggerFromPath(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	if reopened.InstallationId() != id {
		t.Errorf("expected installation id %s to persist, got %s", id, reopened.InstallationId())
	}

	entriesIter, err := reopened.Entries()
	if err != nil {
		t.Fatal(err)
	}

	entries, err := entriesIter.List()
	if err != nil {
		t.Fatal(err)
	}

	if len(entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(entries))
	}
}

func TestLogger_ExportXLSX(t *testing.T) {
	log, err := logger.NewMemoryLogger()
	if err != nil {
		t.Fatal(err)
	}
	defer log.Close()

	err = log.Log(logger.LogEntry{
		FilePath:      "/src/a.ts",
		TypedText:     "Active",
		InsertedTexts: logger.Texts{"UserState.Active", "JobState.Active"},
	})
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "usage.xlsx")
	if err := log.ExportXLSX(path); err != nil {
		t.Fatal(err)
	}

	wb, err := xlsx.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}

	sheet, ok := wb.Sheet["completions"]
	if !ok {
		t.Fatal("expected completions sheet")
	}

	if len(sheet.Rows) != 2 {
		t.Fatalf("expected header and 1 row, got %d rows", len(sheet.Rows))
	}

	if got := sheet.Rows[1].Cells[6].Value; got != "UserState.Active, JobState.Active" {
		t.Errorf("expected inserted texts cell, got %s", got)
	}
}
