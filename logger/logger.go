package logger

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"math/rand"
	"path/filepath"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/lucasepe/codename"

	_ "embed"

	"github.com/nedpals/enumcomplete/helpers"
	_ "modernc.org/sqlite"
)

const (
	installationIdKey = "installation_id"
	seedKey           = "_seed"
)

type NullTime struct {
	Time  time.Time
	Valid bool // Valid is true if Time is not NULL
}

// Scan implements the Scanner interface.
func (nt *NullTime) Scan(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case nil:
		nt.Valid = false
		return nil
	case time.Time:
		nt.Time, nt.Valid = v, true
		return nil
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return errors.Newf("unsupported time value %T", value)
	}

	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return errors.Wrapf(err, "parse time %q", raw)
	}

	nt.Time = t
	nt.Valid = true
	return nil
}

// Value implements the driver Valuer interface.
func (nt NullTime) Value() (driver.Value, error) {
	if !nt.Valid {
		return time.Now().Format(time.RFC3339Nano), nil
	}
	return nt.Time.Format(time.RFC3339Nano), nil
}

// Texts is stored as a JSON array.
type Texts []string

func (t *Texts) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*t = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.Newf("unsupported texts value %T", value)
	}
	return json.Unmarshal(raw, (*[]string)(t))
}

func (t Texts) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

//go:embed init.sql
var initScript string

// Logger records completion requests into a sqlite database.
type Logger struct {
	installationId string
	db             *sqlx.DB
}

func NewMemoryLogger() (*Logger, error) {
	return setupLogger(":memory:")
}

func NewMemoryLoggerPanic() *Logger {
	logger, err := NewMemoryLogger()
	if err != nil {
		panic(err)
	}
	return logger
}

func NewLogger() (*Logger, error) {
	dirPath, err := helpers.GetOrInitializeDataDir()
	if err != nil {
		return nil, err
	}

	return NewLoggerFromPath(filepath.Join(dirPath, "usage.db"))
}

func NewLoggerFromPath(path string) (*Logger, error) {
	if !filepath.IsAbs(path) {
		rPath, err := filepath.Abs(path)
		if err != nil {
			return nil, errors.Wrapf(err, "resolve %s", path)
		}

		path = rPath
	}

	return setupLogger(path)
}

func setupLogger(dbPath string) (*Logger, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", dbPath)
	}

	// every connection to :memory: is a new database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(initScript); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "initialize usage database")
	}

	logger := &Logger{db: db}
	if err := logger.Setup(); err != nil {
		db.Close()
		return nil, err
	}
	return logger, nil
}

func (log *Logger) GetSetting(key string) (string, error) {
	query, args, err := sq.Select("value").From("settings").Where(sq.Eq{"name": key}).ToSql()
	if err != nil {
		return "", err
	}

	var val string
	err = log.db.QueryRow(query, args...).Scan(&val)
	return val, err
}

func (log *Logger) AddSetting(key, value string) error {
	query, args, err := sq.Insert("settings").
		Options("OR REPLACE").
		Columns("name", "value").
		Values(key, value).
		ToSql()
	if err != nil {
		return err
	}

	_, err = log.db.Exec(query, args...)
	return err
}

func (log *Logger) DeleteSetting(key string) error {
	query, args, err := sq.Delete("settings").Where(sq.Eq{"name": key}).ToSql()
	if err != nil {
		return err
	}

	_, err = log.db.Exec(query, args...)
	return err
}

// InstallationId is the codename identifying this installation in exported
// logs.
func (log *Logger) InstallationId() string {
	if len(log.installationId) == 0 {
		val, _ := log.GetSetting(installationIdKey)
		log.installationId = val
	}
	return log.installationId
}

// GenerateInstallationId replaces the installation id with a new codename.
func (log *Logger) GenerateInstallationId() error {
	seed := int64(0)

	if rawSeed, err := log.GetSetting(seedKey); err == nil {
		storedSeed, err := strconv.ParseInt(rawSeed, 10, 64)
		if err != nil {
			return errors.Wrap(err, "parse seed")
		}
		seed = storedSeed
	} else if errors.Is(err, sql.ErrNoRows) {
		generatedSeed, err := log.GenerateSeed()
		if err != nil {
			return err
		}
		seed = generatedSeed
	} else {
		return err
	}

	rng := rand.New(rand.NewSource(seed))
	installationId := codename.Generate(rng, 4)
	if installationId == log.InstallationId() {
		// same seed, same name
		if err := log.DeleteSetting(seedKey); err != nil {
			return err
		}

		return log.GenerateInstallationId()
	}

	if err := log.AddSetting(installationIdKey, installationId); err != nil {
		return err
	}

	log.installationId = ""
	return nil
}

func (log *Logger) Setup() error {
	if len(log.InstallationId()) == 0 {
		return log.GenerateInstallationId()
	}
	return nil
}

func (log *Logger) GenerateSeed() (int64, error) {
	seed, err := codename.NewCryptoSeed()
	if err != nil {
		return 0, errors.Wrap(err, "generate seed")
	}

	_ = log.AddSetting(seedKey, strconv.FormatInt(seed, 10))
	return seed, nil
}

// LogEntry is one completion request.
type LogEntry struct {
	Id             int       `db:"id"`
	InstallationId string    `db:"installation_id"`
	FilePath       string    `db:"file_path"`
	Offset         int       `db:"cursor_offset"`
	TypedText      string    `db:"typed_text"`
	EntryCount     int       `db:"entry_count"`
	InsertedTexts  Texts     `db:"inserted_texts"`
	CreatedAt      *NullTime `db:"created_at"`
}

func (log *Logger) Log(entry LogEntry) error {
	if len(entry.InstallationId) == 0 {
		entry.InstallationId = log.InstallationId()
	}

	if entry.CreatedAt == nil || !entry.CreatedAt.Valid || entry.CreatedAt.Time.IsZero() {
		entry.CreatedAt = &NullTime{Time: time.Now(), Valid: true}
	}

	if entry.EntryCount == 0 {
		entry.EntryCount = len(entry.InsertedTexts)
	}

	query, args, err := sq.Insert("completions").
		Columns("installation_id", "file_path", "cursor_offset", "typed_text",
			"entry_count", "inserted_texts", "created_at").
		Values(entry.InstallationId, entry.FilePath, entry.Offset, entry.TypedText,
			entry.EntryCount, entry.InsertedTexts, entry.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}

	_, err = log.db.Exec(query, args...)
	return errors.Wrap(err, "insert completion")
}

// LogEntryIterator streams entries without loading all of them into memory.
type LogEntryIterator struct {
	rows *sqlx.Rows
}

func (it *LogEntryIterator) Next() bool {
	res := it.rows.Next()
	if !res {
		it.rows.Close()
	}
	return res
}

func (it *LogEntryIterator) Value() (LogEntry, error) {
	var entry LogEntry
	if err := it.rows.StructScan(&entry); err != nil {
		it.rows.Close()
		return LogEntry{}, err
	}
	return entry, nil
}

func (it *LogEntryIterator) List() ([]LogEntry, error) {
	var entries []LogEntry
	for it.Next() {
		entry, err := it.Value()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, it.rows.Err()
}

func (log *Logger) query(builder sq.SelectBuilder) (*LogEntryIterator, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := log.db.Queryx(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query completions")
	}
	return &LogEntryIterator{rows: rows}, nil
}

func entriesQuery() sq.SelectBuilder {
	return sq.Select("*").From("completions").OrderBy("id")
}

func (log *Logger) Entries() (*LogEntryIterator, error) {
	return log.query(entriesQuery())
}

func (log *Logger) EntriesByFile(path string) (*LogEntryIterator, error) {
	return log.query(entriesQuery().Where(sq.Eq{"file_path": path}))
}

func (log *Logger) EntriesByInstallationId(installationId string) (*LogEntryIterator, error) {
	return log.query(entriesQuery().Where(sq.Eq{"installation_id": installationId}))
}

// Reset deletes the entries recorded by this installation.
func (log *Logger) Reset() error {
	query, args, err := sq.Delete("completions").
		Where(sq.Eq{"installation_id": log.InstallationId()}).
		ToSql()
	if err != nil {
		return err
	}

	_, err = log.db.Exec(query, args...)
	return errors.Wrap(err, "reset completions")
}

func (log *Logger) Close() error {
	if log == nil || log.db == nil {
		return nil
	}
	return log.db.Close()
}
