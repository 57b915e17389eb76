package assignment

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imprint/internal/domain"
)

type fakeRows struct {
	rows [][3]any
	pos  int
	err  error
}

func (r *fakeRows) Next() bool {
	r.pos++
	return r.pos <= len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.pos-1]
	*dest[0].(*string) = row[0].(string)
	*dest[1].(*string) = row[1].(string)
	*dest[2].(*sql.NullString) = row[2].(sql.NullString)
	return nil
}

func (r *fakeRows) Err() error { return r.err }

func TestCollectRows(t *testing.T) {
	rows := &fakeRows{rows: [][3]any{
		{"test_a", "testcaseid", sql.NullString{String: "12345", Valid: true}},
		{"test_a", "smoke", sql.NullString{}},
		{"test_b[1]", "flaky", sql.NullString{String: "3, reruns_delay=2", Valid: true}},
	}}

	a, err := collectRows(rows)
	require.NoError(t, err)
	assert.Equal(t, []string{"testcaseid(12345)", "smoke"}, domain.MarkerStrings(a.Lookup("test_a")))
	assert.Equal(t, []string{"flaky(3, reruns_delay=2)"}, domain.MarkerStrings(a.Lookup("test_b[1]")))

	t.Run("invalid mark name", func(t *testing.T) {
		_, err := collectRows(&fakeRows{rows: [][3]any{{"test_a", "not valid", sql.NullString{}}}})
		assert.ErrorIs(t, err, ErrInvalidMark)
	})

	t.Run("iteration error", func(t *testing.T) {
		iterErr := errors.New("connection reset")
		_, err := collectRows(&fakeRows{err: iterErr})
		assert.ErrorIs(t, err, iterErr)
	})
}

func TestLoadDBConfig(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "3307")
	t.Setenv("DB_USERNAME", "qa")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_DATABASE", "testrail")

	cfg := LoadDBConfig(t.TempDir())
	assert.Equal(t, DBConfig{Host: "db.internal", Port: "3307", User: "qa", Password: "secret", Database: "testrail"}, cfg)

	parsed, err := mysql.ParseDSN(cfg.DSN())
	require.NoError(t, err)
	assert.Equal(t, "qa", parsed.User)
	assert.Equal(t, "secret", parsed.Passwd)
	assert.Equal(t, "tcp", parsed.Net)
	assert.Equal(t, "db.internal:3307", parsed.Addr)
	assert.Equal(t, "testrail", parsed.DBName)
}

func TestNewMySQLSource(t *testing.T) {
	src, err := NewMySQLSource(DBConfig{}, "imprint_marks", nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT test_name, mark_name, mark_args FROM `imprint_marks` ORDER BY test_name, position", src.query())

	_, err = NewMySQLSource(DBConfig{}, "marks`; DROP TABLE x", nil)
	assert.Error(t, err)
}
