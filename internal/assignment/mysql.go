package assignment

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"imprint/internal/domain"
)

// DBConfig holds the connection settings of the test-management database
type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

// LoadDBConfig reads DB_* variables from the environment and the project's .env file
func LoadDBConfig(projectPath string) DBConfig {
	// .env might not exist, environment variables are used then
	_ = godotenv.Load(filepath.Join(projectPath, ".env"))

	return DBConfig{
		Host:     getenv("DB_HOST", "127.0.0.1"),
		Port:     getenv("DB_PORT", "3306"),
		User:     getenv("DB_USERNAME", "root"),
		Password: os.Getenv("DB_PASSWORD"),
		Database: getenv("DB_DATABASE", "imprint"),
	}
}

// DSN returns the go-sql-driver connection string
func (c DBConfig) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(c.Host, c.Port)
	cfg.DBName = c.Database
	return cfg.FormatDSN()
}

// MySQLSource reads assignments from a table with the columns
// test_name, mark_name, mark_args and position. mark_args holds the
// argument source text ("12345", "3, reruns_delay=2") or NULL.
type MySQLSource struct {
	config DBConfig
	table  string
	logger *zap.Logger
}

// NewMySQLSource creates a new MySQLSource
func NewMySQLSource(cfg DBConfig, table string, logger *zap.Logger) (*MySQLSource, error) {
	if !isIdentifier(table) || len(table) > 64 {
		return nil, fmt.Errorf("invalid table name: %q", table)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MySQLSource{config: cfg, table: table, logger: logger}, nil
}

// Load queries the table, ordering each test's markers by position
func (s *MySQLSource) Load(ctx context.Context) (domain.Assignment, error) {
	db, err := sql.Open("mysql", s.config.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database server: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database server: %w", err)
	}

	rows, err := db.QueryContext(ctx, s.query())
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()

	a, err := collectRows(rows)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.table, err)
	}
	s.logger.Info("loaded assignments from database",
		zap.String("database", s.config.Database),
		zap.String("table", s.table),
		zap.Int("tests", len(a)))
	return a, nil
}

func (s *MySQLSource) query() string {
	return fmt.Sprintf("SELECT test_name, mark_name, mark_args FROM `%s` ORDER BY test_name, position", s.table)
}

// rowScanner is the part of *sql.Rows collectRows needs
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func collectRows(rows rowScanner) (domain.Assignment, error) {
	a := make(domain.Assignment)
	for rows.Next() {
		var test, name string
		var args sql.NullString
		if err := rows.Scan(&test, &name, &args); err != nil {
			return nil, err
		}

		m, err := ParseMarker(name)
		if err != nil {
			return nil, fmt.Errorf("test %s: %w", test, err)
		}
		if args.Valid {
			parsed, err := splitArgs(args.String)
			if err != nil {
				return nil, fmt.Errorf("test %s: %w: %v", test, ErrInvalidMark, err)
			}
			m.Args = parsed
		}
		a.Add(test, m)
	}
	return a, rows.Err()
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
