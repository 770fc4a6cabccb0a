package storage

import (
	"context"
	"os"
	"strings"

	gc "gopkg.in/check.v1"

	"ModelScout/internal/config"
	"ModelScout/internal/infrastructure/storage/storetest"
)

var _ = gc.Suite(new(SQLSessionLogTestSuite))

// SQLSessionLogTestSuite runs against SESSION_TEST_DRIVER (postgres by
// default) at SESSION_TEST_DSN.
type SQLSessionLogTestSuite struct {
	storetest.SuiteBase
	store *SQLSessionLog
}

func (s *SQLSessionLogTestSuite) SetUpSuite(c *gc.C) {
	dsn := os.Getenv("SESSION_TEST_DSN")
	if dsn == "" {
		c.Skip("missing session test dsn; skipping sql session log suite")
	}
	driver := os.Getenv("SESSION_TEST_DRIVER")
	if driver == "" {
		driver = Postgres.Driver
	}

	store, err := Open(context.Background(), config.SessionConfig{Driver: driver, DSN: dsn})
	c.Assert(err, gc.IsNil)
	sqlStore, ok := store.(*SQLSessionLog)
	c.Assert(ok, gc.Equals, true)
	s.store = sqlStore
	s.SetSessionLog(sqlStore)
}

func (s *SQLSessionLogTestSuite) TearDownSuite(c *gc.C) {
	if s.store != nil {
		s.flushDB(c)
		c.Assert(s.store.Close(), gc.IsNil)
	}
}

func (s *SQLSessionLogTestSuite) SetUpTest(c *gc.C) {
	s.flushDB(c)
}

func (s *SQLSessionLogTestSuite) flushDB(c *gc.C) {
	_, err := s.store.db.Exec("DELETE FROM " + sessionTable)
	c.Assert(err, gc.IsNil)
}

type OpenTestSuite struct{}

var _ = gc.Suite(new(OpenTestSuite))

func (s *OpenTestSuite) TestMemoryIsDefault(c *gc.C) {
	store, err := Open(context.Background(), config.SessionConfig{})
	c.Assert(err, gc.IsNil)
	_, ok := store.(*MemorySessionLog)
	c.Assert(ok, gc.Equals, true)
	c.Assert(store.Close(), gc.IsNil)
}

func (s *OpenTestSuite) TestUnknownDriver(c *gc.C) {
	_, err := Open(context.Background(), config.SessionConfig{Driver: "sqlite"})
	c.Assert(err, gc.ErrorMatches, `unsupported session driver "sqlite"`)
}

func (s *OpenTestSuite) TestSQLRequiresDSN(c *gc.C) {
	_, err := Open(context.Background(), config.SessionConfig{Driver: "postgres"})
	c.Assert(err, gc.ErrorMatches, "postgres session driver requires a dsn")
}

func (s *OpenTestSuite) TestMySQLDSNForcesParseTime(c *gc.C) {
	dsn, err := mysqlDSN("user:pass@tcp(localhost:3306)/scout")
	c.Assert(err, gc.IsNil)
	c.Assert(strings.Contains(dsn, "parseTime=true"), gc.Equals, true)
}

func (s *OpenTestSuite) TestPlaceholderFormats(c *gc.C) {
	pg := NewSQLSessionLog(nil, Postgres)
	query, _, err := pg.builder.Select("tool").From(sessionTable).Where("session_id = ?", "a").ToSql()
	c.Assert(err, gc.IsNil)
	c.Assert(query, gc.Equals, "SELECT tool FROM session_entries WHERE session_id = $1")

	my := NewSQLSessionLog(nil, MySQL)
	query, _, err = my.builder.Select("tool").From(sessionTable).Where("session_id = ?", "a").ToSql()
	c.Assert(err, gc.IsNil)
	c.Assert(query, gc.Equals, "SELECT tool FROM session_entries WHERE session_id = ?")
}
