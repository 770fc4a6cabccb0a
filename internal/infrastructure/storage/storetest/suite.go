// Package storetest holds the behavior every session log backend must share.
package storetest

import (
	"context"
	"fmt"
	"time"

	gc "gopkg.in/check.v1"

	"ModelScout/internal/domain"
	"ModelScout/internal/ports"
)

// SuiteBase runs against whatever log SetSessionLog installed.
type SuiteBase struct {
	log ports.SessionLog
}

// SetSessionLog configures the suite to run against log.
func (s *SuiteBase) SetSessionLog(log ports.SessionLog) {
	s.log = log
}

func (s *SuiteBase) TestAppendAndHistory(c *gc.C) {
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		c.Assert(s.log.Append(ctx, entry("s1", i, base)), gc.IsNil)
	}
	c.Assert(s.log.Append(ctx, entry("s2", 0, base)), gc.IsNil)

	got, err := s.log.History(ctx, "s1", 0)
	c.Assert(err, gc.IsNil)
	c.Assert(got, gc.HasLen, 3)
	for i, e := range got {
		c.Assert(e.SessionID, gc.Equals, "s1")
		c.Assert(e.Query, gc.Equals, fmt.Sprintf("query %d", i))
		c.Assert(e.Tool, gc.Equals, "search_model")
		c.Assert(e.Limit, gc.Equals, i+1)
		c.Assert(e.CreatedAt.Equal(base.Add(time.Duration(i)*time.Second)), gc.Equals, true)
	}

	other, err := s.log.History(ctx, "s2", 10)
	c.Assert(err, gc.IsNil)
	c.Assert(other, gc.HasLen, 1)
}

func (s *SuiteBase) TestHistoryLimitKeepsMostRecent(c *gc.C) {
	ctx := context.Background()
	base := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		c.Assert(s.log.Append(ctx, entry("recent", i, base)), gc.IsNil)
	}

	got, err := s.log.History(ctx, "recent", 2)
	c.Assert(err, gc.IsNil)
	c.Assert(got, gc.HasLen, 2)
	c.Assert(got[0].Query, gc.Equals, "query 3")
	c.Assert(got[1].Query, gc.Equals, "query 4")
}

func (s *SuiteBase) TestHistoryUnknownSession(c *gc.C) {
	got, err := s.log.History(context.Background(), "nobody", 5)
	c.Assert(err, gc.IsNil)
	c.Assert(got, gc.HasLen, 0)
}

func (s *SuiteBase) TestFailedFlagAndResponse(c *gc.C) {
	ctx := context.Background()
	e := entry("failing", 0, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC))
	e.Failed = true
	e.Response = "⚠️ Failed to generate summary for model org/a: boom"
	c.Assert(s.log.Append(ctx, e), gc.IsNil)

	got, err := s.log.History(ctx, "failing", 1)
	c.Assert(err, gc.IsNil)
	c.Assert(got, gc.HasLen, 1)
	c.Assert(got[0].Failed, gc.Equals, true)
	c.Assert(got[0].Response, gc.Equals, e.Response)
}

func entry(session string, i int, base time.Time) domain.SessionEntry {
	return domain.SessionEntry{
		SessionID: session,
		Tool:      "search_model",
		Query:     fmt.Sprintf("query %d", i),
		Limit:     i + 1,
		Response:  fmt.Sprintf("response %d", i),
		CreatedAt: base.Add(time.Duration(i) * time.Second),
	}
}
