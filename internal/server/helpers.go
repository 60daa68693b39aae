package server

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// parseDate accepts RFC3339 timestamps and bare dates. Bare dates resolve in
// the server's local zone because billing months follow the wall calendar.
func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", value, time.Local)
}

func parseOptionalDate(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := parseDate(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseOptionalID(value string) (*snowflake.ID, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil {
		return nil, err
	}
	return &id, nil
}
