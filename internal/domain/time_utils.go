package domain

import (
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DatetimeLayout     = "2006-01-02T15:04:05Z"
	OnlyDateTimeLayout = "2006-01-02 15:04:05"
	OnlyDate           = "2006-01-02"
	DatetimeZoneLayout = "2006-01-02 15:04:05.000 -0700"
)

// DefaultTimezone is used when no timezone is configured
const DefaultTimezone = "Asia/Bangkok"

// LoadLocation returns the named location, falling back to UTC when it cannot be loaded.
func LoadLocation(name string) *time.Location {
	if name == "" {
		name = DefaultTimezone
	}
	location, err := time.LoadLocation(name)
	if err != nil {
		logrus.Warnf("Unknown timezone %q, using UTC: %v", name, err)
		return time.UTC
	}
	return location
}

// FormatUploadedAt renders an upload time for file captions
func FormatUploadedAt(t time.Time, location *time.Location) string {
	if location == nil {
		location = time.UTC
	}
	return t.In(location).Format(OnlyDateTimeLayout)
}
