package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoppulse/pipeline/domain"
)

func TestParseTimeUnit(t *testing.T) {
	for raw, want := range map[string]domain.TimeUnit{
		"":      domain.UnitDate,
		"day":   domain.UnitDate,
		"date":  domain.UnitDate,
		"week":  domain.UnitWeek,
		"month": domain.UnitMonth,
	} {
		unit, err := parseTimeUnit(raw)
		require.NoError(t, err, "raw %q", raw)
		assert.Equal(t, want, unit)
	}

	_, err := parseTimeUnit("quarter")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestPeriodLowerBound(t *testing.T) {
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-05-08", periodLowerBound(domain.UnitDate, "last7", now))
	assert.Equal(t, "2024-04-15", periodLowerBound(domain.UnitDate, "last30", now))
	assert.Equal(t, "2023-05", periodLowerBound(domain.UnitMonth, "last12", now))
	assert.Equal(t, domain.WeekBucket(now.AddDate(0, 0, -7)), periodLowerBound(domain.UnitWeek, "last7", now))

	// Unknown or absent periods mean no lower bound.
	assert.Equal(t, "", periodLowerBound(domain.UnitDate, "", now))
	assert.Equal(t, "", periodLowerBound(domain.UnitDate, "alltime", now))
}

func TestMapError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrInvalidPayload, http.StatusBadRequest, "INVALID"},
		{domain.ErrMetricNotFound, http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrDuplicateEvent, http.StatusConflict, "CONFLICT"},
		{domain.NewError(domain.ErrCodeUnavailable, "bus closed"), http.StatusServiceUnavailable, "UNAVAILABLE"},
		{assert.AnError, http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		status, code := mapError(tc.err)
		assert.Equal(t, tc.status, status)
		assert.Equal(t, tc.code, code)
	}
}
