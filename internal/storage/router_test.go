package storage

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateRouter_Route(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		at       time.Time
		wantDate string
		wantKey  string
	}{
		{
			name:     "no prefix",
			at:       time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC),
			wantDate: "2024-03-15",
			wantKey:  "date=2024-03-15/b3_2024-03-15.parquet",
		},
		{
			name:     "with prefix",
			prefix:   "raw/ibov",
			at:       time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			wantDate: "2024-03-15",
			wantKey:  "raw/ibov/date=2024-03-15/b3_2024-03-15.parquet",
		},
		{
			name:     "prefix slashes trimmed",
			prefix:   "/raw/",
			at:       time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC),
			wantDate: "2024-12-31",
			wantKey:  "raw/date=2024-12-31/b3_2024-12-31.parquet",
		},
		{
			name:     "non UTC input uses UTC date",
			at:       time.Date(2024, 3, 15, 22, 0, 0, 0, time.FixedZone("BRT", -3*60*60)),
			wantDate: "2024-03-16",
			wantKey:  "date=2024-03-16/b3_2024-03-16.parquet",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := NewRouter(tt.prefix, ".parquet").Route(tt.at)

			assert.Equal(t, tt.wantDate, loc.Date)
			assert.Equal(t, "b3_"+tt.wantDate+".parquet", loc.Filename)
			assert.Equal(t, tt.wantKey, loc.Key)
		})
	}
}

func TestDateRouter_PartitionMatchesFilename(t *testing.T) {
	keyPattern := regexp.MustCompile(`^date=(\d{4}-\d{2}-\d{2})/b3_(\d{4}-\d{2}-\d{2})\.parquet$`)
	router := NewRouter("", ".parquet")

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 400; i++ {
		at := start.Add(time.Duration(i) * 23 * time.Hour)
		loc := router.Route(at)

		m := keyPattern.FindStringSubmatch(loc.Key)
		if assert.NotNil(t, m, "key %q", loc.Key) {
			assert.Equal(t, m[1], m[2])
			assert.Equal(t, loc.Date, m[1])
		}
	}
}
