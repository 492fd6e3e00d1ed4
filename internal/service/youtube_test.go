package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVideoID(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
	}{
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch url with extra params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
		{"watch url with list first", "https://www.youtube.com/watch?list=PL123&v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short url", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short url with timestamp", "https://youtu.be/dQw4w9WgXcQ?t=30", "dQw4w9WgXcQ"},
		{"embed url", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"no scheme", "youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractVideoID(tc.url)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtractVideoID_Invalid(t *testing.T) {
	for _, url := range []string{
		"",
		"https://vimeo.com/123456",
		"https://www.youtube.com/channel/UC123",
		"not a url at all",
	} {
		_, err := ExtractVideoID(url)
		assert.ErrorIs(t, err, ErrInvalidVideoURL, "url: %q", url)
	}
}

func TestParseISODuration(t *testing.T) {
	cases := []struct {
		iso         string
		display     string
		wantMinutes float64
	}{
		{"PT1H23M45S", "1:23:45", 83.75},
		{"PT42M10S", "42:10", 42.0 + 10.0/60},
		{"PT59S", "0:59", 59.0 / 60},
		{"PT2H", "2:00:00", 120},
		{"PT15M", "15:00", 15},
		{"garbage", "0:00", 0},
	}

	for _, tc := range cases {
		display, minutes := ParseISODuration(tc.iso)
		assert.Equal(t, tc.display, display, "iso: %s", tc.iso)
		assert.InDelta(t, tc.wantMinutes, minutes, 0.001, "iso: %s", tc.iso)
	}
}

func TestEngagement(t *testing.T) {
	assert.Equal(t, 0.0, Engagement(100, 50, 0))
	assert.Equal(t, 15.0, Engagement(100, 50, 1000))
	assert.Equal(t, 0.96, Engagement(820, 143, 100000))
	// More reactions than views still caps at 100
	assert.Equal(t, 100.0, Engagement(500, 600, 100))
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "0h 0m", FormatHours(0))
	assert.Equal(t, "0h 42m", FormatHours(42.2))
	assert.Equal(t, "2h 0m", FormatHours(119.6))
	assert.Equal(t, "12h 34m", FormatHours(754))
}
