package goal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInput(t *testing.T) {
	today := StartOfDay(time.Now())

	tests := []struct {
		name    string
		in      Input
		wantErr string
	}{
		{"valid", Input{Title: "read a book", EndDate: today.AddDate(0, 0, 7)}, ""},
		{"due today", Input{Title: "today counts", EndDate: today}, ""},
		{"empty title", Input{Title: "", EndDate: today}, "title is required"},
		{"whitespace title", Input{Title: "   ", EndDate: today}, "title is required"},
		{"title too long", Input{Title: strings.Repeat("x", 201), EndDate: today}, "at most 200"},
		{"past date", Input{Title: "too late", EndDate: today.AddDate(0, 0, -1)}, "today or later"},
		{"zero date", Input{Title: "no date"}, "today or later"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInput(tt.in)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateInputTitleExactly200(t *testing.T) {
	in := Input{
		Title:   strings.Repeat("a", 200),
		EndDate: StartOfDay(time.Now()),
	}
	assert.NoError(t, ValidateInput(in))
}

func TestValidateInputTrimsBeforeCounting(t *testing.T) {
	// 200 characters of content padded with whitespace is still valid.
	in := Input{
		Title:   "  " + strings.Repeat("a", 200) + "  ",
		EndDate: StartOfDay(time.Now()),
	}
	assert.NoError(t, ValidateInput(in))
}
