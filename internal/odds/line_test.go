package odds

import (
	"testing"

	"github.com/oddscope/surebet/internal/domain"
)

func fptr(v float64) *float64 { return &v }

func TestExtractLinePrecedence(t *testing.T) {
	tests := []struct {
		name string
		q    domain.RawQuote
		want *float64
	}{
		{
			name: "line field wins over everything",
			q:    domain.RawQuote{OutcomeKey: "over_9.5", Line: fptr(5.5), Handicap: fptr(6.5), Point: fptr(7.5)},
			want: fptr(5.5),
		},
		{
			name: "handicap before point",
			q:    domain.RawQuote{OutcomeKey: "home", Handicap: fptr(-3.5), Point: fptr(1.0)},
			want: fptr(-3.5),
		},
		{
			name: "point before suffix",
			q:    domain.RawQuote{OutcomeKey: "under_8.5", Point: fptr(8.0)},
			want: fptr(8.0),
		},
		{
			name: "suffix parsed when fields empty",
			q:    domain.RawQuote{OutcomeKey: "over_5.5"},
			want: fptr(5.5),
		},
		{
			name: "negative suffix",
			q:    domain.RawQuote{OutcomeKey: "spread_-3.5"},
			want: fptr(-3.5),
		},
		{
			name: "integer suffix",
			q:    domain.RawQuote{OutcomeKey: "over_200"},
			want: fptr(200),
		},
		{
			name: "no line anywhere",
			q:    domain.RawQuote{OutcomeKey: "home"},
			want: nil,
		},
		{
			name: "non-numeric suffix ignored",
			q:    domain.RawQuote{OutcomeKey: "over_par"},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractLine(tt.q)
			switch {
			case got == nil && tt.want == nil:
			case got == nil || tt.want == nil:
				t.Errorf("ExtractLine() = %v, want %v", got, tt.want)
			case *got != *tt.want:
				t.Errorf("ExtractLine() = %v, want %v", *got, *tt.want)
			}
		})
	}
}
