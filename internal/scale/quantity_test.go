package scale

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantityExamples(t *testing.T) {
	tests := []struct {
		name     string
		quantity string
		ratio    float64
		want     string
	}{
		{"fraction doubles to mixed", "3/4", 2, "1 1/2"},
		{"integer halves to fraction", "1", 0.5, "1/2"},
		{"mixed doubles to integer", "2 1/2", 2, "5"},
		{"non-numeric passes through", "to taste", 3, "to taste"},
		{"decimal input", "0.5", 3, "1 1/2"},
		{"leading dot decimal", ".25", 2, "1/2"},
		{"small value rounds to eighth", "1/3", 1, "3/8"},
		{"eighth reduces by gcd", "1/4", 0.5, "1/8"},
		{"below one rounding up to one", "15/16", 1, "1"},
		{"seven eighths rounds up", "1 7/8", 1, "2"},
		{"fractional part snaps to quarter", "1 1/8", 1, "1 1/4"},
		{"tiny remainder drops", "2.05", 1, "2"},
		{"zero stays zero", "0", 4, "0"},
		{"trailing words kept", "2 large", 1.5, "3 large"},
		{"range scales both ends", "1-2", 2, "2-4"},
		{"worded range", "1 to 2 cups", 3, "3 to 6 cups"},
		{"zero denominator passes through", "1/0", 2, "1/0"},
		{"overflowing numerator passes through", "99999999999999999999/3", 1, "99999999999999999999/3"},
		{"overflowing whole part passes through", "99999999999999999999 1/2 cups", 2, "99999999999999999999 1/2 cups"},
		{"vulgar fraction", "½", 2, "1"},
		{"mixed vulgar fraction", "1¾", 2, "3 1/2"},
		{"vulgar fraction before unit", "¾ cup", 1, "3/4 cup"},
		{"invalid ratio passes through", "2", 0, "2"},
		{"nan ratio passes through", "2", math.NaN(), "2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Quantity(tt.quantity, tt.ratio))
		})
	}
}

func TestQuantityIdentity(t *testing.T) {
	exact := []string{
		"1/2", "2", "1 3/4", "1/8", "3/8", "5/8", "7/8",
		"1 1/4", "10 1/2", "12", "1/4", "3/4",
	}
	for _, q := range exact {
		t.Run(q, func(t *testing.T) {
			assert.Equal(t, q, Quantity(q, 1))
		})
	}
}

func TestQuantityNeverPanics(t *testing.T) {
	inputs := []string{"", " ", "/", "1/", "/2", "a/b", "1 /", "-3", "∞", "1e9", "½½", "   7   "}
	for _, q := range inputs {
		assert.NotPanics(t, func() { Quantity(q, 2.5) }, "input %q", q)
	}
}

func TestRatioClampsServings(t *testing.T) {
	assert.Equal(t, 2.0, Ratio(4, 2))
	assert.Equal(t, 0.25, Ratio(0, 4))
	assert.Equal(t, 0.25, Ratio(-3, 4))
	assert.Equal(t, 3.0, Ratio(3, 0))
}

func TestParse(t *testing.T) {
	tests := []struct {
		in    string
		value float64
		rest  string
		ok    bool
	}{
		{"1 1/2 cups", 1.5, " cups", true},
		{"3/4", 0.75, "", true},
		{"2.5 kg", 2.5, " kg", true},
		{"pinch", 0, "pinch", false},
		{"1/0", 0, "1/0", false},
		{"1/99999999999999999999", 0, "1/99999999999999999999", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, rest, ok := Parse(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.value, v, 1e-12)
			assert.Equal(t, tt.rest, rest)
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{0.04, "0"},
		{0.125, "1/8"},
		{0.3, "1/4"},
		{0.5, "1/2"},
		{0.75, "3/4"},
		{1.0 / 3 * 3, "1"},
		{1.5, "1 1/2"},
		{2.875, "3"},
		{2.2, "2 1/4"},
		{-1, "0"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.in), "Format(%v)", tt.in)
	}
}
