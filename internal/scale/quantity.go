// Package scale rescales free-text ingredient quantities to a different
// serving count and renders them back in cook-friendly notation: eighths
// below one unit, whole numbers plus quarters above it.
package scale

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// "1 1/2", "3/4", "2 / 3"
	mixedPattern = regexp.MustCompile(`^\s*(?:(\d+)\s+)?(\d+)\s*/\s*(\d+)`)
	// "2", "0.5", ".25"
	decimalPattern = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?|\.\d+)`)
	// "1-2", "1 – 2", "1 to 2"
	rangeSeparator = regexp.MustCompile(`^\s*(?:-|–|to)\s*`)
)

// integerTolerance absorbs float error when deciding whether a scaled
// value is a whole number.
const integerTolerance = 1e-9

// Ratio returns target/original, with both clamped to at least 1 so the
// result is always positive and finite.
func Ratio(target, original int) float64 {
	if target < 1 {
		target = 1
	}
	if original < 1 {
		original = 1
	}
	return float64(target) / float64(original)
}

// Quantity scales a textual quantity by ratio. Text that doesn't start
// with a number ("to taste", "a pinch") is returned unchanged, as is any
// quantity when ratio is not a positive finite number. Text following the
// number ("2 large") is kept, and both ends of a range ("1-2") are scaled.
func Quantity(quantity string, ratio float64) string {
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return quantity
	}

	text := normalizeVulgar(quantity)
	value, rest, ok := Parse(text)
	if !ok {
		return quantity
	}
	out := Format(value * ratio)

	if sep := rangeSeparator.FindString(rest); sep != "" {
		if upper, tail, ok := Parse(rest[len(sep):]); ok {
			return out + sep + Format(upper*ratio) + tail
		}
	}
	return out + rest
}

// Parse reads the leading number of s: a mixed number, a simple fraction,
// or a decimal. It returns the value, the unparsed remainder, and whether
// a number was found. A zero denominator or an integer too large to
// represent counts as no number.
func Parse(s string) (value float64, rest string, ok bool) {
	if m := mixedPattern.FindStringSubmatchIndex(s); m != nil {
		num, errNum := strconv.Atoi(s[m[4]:m[5]])
		den, errDen := strconv.Atoi(s[m[6]:m[7]])
		if errNum != nil || errDen != nil || den == 0 {
			return 0, s, false
		}
		whole := 0
		if m[2] >= 0 {
			w, err := strconv.Atoi(s[m[2]:m[3]])
			if err != nil {
				return 0, s, false
			}
			whole = w
		}
		return float64(whole) + float64(num)/float64(den), s[m[1]:], true
	}

	if m := decimalPattern.FindStringSubmatchIndex(s); m != nil {
		v, err := strconv.ParseFloat(s[m[2]:m[3]], 64)
		if err != nil {
			return 0, s, false
		}
		return v, s[m[1]:], true
	}

	return 0, s, false
}

// Format renders a non-negative quantity the way a cook would write it.
//
//   - whole numbers render as integers ("3")
//   - values below 1 round to the nearest eighth ("3/8", "1/2")
//   - larger values keep the whole part and snap the rest to the nearest
//     quarter ("1 1/2"); a remainder of 7/8 or more rounds up ("3")
func Format(v float64) string {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}

	if r := math.Round(v); math.Abs(v-r) < integerTolerance {
		return strconv.FormatFloat(r, 'f', 0, 64)
	}

	if v < 1 {
		eighths := int(math.Round(v * 8))
		return fraction(eighths, 8)
	}

	whole := math.Floor(v)
	quarters := int(math.Round((v - whole) * 4))
	if quarters == 4 {
		return strconv.FormatFloat(whole+1, 'f', 0, 64)
	}
	if quarters == 0 {
		return strconv.FormatFloat(whole, 'f', 0, 64)
	}
	return strconv.FormatFloat(whole, 'f', 0, 64) + " " + fraction(quarters, 4)
}

// fraction renders num/den reduced; 0 and whole results render as integers.
func fraction(num, den int) string {
	if num == 0 {
		return "0"
	}
	g := gcd(num, den)
	num, den = num/g, den/g
	if den == 1 {
		return strconv.Itoa(num)
	}
	return strconv.Itoa(num) + "/" + strconv.Itoa(den)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

// normalizeVulgar rewrites unicode vulgar fractions ("½", "1¾") into the
// ASCII forms the parser understands ("1/2", "1 3/4").
func normalizeVulgar(s string) string {
	if !strings.ContainsFunc(s, isVulgar) {
		return s
	}

	var b strings.Builder
	prevDigit := false
	for _, r := range s {
		if isVulgar(r) && prevDigit {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		prevDigit = unicode.IsDigit(r)
	}

	// NFKC expands "½" to "1⁄2" with U+2044 FRACTION SLASH.
	out := norm.NFKC.String(b.String())
	return strings.ReplaceAll(out, "⁄", "/")
}

func isVulgar(r rune) bool {
	return (r >= '¼' && r <= '¾') || (r >= '⅐' && r <= '⅞') || r == '↉'
}
