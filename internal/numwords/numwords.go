// Package numwords spells numbers between 0 and 1000 as German words.
package numwords

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrOutOfRange is returned for values outside [0, 1000] and for NaN or infinite input
	ErrOutOfRange = errors.New("number must be between 0 and 1000")
	// ErrTooPrecise is returned for values with more than MaxFractionDigits digits after the point
	ErrTooPrecise = errors.New("number has too many fractional digits")
)

const (
	// Upper is the largest value that can be spelled
	Upper = 1000
	// MaxFractionDigits is the most digits spoken after "Komma"
	MaxFractionDigits = 2
)

const decimalSeparator = " Komma "

// basicWords holds the irregular words for 0 through 12
var basicWords = [...]string{
	"null", "eins", "zwei", "drei", "vier", "fünf", "sechs",
	"sieben", "acht", "neun", "zehn", "elf", "zwölf",
}

// tensWords is indexed by the tens digit
var tensWords = [...]string{
	2: "zwanzig",
	3: "dreißig",
	4: "vierzig",
	5: "fünfzig",
	6: "sechzig",
	7: "siebzig",
	8: "achtzig",
	9: "neunzig",
}

var (
	lower = decimal.Zero
	upper = decimal.NewFromInt(Upper)
)

// Convert spells a float value in German. Fractional digits are taken from the
// shortest decimal representation of the value and spoken one by one.
func Convert(value float64) (string, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "", fmt.Errorf("%w: got %v", ErrOutOfRange, value)
	}
	return ConvertDecimal(decimal.NewFromFloat(value))
}

// ConvertDecimal spells a decimal value in German. The declared scale of the
// decimal is kept, so 3.10 is spoken as "drei Komma eins null".
func ConvertDecimal(d decimal.Decimal) (string, error) {
	// Check the exponent before comparing, since comparison rescales the coefficient
	exp := d.Exponent()
	switch {
	case exp < -MaxFractionDigits:
		return "", fmt.Errorf("%w: at most %d allowed, got exponent %d", ErrTooPrecise, MaxFractionDigits, exp)
	case exp > 3:
		return "", fmt.Errorf("%w: got exponent %d", ErrOutOfRange, exp)
	}
	if d.LessThan(lower) || d.GreaterThan(upper) {
		return "", fmt.Errorf("%w: got %s", ErrOutOfRange, d.String())
	}

	integer := int(d.IntPart())
	if d.IsInteger() {
		return Integer(integer)
	}

	intWord, err := Integer(integer)
	if err != nil {
		return "", err
	}

	return intWord + decimalSeparator + Digits(fractionDigits(d)), nil
}

// fractionDigits returns the digits after the decimal point, keeping trailing
// zeros covered by the exponent.
func fractionDigits(d decimal.Decimal) string {
	places := -d.Exponent()
	if places <= 0 {
		return ""
	}
	fixed := d.StringFixed(places)
	_, frac, _ := strings.Cut(fixed, ".")
	return frac
}

// Integer spells an integer in [0, 1000] as a single compound word
func Integer(n int) (string, error) {
	if n < 0 || n > Upper {
		return "", fmt.Errorf("%w: got %d", ErrOutOfRange, n)
	}
	return spell(n), nil
}

func spell(n int) string {
	switch {
	case n <= 12:
		return basicWords[n]
	case n < 20:
		return teenStem(n-10) + "zehn"
	case n < 100:
		ones, tens := n%10, n/10
		if ones == 0 {
			return tensWords[tens]
		}
		// 1 joins as "ein", e.g. einundzwanzig
		return stem(ones) + "und" + tensWords[tens]
	case n < 1000:
		hundreds, rest := n/100, n%100
		word := stem(hundreds) + "hundert"
		if rest > 0 {
			word += spell(rest)
		}
		return word
	default:
		return "eintausend"
	}
}

// stem returns the digit word used inside compounds
func stem(digit int) string {
	if digit == 1 {
		return "ein"
	}
	return basicWords[digit]
}

// teenStem drops the trailing syllable of sechs and sieben (sechzehn, siebzehn)
func teenStem(digit int) string {
	switch digit {
	case 6:
		return "sech"
	case 7:
		return "sieb"
	}
	return basicWords[digit]
}

// Digits speaks each digit of s separately, separated by spaces.
// Characters other than 0-9 are skipped.
func Digits(s string) string {
	words := make([]string, 0, len(s))
	for _, r := range s {
		if r < '0' || r > '9' {
			continue
		}
		words = append(words, basicWords[r-'0'])
	}
	return strings.Join(words, " ")
}
