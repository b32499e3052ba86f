// Package checker compares submitted answers with generated numbers.
package checker

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"zahlentrainer/internal/models"
)

// Tolerance is the largest absolute difference still treated as equal
const Tolerance = 0.001

// IsCorrect reports whether userAnswer matches correctAnswer within Tolerance
func IsCorrect(userAnswer, correctAnswer float64) bool {
	return math.Abs(userAnswer-correctAnswer) < Tolerance
}

// Check compares both values and returns the full result
func Check(userAnswer, correctAnswer float64) models.CheckResult {
	return models.CheckResult{
		IsCorrect:     IsCorrect(userAnswer, correctAnswer),
		UserAnswer:    userAnswer,
		CorrectAnswer: correctAnswer,
	}
}

// ParseAnswer reads a typed answer. Both "3.14" and the German "3,14" are accepted.
func ParseAnswer(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: answer is empty", models.ErrInvalidInput)
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q is not a number", models.ErrInvalidInput, s)
	}
	return v, nil
}
