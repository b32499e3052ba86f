package models

import "time"

// Settings controls how practice numbers are generated
type Settings struct {
	Min           int  `json:"min"`
	Max           int  `json:"max"`
	AllowDecimal  bool `json:"allowDecimal"`
	DecimalPlaces int  `json:"decimalPlaces"`
}

// DefaultSettings returns the settings used when a request specifies none
func DefaultSettings() Settings {
	return Settings{
		Min:           0,
		Max:           100,
		AllowDecimal:  false,
		DecimalPlaces: 1,
	}
}

// Drill is a generated number together with its German spelling
type Drill struct {
	Number     float64  `json:"number"`
	GermanWord string   `json:"germanWord"`
	Settings   Settings `json:"settings"`
}

// PracticeRecord represents a single answered drill stored in the history
type PracticeRecord struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Number     float64   `json:"number"`
	GermanWord string    `json:"germanWord"`
	UserAnswer float64   `json:"userAnswer"`
	IsCorrect  bool      `json:"isCorrect"`
	TimeSpent  int       `json:"timeSpent"` // milliseconds
	Settings   Settings  `json:"settings"`
}

// HistoryPage is one page of practice records, newest first
type HistoryPage struct {
	Records []PracticeRecord `json:"records"`
	Total   int              `json:"total"`
	HasMore bool             `json:"hasMore"`
}

// Statistics summarizes the practice history
type Statistics struct {
	Total            int `json:"total"`
	Correct          int `json:"correct"`
	Incorrect        int `json:"incorrect"`
	Accuracy         int `json:"accuracy"` // Percentage, rounded
	AvgCorrectTime   int `json:"avgCorrectTime"`
	AvgIncorrectTime int `json:"avgIncorrectTime"`
	CurrentStreak    int `json:"currentStreak"`
	BestStreak       int `json:"bestStreak"`
}

// CheckResult is the outcome of comparing an answer with the generated number
type CheckResult struct {
	IsCorrect     bool    `json:"isCorrect"`
	UserAnswer    float64 `json:"userAnswer"`
	CorrectAnswer float64 `json:"correctAnswer"`
	GermanWord    string  `json:"germanWord,omitempty"`
}
