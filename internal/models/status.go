package models

// Answer outcomes held in SenseStatus.Temp during a session.
const (
	TempNone      = 0
	TempCorrect   = 1
	TempIncorrect = 2
)

// SenseStatus is the mutable learning record of one sense.
type SenseStatus struct {
	WordID      int64  `json:"word_id"`
	SensesID    int64  `json:"senses_id"`
	Level       int    `json:"level"`
	LearnedDate string `json:"learnedDate"`
	ReviewDate  string `json:"reviewDate"`
	Correct     int    `json:"correct"`
	Mistake     int    `json:"mistake"`
	Temp        int    `json:"temp"`
}

// NewSenseStatus returns the level-0 record created for a newly tracked sense.
func NewSenseStatus(wordID, sensesID int64) SenseStatus {
	return SenseStatus{WordID: wordID, SensesID: sensesID}
}

// Answered reports whether the status carries an answer from the current session.
func (s SenseStatus) Answered() bool {
	return s.Temp == TempCorrect || s.Temp == TempIncorrect
}

// StatusIndex maps sense ids to their status.
type StatusIndex map[int64]SenseStatus

// IndexStatuses builds a StatusIndex; later duplicates win.
func IndexStatuses(statuses []SenseStatus) StatusIndex {
	idx := make(StatusIndex, len(statuses))
	for _, s := range statuses {
		idx[s.SensesID] = s
	}
	return idx
}

// WordRow is the per-word summary shown in the word list.
type WordRow struct {
	WordID      int64  `json:"word_id"`
	Word        string `json:"word"`
	Tags        string `json:"tags"`
	ChunkIndex  int    `json:"chunkIndex"`
	Status      string `json:"status"`
	Level       int    `json:"level"`
	Accuracy    *int   `json:"accuracy"`
	LearnedDate string `json:"learnedDate"`
	ReviewDate  string `json:"reviewDate"`
}
