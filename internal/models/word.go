package models

// Sense is one meaning of a word as delivered by the content source.
type Sense struct {
	SensesID     int64  `json:"senses_id"`
	PartOfSpeech string `json:"pos"`
	DefinitionEn string `json:"en"`
	DefinitionJa string `json:"ja"`
	ExampleEn    string `json:"seEn"`
	ExampleJa    string `json:"seJa"`
	Tags         string `json:"tags"`
}

// Word groups the senses sharing one surface form.
type Word struct {
	WordID int64   `json:"word_id"`
	Word   string  `json:"word"`
	Senses []Sense `json:"senses"`
}

// FirstSense returns the sense presented on the word's card.
func (w Word) FirstSense() (Sense, bool) {
	if len(w.Senses) == 0 {
		return Sense{}, false
	}
	return w.Senses[0], true
}

// SenseRow is the flat catalog shape: one sense joined with its word.
type SenseRow struct {
	SensesID     int64  `json:"id" db:"senses_id"`
	WordID       int64  `json:"word_id" db:"word_id"`
	Word         string `json:"word" db:"word"`
	PartOfSpeech string `json:"pos" db:"pos"`
	DefinitionEn string `json:"en" db:"en"`
	DefinitionJa string `json:"ja" db:"ja"`
	ExampleEn    string `json:"se_en" db:"se_en"`
	ExampleJa    string `json:"se_ja" db:"se_ja"`
	Tags         string `json:"tags" db:"tags"`
}

// Sense converts the row into its dictionary entry.
func (r SenseRow) Sense() Sense {
	return Sense{
		SensesID:     r.SensesID,
		PartOfSpeech: r.PartOfSpeech,
		DefinitionEn: r.DefinitionEn,
		DefinitionJa: r.DefinitionJa,
		ExampleEn:    r.ExampleEn,
		ExampleJa:    r.ExampleJa,
		Tags:         r.Tags,
	}
}

// SenseIDs lists every sense id of the given words in order.
func SenseIDs(words []Word) []int64 {
	var ids []int64
	for _, w := range words {
		for _, s := range w.Senses {
			ids = append(ids, s.SensesID)
		}
	}
	return ids
}
