package session

import (
	"github.com/vytor/senseflash/internal/models"
	"github.com/vytor/senseflash/internal/scheduling"
)

// Time bar colours.
const (
	ColorGreen  = "green"
	ColorYellow = "yellow"
	ColorRed    = "red"
)

// TimeBarColor maps the remaining percentage to a colour.
func TimeBarColor(percent float64) string {
	switch {
	case percent > 66:
		return ColorGreen
	case percent > 33:
		return ColorYellow
	default:
		return ColorRed
	}
}

// Option is one multiple-choice answer.
type Option struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// Card is what the current card looks like to a client.
type Card struct {
	Index     int                     `json:"index"`
	Total     int                     `json:"total"`
	State     string                  `json:"state"`
	Word      models.Word             `json:"word"`
	Sense     models.Sense            `json:"sense"`
	Level     int                     `json:"level"`
	Labels    scheduling.ButtonLabels `json:"labels"`
	Options   []Option                `json:"options,omitempty"`
	Timed     bool                    `json:"timed"`
	TimeLeft  float64                 `json:"timeLeft"`
	TimeColor string                  `json:"timeColor"`
}

// Current describes the card on screen. It reports false once the session
// has no card to show.
func (s *Session) Current() (Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Done || s.index >= len(s.cfg.Words) {
		return Card{}, false
	}
	w := s.cfg.Words[s.index]
	sense, _ := w.FirstSense()
	level := 0
	if i, ok := s.currentStatusLocked(); ok {
		level = s.statuses[i].Level
	}

	card := Card{
		Index:     s.index,
		Total:     len(s.cfg.Words),
		State:     s.state.String(),
		Word:      w,
		Sense:     sense,
		Level:     level,
		Labels:    scheduling.LabelsFor(level),
		Timed:     scheduling.Timed(s.cfg.Mode),
		TimeLeft:  s.timeLeft,
		TimeColor: TimeBarColor(s.timeLeft),
	}
	if s.cfg.Mode != models.ModeInput {
		if s.optionsFor != s.index {
			s.options = s.optionsLocked(sense.DefinitionJa)
			s.optionsFor = s.index
		}
		card.Options = s.options
	}
	return card, true
}

// TimeLeft is the countdown remaining on the current card, 100 down to 0.
func (s *Session) TimeLeft() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeLeft
}

// optionsLocked returns the correct translation plus up to three different
// translations drawn from the session, in random order. Current keeps the
// result for the rest of the card.
func (s *Session) optionsLocked(correct string) []Option {
	if correct == "" {
		return nil
	}
	seen := map[string]bool{correct: true}
	var pool []string
	for _, w := range s.cfg.Words {
		for _, sense := range w.Senses {
			if !seen[sense.DefinitionJa] && sense.DefinitionJa != "" {
				seen[sense.DefinitionJa] = true
				pool = append(pool, sense.DefinitionJa)
			}
		}
	}
	s.cfg.Rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	opts := []Option{{Text: correct, IsCorrect: true}}
	for _, text := range pool[:min(3, len(pool))] {
		opts = append(opts, Option{Text: text})
	}
	s.cfg.Rand.Shuffle(len(opts), func(i, j int) { opts[i], opts[j] = opts[j], opts[i] })
	return opts
}
