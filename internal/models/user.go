package models

// Pace options for LearningPlan.DurationDays.
const (
	PaceFast   = 3
	PaceNormal = 5
	PaceSlow   = 9
)

// ChunkProgress tracks one chunk's dates. Empty strings mean unset.
type ChunkProgress struct {
	StartDate    string `json:"startDate"`
	TargetDate   string `json:"targetDate"`
	CompleteDate string `json:"completeDate"`
}

// Uninitialized reports whether the chunk has never been opened.
func (c ChunkProgress) Uninitialized() bool {
	return c.StartDate == "" && c.TargetDate == ""
}

// Completed reports whether a test pass has been recorded for the chunk.
func (c ChunkProgress) Completed() bool {
	return c.CompleteDate != ""
}

// LearningPlan is the per-user chunk progression.
type LearningPlan struct {
	CurrentChunkIndex  int                   `json:"currentChunkIndex"`
	UnlockedChunkIndex int                   `json:"unlockedChunkIndex"`
	DurationDays       int                   `json:"durationDays"`
	Chunks             map[int]ChunkProgress `json:"chunks"`
}

// OnFrontier reports whether the user is working on the most recently unlocked chunk.
func (p LearningPlan) OnFrontier() bool {
	return p.CurrentChunkIndex == p.UnlockedChunkIndex
}

// Clone returns a deep copy so callers can mutate chunks safely.
func (p LearningPlan) Clone() LearningPlan {
	out := p
	out.Chunks = make(map[int]ChunkProgress, len(p.Chunks))
	for k, v := range p.Chunks {
		out.Chunks[k] = v
	}
	return out
}

// DailyCount is one calendar day's activity.
type DailyCount struct {
	LearnCount  int `json:"learnCount"`
	ReviewCount int `json:"reviewCount"`
}

// Progress maps YYYY-MM-DD to that day's activity.
type Progress map[string]DailyCount

// UserData is the singleton user record mirrored to the remote backend.
type UserData struct {
	UserID       string       `json:"userId"`
	UserName     string       `json:"userName"`
	CreatedAt    string       `json:"createdAt"`
	Tag          string       `json:"tag"`
	LearningPlan LearningPlan `json:"learningPlan"`
	Progress     Progress     `json:"progress"`
}

// NewUserData returns the empty record written on initialization.
func NewUserData() UserData {
	return UserData{
		LearningPlan: LearningPlan{
			DurationDays: PaceNormal,
			Chunks:       map[int]ChunkProgress{},
		},
		Progress: Progress{},
	}
}

// UserDataPatch carries the fields sent in a partial remote update.
type UserDataPatch struct {
	LearningPlan *LearningPlan `json:"learningPlan,omitempty"`
	Progress     Progress      `json:"progress,omitempty"`
}

// Mode is a learning stage.
type Mode string

const (
	ModeInput  Mode = "input"
	ModeOutput Mode = "output"
	ModeTest   Mode = "test"
	ModeReview Mode = "review"
)

// Valid reports whether m is one of the four stages.
func (m Mode) Valid() bool {
	switch m {
	case ModeInput, ModeOutput, ModeTest, ModeReview:
		return true
	}
	return false
}

// LearnSettings selects the stage and whether the session is an ad-hoc review overlay.
type LearnSettings struct {
	Mode   Mode `json:"mode"`
	Review bool `json:"review"`
}

// DefaultLearnSettings is written on initialization.
func DefaultLearnSettings() LearnSettings {
	return LearnSettings{Mode: ModeInput}
}

// Answer is the user's response to a card.
type Answer string

const (
	AnswerKnow     Answer = "know"
	AnswerDontKnow Answer = "dontKnow"
)

// Valid reports whether a is a known answer.
func (a Answer) Valid() bool {
	return a == AnswerKnow || a == AnswerDontKnow
}
