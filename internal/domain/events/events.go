package events

var (
	MatchScoredTopic      = "MatchScoredEvent"
	MatchDiscardedTopic   = "MatchDiscardedEvent"
	CandidateDeletedTopic = "CandidateDeletedEvent"
	VacancyDeletedTopic   = "VacancyDeletedEvent"
)

type MatchScored struct {
	CandidateID int64
	VacancyID   int64
	Score       float64
	Backend     string
	Forced      bool
}

type MatchDiscarded struct {
	CandidateID int64
	VacancyID   int64
}

type CandidateDeleted struct {
	CandidateID int64
}

type VacancyDeleted struct {
	VacancyID int64
}
