package model

// Summary is the read-only projection of a race used for scoring.
type Summary struct {
	Completed      bool       `json:"completed"`
	Failed         bool       `json:"failed"`
	CompletionTime float64    `json:"completionTime"` // seconds
	FinalDistance  float64    `json:"finalDistance"`
	TotalDistance  float64    `json:"totalDistance"`
	TeamFinished   int        `json:"teamFinished"`
	TotalTeamSize  int        `json:"totalTeamSize"`
	TeamIntegrity  float64    `json:"teamIntegrity"` // percent
	AverageFatigue float64    `json:"averageFatigue"`
	FinalMorale    float64    `json:"finalMorale"`
	Stats          RaceStats  `json:"stats"`
	Difficulty     Difficulty `json:"difficulty"`
	BudgetUsed     int        `json:"budgetUsed"`
	Composition    []string   `json:"composition"`
}

type Achievement string

const (
	AchievementNoDropout        Achievement = "noDropout"
	AchievementPerfectFormation Achievement = "perfectFormation"
	AchievementMountainKing     Achievement = "mountainKing"
	AchievementSpeedDemon       Achievement = "speedDemon"
	AchievementIronWill         Achievement = "ironWill"
	AchievementWeatherMaster    Achievement = "weatherMaster"
	AchievementMechanicalGenius Achievement = "mechanicalGenius"
	AchievementTeamHarmony      Achievement = "teamHarmony"
)

// Performance rates progress against the expected pace.
type Performance string

const (
	PerformanceLeading   Performance = "leading"
	PerformanceOnTarget  Performance = "onTarget"
	PerformanceBehind    Performance = "behind"
	PerformanceFarBehind Performance = "farBehind"
)

// MoraleEvent is a discrete occurrence affecting morale.
type MoraleEvent string

const (
	MoraleOvertake          MoraleEvent = "overtake"
	MoraleGoodWeather       MoraleEvent = "goodWeather"
	MoraleSuccessfulClimb   MoraleEvent = "successfulClimb"
	MoraleTeamworkSuccess   MoraleEvent = "teamworkSuccess"
	MoraleMysteryBonus      MoraleEvent = "mysteryBonus"
	MoraleMechanicalFailure MoraleEvent = "mechanicalFailure"
	MoraleBadWeather        MoraleEvent = "badWeather"
	MoraleDropped           MoraleEvent = "dropped"
	MoraleConflict          MoraleEvent = "conflict"
	MoraleExhaustion        MoraleEvent = "exhaustion"
)
