package schemas

import (
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	STAGE_DISCOVERY   = "Découverte"
	STAGE_PROPOSAL    = "Proposition"
	STAGE_NEGOTIATION = "Négociation"
	STAGE_WON         = "Gagné"
	STAGE_LOST        = "Perdu"
)

// Stages lists the pipeline in order.
var Stages = []string{STAGE_DISCOVERY, STAGE_PROPOSAL, STAGE_NEGOTIATION, STAGE_WON, STAGE_LOST}

// StageTransitions holds the allowed moves. Open stages move forward,
// skipping is fine, and any open stage can be lost. Won and lost are final.
var StageTransitions = map[string]map[string]bool{
	STAGE_DISCOVERY:   {STAGE_PROPOSAL: true, STAGE_NEGOTIATION: true, STAGE_WON: true, STAGE_LOST: true},
	STAGE_PROPOSAL:    {STAGE_NEGOTIATION: true, STAGE_WON: true, STAGE_LOST: true},
	STAGE_NEGOTIATION: {STAGE_WON: true, STAGE_LOST: true},
	STAGE_WON:         {},
	STAGE_LOST:        {},
}

// DefaultStageProbability is the win probability assumed for a stage
// when none is given.
var DefaultStageProbability = map[string]int{
	STAGE_DISCOVERY:   10,
	STAGE_PROPOSAL:    40,
	STAGE_NEGOTIATION: 70,
	STAGE_WON:         100,
	STAGE_LOST:        0,
}

func IsValidStage(stage string) bool {
	return slices.Contains(Stages, stage)
}

func IsClosedStage(stage string) bool {
	return stage == STAGE_WON || stage == STAGE_LOST
}

func CanMoveStage(from, to string) bool {
	nexts, ok := StageTransitions[from]
	if !ok {
		return false
	}
	return nexts[to]
}

type StageChange struct {
	From      string        `json:"from" bson:"from"`
	To        string        `json:"to" bson:"to"`
	ChangedBy bson.ObjectID `json:"changed_by,omitempty" bson:"changed_by,omitempty"`
	ChangedAt time.Time     `json:"changed_at" bson:"changed_at"`
}

type Opportunity struct {
	ID                bson.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title             string        `json:"title" bson:"title"`
	ClientID          bson.ObjectID `json:"client_id,omitempty" bson:"client_id,omitempty"`
	ProspectID        bson.ObjectID `json:"prospect_id,omitempty" bson:"prospect_id,omitempty"`
	Amount            float64       `json:"amount" bson:"amount"`
	Probability       int           `json:"probability" bson:"probability"`
	Stage             string        `json:"stage" bson:"stage"`
	ExpectedCloseDate *time.Time    `json:"expected_close_date,omitempty" bson:"expected_close_date,omitempty"`
	ClosedAt          *time.Time    `json:"closed_at,omitempty" bson:"closed_at,omitempty"`
	Owner             bson.ObjectID `json:"owner,omitempty" bson:"owner,omitempty"`
	Notes             string        `json:"notes,omitempty" bson:"notes,omitempty"`
	StageHistory      []StageChange `json:"stage_history" bson:"stage_history"`
	CreatedAt         time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at" bson:"updated_at"`
}

type OpportunityInput struct {
	Title             *string    `json:"title"`
	ClientID          *string    `json:"client_id"`
	ProspectID        *string    `json:"prospect_id"`
	Amount            *float64   `json:"amount"`
	Probability       *int       `json:"probability"`
	ExpectedCloseDate *time.Time `json:"expected_close_date"`
	Owner             *string    `json:"owner"`
	Notes             *string    `json:"notes"`
}

// MoveStage applies a stage change and records it in the history. The
// probability is reset to the default of the new stage.
func (o *Opportunity) MoveStage(to string, by bson.ObjectID, now time.Time) error {
	if !IsValidStage(to) {
		return ErrInvalidStage
	}
	if IsClosedStage(o.Stage) {
		return ErrOpportunityClosed
	}
	if !CanMoveStage(o.Stage, to) {
		return ErrInvalidStageTransition
	}

	o.StageHistory = append(o.StageHistory, StageChange{From: o.Stage, To: to, ChangedBy: by, ChangedAt: now})
	o.Stage = to
	o.Probability = DefaultStageProbability[to]
	o.UpdatedAt = now

	if IsClosedStage(to) {
		o.ClosedAt = &now
	}

	return nil
}

// WeightedAmount is the amount scaled by the win probability.
func (o Opportunity) WeightedAmount() float64 {
	return o.Amount * float64(o.Probability) / 100
}
