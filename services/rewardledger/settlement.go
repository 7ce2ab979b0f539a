package rewardledger

import (
	"fmt"

	"github.com/google/uuid"
)

const SourceOpportunityCompletion = "opportunity_completion"

// RewardSource is the closed set of domain events a reward can originate from.
// Each variant carries its own payload; adding a reward kind means adding a
// variant here and a case to every switch over it.
type RewardSource interface {
	EntityType() string
	EntityID() string
	sealedRewardSource()
}

// OpportunityCompletion is a reward granted for completing an opportunity.
type OpportunityCompletion struct {
	OpportunityID uuid.UUID
}

func (OpportunityCompletion) EntityType() string  { return SourceOpportunityCompletion }
func (s OpportunityCompletion) EntityID() string  { return s.OpportunityID.String() }
func (OpportunityCompletion) sealedRewardSource() {}

// ParseRewardSource rebuilds the variant from its persisted tag pair. An
// unrecognised tag is a configuration error, never a retryable one.
func ParseRewardSource(entityType string, entityID string) (RewardSource, error) {
	switch entityType {
	case SourceOpportunityCompletion:
		id, err := uuid.Parse(entityID)
		if err != nil {
			return nil, fmt.Errorf("%w: bad opportunity id %q", ErrUnknownRewardSource, entityID)
		}
		return OpportunityCompletion{OpportunityID: id}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRewardSource, entityType)
	}
}
