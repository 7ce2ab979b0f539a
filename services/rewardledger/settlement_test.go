package rewardledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRewardSource(t *testing.T) {
	id := uuid.New()

	source, err := ParseRewardSource(SourceOpportunityCompletion, id.String())
	require.NoError(t, err)

	completion, ok := source.(OpportunityCompletion)
	require.True(t, ok)
	assert.Equal(t, id, completion.OpportunityID)
	assert.Equal(t, SourceOpportunityCompletion, source.EntityType())
	assert.Equal(t, id.String(), source.EntityID())
}

func TestParseRewardSourceUnknownType(t *testing.T) {
	_, err := ParseRewardSource("referral_bonus", uuid.NewString())
	assert.ErrorIs(t, err, ErrUnknownRewardSource)
}

func TestParseRewardSourceBadID(t *testing.T) {
	_, err := ParseRewardSource(SourceOpportunityCompletion, "not-a-uuid")
	assert.ErrorIs(t, err, ErrUnknownRewardSource)
}
