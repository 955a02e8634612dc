package loyalty

import (
	"testing"

	"cleaning-service/internal/data/entity"

	"github.com/stretchr/testify/assert"
)

func TestComputeAutoPoints(t *testing.T) {
	tests := []struct {
		price float64
		want  int
	}{
		{1000, 270},
		{0, 0},
		{-500, 0},
		{1, 0},
		{2, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ComputeAutoPoints(tt.price), "price %v", tt.price)
	}
}

func TestEffectivePoints(t *testing.T) {
	manual := 500
	assert.Equal(t, 500, EffectivePoints(1000, &manual))
	assert.Equal(t, 270, EffectivePoints(1000, nil))

	zero := 0
	assert.Equal(t, 0, EffectivePoints(1000, &zero))
}

func TestEffectiveTeamReward(t *testing.T) {
	records := []*entity.JobEarning{{Amount: 400}, {Amount: 350.5}, nil}
	assert.InDelta(t, 750.5, EffectiveTeamReward(records, nil), 1e-9)

	manual := 1200.0
	assert.Equal(t, 1200.0, EffectiveTeamReward(records, &manual))
	assert.Equal(t, 0.0, EffectiveTeamReward(nil, nil))
}
