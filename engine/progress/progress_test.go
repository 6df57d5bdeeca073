package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFraction(t *testing.T) {
	tests := []struct {
		name    string
		state   LoadingState
		want    float32
		loading bool
	}{
		{"nothing", LoadingState{}, 0, true},
		{"background only, no models", LoadingState{BackgroundLoaded: true}, 1, false},
		{"two of three models", LoadingState{BackgroundLoaded: true, ModelsTotal: 3, ModelsLoaded: 2}, 0.75, true},
		{"models done, background pending", LoadingState{ModelsTotal: 1, ModelsLoaded: 1}, 0.5, true},
		{"all done", LoadingState{BackgroundLoaded: true, ModelsTotal: 3, ModelsLoaded: 3}, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.state.Fraction(), 1e-6)
			assert.Equal(t, tt.loading, tt.state.Loading())
		})
	}
}

func TestBackgroundFlipsOnce(t *testing.T) {
	tr := NewTracker()
	changes := 0
	tr.OnChange(func(LoadingState) { changes++ })

	tr.MarkBackground()
	tr.MarkBackground()
	assert.True(t, tr.Snapshot().BackgroundLoaded)
	assert.Equal(t, 1, changes)
}

func TestCountersOnlyGrow(t *testing.T) {
	tr := NewTracker()
	var last LoadingState
	tr.OnChange(func(s LoadingState) { last = s })

	tr.AddModels(2)
	tr.AddModels(0)
	tr.AddModels(-3)
	tr.MarkModel()
	tr.MarkBackground()

	assert.Equal(t, LoadingState{BackgroundLoaded: true, ModelsTotal: 2, ModelsLoaded: 1}, last)
	assert.True(t, tr.Loading())
	assert.InDelta(t, 2.0/3.0, tr.Fraction(), 1e-6)

	tr.MarkModel()
	assert.False(t, tr.Loading())
}

func TestObserverAddedDuringNotifySeesLaterChanges(t *testing.T) {
	tr := NewTracker()
	var late []LoadingState
	tr.OnChange(func(LoadingState) {
		if late == nil {
			late = []LoadingState{}
			tr.OnChange(func(s LoadingState) { late = append(late, s) })
		}
	})

	tr.MarkBackground()
	assert.Empty(t, late)
	tr.AddModels(1)
	assert.Equal(t, []LoadingState{{BackgroundLoaded: true, ModelsTotal: 1}}, late)
}
