package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWorkflow(t *testing.T) {
	w := DefaultWorkflow()
	require.NoError(t, w.Validate())

	assert.Equal(t, 30, w.AttemptsTx)
	assert.Equal(t, 5*time.Second, w.IntervalTx)
	assert.Equal(t, 10*time.Second, w.PostConfirmWait)
	assert.Zero(t, w.AttemptsSPV, "proof polling is unbounded by default")
	assert.Equal(t, 30, w.AttemptsFinal)
	assert.Equal(t, 15*time.Minute, w.MaxTotalTime)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Workflow)
		wantErr bool
	}{
		{"defaults", func(w *Workflow) {}, false},
		{"all zero is unbounded, not invalid", func(w *Workflow) { *w = Workflow{} }, false},
		{"negative attempts", func(w *Workflow) { w.AttemptsSPV = -1 }, true},
		{"negative interval", func(w *Workflow) { w.IntervalFinal = -time.Second }, true},
		{"negative post-confirm wait", func(w *Workflow) { w.PostConfirmWait = -1 }, true},
		{"negative total time", func(w *Workflow) { w.MaxTotalTime = -time.Minute }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := DefaultWorkflow()
			tt.mutate(&w)
			err := w.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
