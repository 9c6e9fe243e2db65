package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPorts_Validate(t *testing.T) {
	var nilPorts *Ports
	assert.ErrorIs(t, nilPorts.Validate(), ErrMissingAnalysisService)
	assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingAnalysisService)
	assert.NoError(t, (&Ports{Analysis: &mockAnalysis{}}).Validate())
}
