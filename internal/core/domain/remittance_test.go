package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to RemittanceStatus }{
		{RemittanceCreated, RemittanceVerified},
		{RemittanceCreated, RemittanceCancelled},
		{RemittanceVerified, RemittanceProcessing},
		{RemittanceVerified, RemittanceCancelled},
		{RemittanceProcessing, RemittancePartnerSent},
		{RemittancePartnerSent, RemittancePartnerReceived},
		{RemittancePartnerSent, RemittanceCancelled},
		{RemittancePartnerReceived, RemittanceDelivered},
		{RemittancePartnerReceived, RemittanceFailed},
	}
	for _, edge := range allowed {
		assert.True(t, CanTransition(edge.from, edge.to), "%s -> %s should be allowed", edge.from, edge.to)
	}

	denied := []struct{ from, to RemittanceStatus }{
		{RemittanceCreated, RemittanceDelivered},
		{RemittanceCreated, RemittancePartnerSent},
		{RemittanceProcessing, RemittanceCancelled},
		{RemittancePartnerReceived, RemittanceCancelled},
		{RemittanceDelivered, RemittanceCancelled},
		{RemittanceCancelled, RemittanceCreated},
		{RemittanceFailed, RemittanceVerified},
		{RemittanceVerified, RemittanceVerified},
	}
	for _, edge := range denied {
		assert.False(t, CanTransition(edge.from, edge.to), "%s -> %s should be denied", edge.from, edge.to)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, RemittanceDelivered.IsTerminal())
	assert.True(t, RemittanceCancelled.IsTerminal())
	assert.True(t, RemittanceFailed.IsTerminal())

	assert.False(t, RemittanceCreated.IsTerminal())
	assert.False(t, RemittanceVerified.IsTerminal())
	assert.False(t, RemittanceProcessing.IsTerminal())
	assert.False(t, RemittancePartnerSent.IsTerminal())
	assert.False(t, RemittancePartnerReceived.IsTerminal())
}
