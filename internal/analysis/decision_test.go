package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNegativeShareRule(t *testing.T) {
	rule := NegativeShareRule(25)

	assert.Equal(t, DecisionRecommended, rule(Result{NegativePct: 0}))
	assert.Equal(t, DecisionRecommended, rule(Result{NegativePct: 25}))
	assert.Equal(t, DecisionNotRecommended, rule(Result{NegativePct: 25.01}))
	assert.Equal(t, DecisionNotRecommended, rule(Result{NegativePct: 100}))
}

func TestNegativeShareRule_IgnoresOtherFields(t *testing.T) {
	rule := NegativeShareRule(10)

	r := Result{NegativePct: 5, PositivePct: 0, Score: 0}
	assert.Equal(t, DecisionRecommended, rule(r))
}
