package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidReturnCondition(t *testing.T) {
	for _, c := range []string{ConditionGood, ConditionLightDamage, ConditionHeavyDamage, ConditionLost} {
		assert.Truef(t, ValidReturnCondition(c), "%s", c)
	}
	assert.False(t, ValidReturnCondition("broken"))
	assert.False(t, ValidReturnCondition(""))
	assert.False(t, ValidReturnCondition("Good"))
}
