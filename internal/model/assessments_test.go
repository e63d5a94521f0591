package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssessmentMap_AddKeepsOrderAndIsIdempotent(t *testing.T) {
	m := AssessmentMap{}
	assert.True(t, m.Add("daily", "math", "Quiz 1"))
	assert.True(t, m.Add("daily", "math", "Quiz 2"))
	assert.False(t, m.Add("daily", "math", "Quiz 1"))
	assert.True(t, m.Add("daily", "physics", "Quiz 1"))

	assert.Equal(t, []string{"Quiz 1", "Quiz 2"}, m.Names("daily", "math"))
	assert.Equal(t, []string{"Quiz 1"}, m.Names("daily", "physics"))
	assert.Nil(t, m.Names("exam", "math"))
}

func TestAssessmentMap_RemovePrunesEmptyMaps(t *testing.T) {
	m := AssessmentMap{}
	m.Add("daily", "math", "Quiz 1")
	m.Add("daily", "math", "Quiz 2")

	assert.True(t, m.Remove("daily", "math", "Quiz 1"))
	assert.Equal(t, []string{"Quiz 2"}, m.Names("daily", "math"))
	assert.False(t, m.Remove("daily", "math", "Quiz 1"))

	assert.True(t, m.Remove("daily", "math", "Quiz 2"))
	assert.Empty(t, m)
}

func TestAssessmentMap_Rename(t *testing.T) {
	m := AssessmentMap{}
	m.Add("daily", "math", "Quiz 1")
	m.Add("daily", "math", "Quiz 2")

	assert.False(t, m.Rename("daily", "math", "Quiz 1", "Quiz 2"))
	assert.False(t, m.Rename("daily", "math", "Quiz 9", "Quiz 3"))
	assert.True(t, m.Rename("daily", "math", "Quiz 1", "UH 1"))
	assert.Equal(t, []string{"UH 1", "Quiz 2"}, m.Names("daily", "math"))
}

func TestAssessmentMap_CloneIsDeep(t *testing.T) {
	m := AssessmentMap{}
	m.Add("daily", "math", "Quiz 1")

	c := m.Clone()
	c.Add("daily", "math", "Quiz 2")

	assert.Equal(t, []string{"Quiz 1"}, m.Names("daily", "math"))
	assert.Equal(t, []string{"Quiz 1", "Quiz 2"}, c.Names("daily", "math"))
}

func TestAssessmentMap_JSONShape(t *testing.T) {
	m := AssessmentMap{}
	m.Add("daily", "math", "Quiz 1")

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"daily":{"math":["Quiz 1"]}}`, string(data))
}
