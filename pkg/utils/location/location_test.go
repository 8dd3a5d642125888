package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetStates(t *testing.T) {
	states := GetStates()
	assert.NotEmpty(t, states)

	for _, s := range states {
		assert.Len(t, s.Code, 2, s.Name)
		assert.NotEmpty(t, s.Name)
		// her eyaletin şehir listesi olmalı
		assert.NotEmpty(t, GetCitiesByState(s.Code), s.Code)
	}
}

func TestGetCitiesByState(t *testing.T) {
	assert.Contains(t, GetCitiesByState("MH"), "Mumbai")
	assert.Contains(t, GetCitiesByState("KA"), "Bengaluru")
	assert.Nil(t, GetCitiesByState("XX"))
}
