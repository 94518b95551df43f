package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeSuggestionsOrderAndDedupe(t *testing.T) {
	names := []string{"Malbec Reserva", "Malbec 2019"}
	grapes := []string{"Malbec", "Malbec Reserva"}
	tags := []string{"malbec-night"}

	got := MergeSuggestions(names, grapes, tags)

	assert.Equal(t, []string{"Malbec Reserva", "Malbec 2019", "Malbec", "malbec-night"}, got)
}

func TestMergeSuggestionsCapPrefersNames(t *testing.T) {
	names := []string{"n1", "n2", "n3", "n4", "n5"}
	grapes := []string{"g1", "g2", "g3", "g4", "g5"}
	tags := []string{"t1", "t2", "t3", "t4", "t5"}

	got := MergeSuggestions(names, grapes, tags)

	assert.Len(t, got, SuggestLimit)
	assert.Equal(t, append(append([]string{}, names...), grapes...), got)
}

func TestMergeSuggestionsEmpty(t *testing.T) {
	got := MergeSuggestions(nil, nil, nil)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}
