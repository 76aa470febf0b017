package model

import (
	"testing"

	jl "github.com/smartcvnaija/jobbroker/modules/joblistings/model"
	"github.com/stretchr/testify/assert"
)

func TestDetectCategory(t *testing.T) {
	t.Run("picks the category with the most keyword hits", func(t *testing.T) {
		cat, found := DetectCategory("looking for a backend developer or software engineer role")
		assert.True(t, found)
		assert.Equal(t, jl.CategoryIT, cat)
	})

	t.Run("falls back to CategoryOther with no hits", func(t *testing.T) {
		cat, found := DetectCategory("something entirely unrelated")
		assert.False(t, found)
		assert.Equal(t, jl.CategoryOther, cat)
	})

	t.Run("is case-insensitive", func(t *testing.T) {
		_, found := DetectCategory("NURSE vacancy")
		assert.True(t, found)
	})
}

func TestDetectState(t *testing.T) {
	t.Run("finds a named state", func(t *testing.T) {
		state, found := DetectState("jobs available in lagos state")
		assert.True(t, found)
		assert.Equal(t, "Lagos", state)
	})

	t.Run("recognizes remote as a pseudo-state", func(t *testing.T) {
		state, found := DetectState("fully remote position")
		assert.True(t, found)
		assert.Equal(t, "Remote", state)
	})

	t.Run("reports not found when no state is named", func(t *testing.T) {
		_, found := DetectState("no location mentioned here")
		assert.False(t, found)
	})
}
