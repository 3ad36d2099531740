package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitCategories(t *testing.T) {
	assert.Equal(t, []string{""}, splitCategories(""))
	assert.Equal(t, []string{""}, splitCategories("  ,  "))
	assert.Equal(t, []string{"sports"}, splitCategories("sports"))
	assert.Equal(t, []string{"sports", "technology"}, splitCategories(" sports, technology ,"))
}

func TestStartWithoutCronExpression(t *testing.T) {
	// FETCH_NEWS_CRON unset: stays externally triggered
	assert.Nil(t, Start(nil))

	var s *Scheduler
	s.Stop() // nil-safe
}
