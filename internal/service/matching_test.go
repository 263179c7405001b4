package service

import (
	"testing"
	"time"

	"rozgaarsetu/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillMatches(t *testing.T) {
	assert.True(t, SkillMatches([]string{"plumber"}, "plumbing"))
	assert.True(t, SkillMatches([]string{"electrician"}, "electrical"))
	assert.True(t, SkillMatches([]string{"maid"}, "cleaning"))
	assert.True(t, SkillMatches([]string{"plumber"}, "plumber"))
	assert.False(t, SkillMatches([]string{"painter"}, "plumbing"))
	assert.False(t, SkillMatches(nil, "plumbing"))
	assert.False(t, SkillMatches([]string{"plumber"}, ""))
}

func TestRankJobsSkillDominatesLocation(t *testing.T) {
	worker := &models.User{
		ID:       "work-1",
		Skills:   []string{"plumber"},
		Location: "Andheri West, Mumbai",
	}

	now := time.Now()
	jobs := []*models.Job{
		{ID: "job-far", Title: "Plumber needed for hotel", Location: "Pune", CreatedAt: now.Add(-48 * time.Hour)},
		{ID: "job-near-nomatch", Title: "Security guard", Location: "Andheri West, Mumbai", CreatedAt: now},
		{ID: "job-near-match", Title: "Need a plumber urgently", Location: "Mumbai", CreatedAt: now.Add(-24 * time.Hour)},
	}

	ranked := RankJobs(jobs, worker)
	require.Len(t, ranked, 3)

	// A matching job elsewhere still beats a nearby non-match.
	assert.Equal(t, "job-near-match", ranked[0].Job.ID)
	assert.Equal(t, "job-far", ranked[1].Job.ID)
	assert.Equal(t, "job-near-nomatch", ranked[2].Job.ID)

	assert.Equal(t, []string{"plumber"}, ranked[0].MatchedSkills)
	assert.Equal(t, "same_city", ranked[0].LocationMatch)
	// No skill match, so no location annotation even though it is next door.
	assert.Empty(t, ranked[2].LocationMatch)
}

func TestRankJobsAliasAndDescription(t *testing.T) {
	worker := &models.User{Skills: []string{"electrician"}}

	jobs := []*models.Job{
		{ID: "job-desc", Description: "electrical wiring for a new flat", CreatedAt: time.Now()},
		{ID: "job-none", Title: "Cook wanted", CreatedAt: time.Now()},
	}

	ranked := RankJobs(jobs, worker)
	assert.Equal(t, "job-desc", ranked[0].Job.ID)
	assert.Greater(t, ranked[0].Score, float64(scoreDescMatch-1))
	assert.Less(t, ranked[1].Score, float64(scoreRecencyCap+1))
}

func TestRankJobsTieBreaksByRecency(t *testing.T) {
	worker := &models.User{Skills: []string{"painter"}}

	old := time.Now().Add(-200 * 24 * time.Hour)
	older := time.Now().Add(-300 * 24 * time.Hour)
	jobs := []*models.Job{
		{ID: "job-older", Title: "Painter for office", CreatedAt: older},
		{ID: "job-old", Title: "Painter for villa", CreatedAt: old},
	}

	ranked := RankJobs(jobs, worker)
	assert.Equal(t, "job-old", ranked[0].Job.ID)
}

func TestRankJobsCopiesJobFields(t *testing.T) {
	job := &models.Job{ID: "job-1", Title: "Plumber wanted", Location: "Mumbai", Salary: "15000/month", CreatedAt: time.Now()}

	ranked := RankJobs([]*models.Job{job}, &models.User{Skills: []string{"plumber"}})
	require.Len(t, ranked, 1)
	assert.Equal(t, *job, ranked[0].Job)
}

func TestLocationTier(t *testing.T) {
	assert.Equal(t, "same_city", locationTier("Mumbai", "Andheri West, Mumbai"))
	assert.Equal(t, "nearby", locationTier("Andheri, Mumbai", "Bandra, Mumbai"))
	assert.Equal(t, "", locationTier("Delhi", "Chennai"))
	assert.Equal(t, "", locationTier("", "Mumbai"))
}
