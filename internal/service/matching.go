package service

import (
	"sort"
	"strings"
	"time"

	"rozgaarsetu/internal/models"
)

// tradeAliases maps category-style trade names to the worker skill tags the
// profiles actually carry.
var tradeAliases = map[string][]string{
	"plumbing":   {"plumber"},
	"electrical": {"electrician"},
	"carpentry":  {"carpenter"},
	"cleaning":   {"cleaner", "maid"},
	"painting":   {"painter"},
}

// expandSkill returns the skill plus its trade aliases in both directions:
// "plumbing" expands to "plumber" and "electrician" back to "electrical".
func expandSkill(skill string) []string {
	skill = strings.ToLower(strings.TrimSpace(skill))
	if skill == "" {
		return nil
	}
	out := []string{skill}
	out = append(out, tradeAliases[skill]...)
	for trade, skills := range tradeAliases {
		for _, s := range skills {
			if s == skill {
				out = append(out, trade)
			}
		}
	}
	return out
}

// SkillMatches reports whether any worker skill matches the wanted trade,
// by containment in either direction, after alias expansion.
func SkillMatches(workerSkills []string, wanted string) bool {
	for _, alias := range expandSkill(wanted) {
		for _, skill := range workerSkills {
			skill = strings.ToLower(strings.TrimSpace(skill))
			if skill == "" {
				continue
			}
			if strings.Contains(skill, alias) || strings.Contains(alias, skill) {
				return true
			}
		}
	}
	return false
}

// Scoring weights for the job feed. A skill hit in the title dominates,
// location only matters once a skill matched, and recency never outweighs
// a real match.
const (
	scoreTitleMatch      = 10000
	scoreDescMatch       = 8000
	scoreWorkerTypeMatch = 6000
	scoreSameCity        = 1000
	scoreNearby          = 500
	scoreRecencyCap      = 100
)

// RankJobs orders open jobs for a worker by skill relevance, then location,
// then recency. Jobs with no signal at all still rank by recency so the feed
// is never empty.
func RankJobs(jobs []*models.Job, worker *models.User) []*models.RankedJob {
	ranked := make([]*models.RankedJob, 0, len(jobs))

	for _, job := range jobs {
		score := 0.0
		var matched []string
		locationMatch := ""

		title := strings.ToLower(job.Title)
		desc := strings.ToLower(job.Description)
		workerType := strings.ToLower(job.WorkerType)

		for _, skill := range worker.Skills {
			hit := false
			for _, alias := range expandSkill(skill) {
				switch {
				case strings.Contains(title, alias):
					score += scoreTitleMatch
					hit = true
				case strings.Contains(desc, alias):
					score += scoreDescMatch
					hit = true
				case workerType != "" && (strings.Contains(workerType, alias) || strings.Contains(alias, workerType)):
					score += scoreWorkerTypeMatch
					hit = true
				}
				if hit {
					break
				}
			}
			if hit {
				matched = append(matched, skill)
			}
		}

		// Location bonus only applies when a skill matched; a nearby job the
		// worker cannot do is still a non-match.
		if len(matched) > 0 {
			locationMatch = locationTier(worker.Location, job.Location)
			switch locationMatch {
			case "same_city":
				score += scoreSameCity
			case "nearby":
				score += scoreNearby
			}
		}

		score += recencyScore(job.CreatedAt)

		ranked = append(ranked, &models.RankedJob{
			Job:           *job,
			Score:         score,
			MatchedSkills: matched,
			LocationMatch: locationMatch,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Job.CreatedAt.After(ranked[j].Job.CreatedAt)
	})

	return ranked
}

// locationTier classifies how close a job is: same city when one location
// string contains the other, nearby when they share a comma-separated part
// longer than two characters.
func locationTier(workerLocation, jobLocation string) string {
	w := strings.ToLower(strings.TrimSpace(workerLocation))
	j := strings.ToLower(strings.TrimSpace(jobLocation))
	if w == "" || j == "" {
		return ""
	}

	if strings.Contains(w, j) || strings.Contains(j, w) {
		return "same_city"
	}

	for _, wp := range strings.Split(w, ",") {
		wp = strings.TrimSpace(wp)
		if len(wp) <= 2 {
			continue
		}
		for _, jp := range strings.Split(j, ",") {
			if wp == strings.TrimSpace(jp) {
				return "nearby"
			}
		}
	}
	return ""
}

// recencyScore decays linearly over 100 days and is capped so it can break
// ties but never beat a skill or location match.
func recencyScore(createdAt time.Time) float64 {
	days := time.Since(createdAt).Hours() / 24
	score := scoreRecencyCap - days
	if score < 0 {
		return 0
	}
	if score > scoreRecencyCap {
		return scoreRecencyCap
	}
	return score
}
