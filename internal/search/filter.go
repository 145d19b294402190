package search

import (
	"strings"

	"jobdeck/internal/domain/job"
)

// Query holds the two independent filter terms. Empty terms match everything,
// so the zero Query returns the full list unchanged.
type Query struct {
	Keyword  string
	Location string
}

func (q Query) IsZero() bool {
	return normalizeTerm(q.Keyword) == "" && normalizeTerm(q.Location) == ""
}

// normalizeTerm lowercases and collapses runs of whitespace so that user
// input like "  Software   Engineer " matches a normally spaced title.
func normalizeTerm(input string) string {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return ""
	}
	return strings.Join(strings.Fields(input), " ")
}

// Matches applies both terms conjunctively. The keyword is a case-insensitive
// substring over title, company and description; the location term only ever
// inspects the location field.
func Matches(j job.Job, q Query) bool {
	if kw := normalizeTerm(q.Keyword); kw != "" {
		if !strings.Contains(strings.ToLower(j.Title), kw) &&
			!strings.Contains(strings.ToLower(j.Company), kw) &&
			!strings.Contains(strings.ToLower(j.Description), kw) {
			return false
		}
	}
	if loc := normalizeTerm(q.Location); loc != "" {
		if !strings.Contains(strings.ToLower(j.Location), loc) {
			return false
		}
	}
	return true
}

// Filter returns the jobs matching q in their original order. The input
// slice is never mutated.
func Filter(jobs []job.Job, q Query) []job.Job {
	if q.IsZero() {
		out := make([]job.Job, len(jobs))
		copy(out, jobs)
		return out
	}
	out := make([]job.Job, 0, len(jobs))
	for _, j := range jobs {
		if Matches(j, q) {
			out = append(out, j)
		}
	}
	return out
}
