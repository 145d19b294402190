package devserver

import (
	"golang.org/x/crypto/bcrypt"

	"jobdeck/internal/domain/job"
)

// Demo account owning the seeded listings. Handy for exercising the
// owner-only delete path from the CLI.
const (
	SeedEmployerEmail    = "hiring@techcorp.test"
	SeedEmployerPassword = "letmepost!"
)

type seedJob struct {
	title       string
	company     string
	location    string
	description string
	salary      string
}

var seedJobs = []seedJob{
	{
		title:       "Senior Software Engineer",
		company:     "TechCorp Inc.",
		location:    "San Francisco, CA",
		description: "Design and run distributed Go services powering the hiring platform.",
		salary:      "$160k - $200k",
	},
	{
		title:       "Backend Engineer",
		company:     "TechCorp Inc.",
		location:    "Remote",
		description: "Own REST APIs, PostgreSQL schemas and the deployment pipeline.",
		salary:      "$130k - $165k",
	},
	{
		title:       "Product Designer",
		company:     "Pixelry",
		location:    "New York, NY",
		description: "Shape the design system and partner with engineering on every release.",
	},
	{
		title:       "Data Analyst",
		company:     "Engineered Foods",
		location:    "Austin, TX",
		description: "Build dashboards and answer growth questions with SQL.",
		salary:      "$95k - $120k",
	},
}

// Seed installs the demo employer and a handful of listings so a fresh
// server is browsable immediately.
func Seed(store *Store) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(SeedEmployerPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	employer, err := store.CreateUser(SeedEmployerEmail, string(hash))
	if err != nil {
		return err
	}

	for _, sj := range seedJobs {
		store.AddJob(jobDraft(sj), &employer.ID)
	}
	return nil
}

func jobDraft(sj seedJob) job.Draft {
	return job.Draft{
		Title:       sj.title,
		Company:     sj.company,
		Location:    sj.location,
		Description: sj.description,
		Salary:      sj.salary,
	}
}
