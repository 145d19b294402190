package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"jobdeck/internal/domain"
	"jobdeck/internal/domain/application"
	"jobdeck/internal/domain/job"
	"jobdeck/internal/domain/saved"
	"jobdeck/internal/search"
	"jobdeck/internal/usecase"
)

func (c *cli) cmdSignup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (min 6 characters)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	u, err := c.auth.Signup(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Account created for %s. Run `jobdeck login` to start a session.\n", u.Email)
	return nil
}

func (c *cli) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sess, err := c.auth.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s\n", sess.User.Email)
	return nil
}

func (c *cli) cmdLogout(ctx context.Context, args []string) error {
	if err := c.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

func (c *cli) cmdWhoami(ctx context.Context, args []string) error {
	sess, err := c.auth.Current(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s (user %s)\n", sess.User.Email, sess.User.ID)
	return nil
}

func (c *cli) cmdJobs(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("jobs", flag.ExitOnError)
	keyword := fs.String("keyword", "", "match against title, company and description")
	location := fs.String("location", "", "match against location")
	if err := fs.Parse(args); err != nil {
		return err
	}

	jobs, err := c.lists.Search(ctx, search.Query{Keyword: *keyword, Location: *location})
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		fmt.Println("No jobs matched.")
		return nil
	}
	for _, j := range jobs {
		printJob(j)
	}
	fmt.Printf("%d job(s)\n", len(jobs))
	return nil
}

func (c *cli) cmdSave(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("save", flag.ExitOnError)
	jobID := fs.Int64("job", 0, "job id to bookmark or unbookmark")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := c.interactions.ToggleSave(ctx, *jobID)
	if err != nil {
		return err
	}
	switch {
	case res.Saved && res.AlreadySynced:
		fmt.Printf("Job %d was already saved.\n", res.JobID)
	case res.Saved:
		fmt.Printf("Saved job %d.\n", res.JobID)
	case res.AlreadySynced:
		fmt.Printf("Job %d was no longer saved; nothing to remove.\n", res.JobID)
	default:
		fmt.Printf("Removed bookmark on job %d.\n", res.JobID)
	}
	return nil
}

func (c *cli) cmdSaved(ctx context.Context, args []string) error {
	items, err := c.interactions.SavedJobs(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("No saved jobs.")
		return nil
	}
	for _, s := range items {
		printSaved(s)
	}
	fmt.Printf("%d saved job(s)\n", len(items))
	return nil
}

func (c *cli) cmdApply(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("apply", flag.ExitOnError)
	jobID := fs.Int64("job", 0, "job id to apply to")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}

	confirm := stdinConfirm(os.Stdin, os.Stdout)
	if *yes {
		confirm = func(ctx context.Context, prompt string) (bool, error) { return true, nil }
	}

	res, err := c.interactions.Apply(ctx, *jobID, confirm)
	if err != nil {
		return err
	}
	switch res.Status {
	case usecase.ApplySubmitted:
		fmt.Printf("Application submitted for job %d (application %d, status %s).\n",
			*jobID, res.Application.ID, res.Application.Status)
	case usecase.ApplyAlreadyApplied:
		fmt.Printf("You already applied to job %d.\n", *jobID)
	case usecase.ApplyDeclined:
		fmt.Println("Application cancelled.")
	}
	return nil
}

func (c *cli) cmdApplications(ctx context.Context, args []string) error {
	items, err := c.interactions.Applications(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("No applications yet.")
		return nil
	}
	for _, a := range items {
		printApplication(a)
	}
	fmt.Printf("%d application(s)\n", len(items))
	return nil
}

func (c *cli) cmdPost(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("post", flag.ExitOnError)
	title := fs.String("title", "", "job title")
	company := fs.String("company", "", "company name")
	location := fs.String("location", "", "job location")
	description := fs.String("description", "", "job description")
	salary := fs.String("salary", "", "salary range (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	created, err := c.interactions.PostJob(ctx, job.Draft{
		Title:       *title,
		Company:     *company,
		Location:    *location,
		Description: *description,
		Salary:      *salary,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Posted job %d: %s at %s\n", created.ID, created.Title, created.Company)
	return nil
}

func (c *cli) cmdDeleteJob(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete-job", flag.ExitOnError)
	jobID := fs.Int64("job", 0, "job id to delete")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := c.interactions.DeleteJob(ctx, *jobID); err != nil {
		return err
	}
	fmt.Printf("Deleted job %d.\n", *jobID)
	return nil
}

func (c *cli) cmdHealth(ctx context.Context, args []string) error {
	if err := c.client.Health(ctx); err != nil {
		return err
	}
	fmt.Println("Backend is reachable.")
	return nil
}

// stdinConfirm turns the interactive prompt into a ConfirmFunc. Empty input
// and EOF count as a decline.
func stdinConfirm(in io.Reader, out io.Writer) usecase.ConfirmFunc {
	reader := bufio.NewReader(in)
	return func(ctx context.Context, prompt string) (bool, error) {
		fmt.Fprintf(out, "%s [y/N]: ", prompt)
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	}
}

func printJob(j job.Job) {
	line := fmt.Sprintf("#%d  %s | %s | %s", j.ID, j.Title, j.Company, j.Location)
	if j.Salary != nil && *j.Salary != "" {
		line += " | " + *j.Salary
	}
	fmt.Println(line)
	if d := strings.TrimSpace(j.Description); d != "" {
		fmt.Printf("     %s\n", truncate(d, 100))
	}
}

func printSaved(s saved.SavedJob) {
	if s.Job != nil {
		fmt.Printf("#%d  %s | %s (saved %s)\n", s.JobID, s.Job.Title, s.Job.Company, s.SavedAt.Format("2006-01-02"))
		return
	}
	fmt.Printf("#%d  (listing no longer available, saved %s)\n", s.JobID, s.SavedAt.Format("2006-01-02"))
}

func printApplication(a application.Application) {
	title := "(listing no longer available)"
	if a.Job != nil {
		title = a.Job.Title + " | " + a.Job.Company
	}
	fmt.Printf("#%d  job %d  [%s]  %s (applied %s)\n", a.ID, a.JobID, a.Status, title, a.AppliedAt.Format("2006-01-02"))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// friendlyMessage keeps command output human. Local failures map to advice,
// backend failures surface the server's own message.
func friendlyMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrAuthRequired):
		return "you are not logged in; run `jobdeck login` first"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid email or password"
	case errors.Is(err, domain.ErrWeakPassword):
		return domain.ErrWeakPassword.Error()
	case errors.Is(err, domain.ErrNetwork):
		return fmt.Sprintf("cannot reach the backend (%v); is it running?", err)
	}

	var apiErr *domain.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
