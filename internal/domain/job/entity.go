package job

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobdeck/internal/domain"
)

// Job is a published listing. Salary and CreatedBy are nullable on the wire,
// so they stay pointers here.
type Job struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location"`
	Description string     `json:"description"`
	Salary      *string    `json:"salary,omitempty"`
	CreatedBy   *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Draft is the payload for posting a new listing.
type Draft struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Salary      string `json:"salary,omitempty"`
}

// Validate reports every missing required field at once.
func (d Draft) Validate() error {
	var missing []string
	if strings.TrimSpace(d.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(d.Company) == "" {
		missing = append(missing, "company")
	}
	if strings.TrimSpace(d.Location) == "" {
		missing = append(missing, "location")
	}
	if strings.TrimSpace(d.Description) == "" {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", domain.ErrInvalidInput, strings.Join(missing, ", "))
	}
	return nil
}
