package lawyer

import (
	"time"

	"github.com/google/uuid"
)

// Lawyer represents a row in the lawyers table. The directory is browsed
// publicly and managed by administrators.
type Lawyer struct {
	ID             uuid.UUID
	Name           string
	Specialization string
	ExperienceYrs  int
	Location       string
	Rating         float64
	ContactEmail   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
