package store

import "time"

type FeedKind string

const (
	FeedKindCourses     FeedKind = "courses"
	FeedKindAssignments FeedKind = "assignments"
	FeedKindCombined    FeedKind = "combined"
)

// AllFeedKinds lists every kind in display order.
var AllFeedKinds = []FeedKind{FeedKindCourses, FeedKindAssignments, FeedKindCombined}

func (k FeedKind) Valid() bool {
	switch k {
	case FeedKindCourses, FeedKindAssignments, FeedKindCombined:
		return true
	}
	return false
}

type FeedMode string

const (
	FeedModeSeparate FeedMode = "separate"
	FeedModeCombined FeedMode = "combined"
)

func (m FeedMode) Valid() bool {
	return m == FeedModeSeparate || m == FeedModeCombined
}

// FeedToken is an opaque capability granting read access to one feed kind
// of one user. Tokens are revoked, never deleted.
type FeedToken struct {
	Token     string
	UserID    string
	Kind      FeedKind
	IsActive  bool
	CreatedAt time.Time
	RevokedAt *time.Time
}

type IntegrationSettings struct {
	UserID          string
	FeedMode        FeedMode
	Timezone        string
	Scope           string
	AssignmentsRule string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CourseScheduleEntry is a course the user selected, as stored by the
// course catalog.
type CourseScheduleEntry struct {
	CourseCode  string
	Year        int
	Term        string
	Title       string
	Professor   string
	Location    string
	Type        string
	TimeSlotRaw string
}

type AssignmentEntry struct {
	ID            string
	Title         string
	DueDate       *string
	Status        string
	CourseCode    string
	CourseTagName string
	CourseYear    *int
	CourseTerm    *string
	Instructions  string
}
