package store

// ListOptions carries optional pagination for list queries.
// Zero Limit means "no limit"; Offset is ignored without a Limit.
type ListOptions struct {
	Limit  int
	Offset int
}

// SortDirection is a validated ORDER BY direction.
type SortDirection string

// Sort directions accepted by the experience store.
const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// ExperienceSortColumn is a validated ORDER BY column for experience lists.
type ExperienceSortColumn string

// Columns the experience store will sort by. Anything outside this set is
// rejected before it reaches SQL; sort parameters are the only place a
// caller-supplied string could otherwise end up in a query.
const (
	SortByStartDate   ExperienceSortColumn = "start_date"
	SortByEndDate     ExperienceSortColumn = "end_date"
	SortByCompanyName ExperienceSortColumn = "company_name"
	SortByJobTitle    ExperienceSortColumn = "job_title"
	SortByCreatedAt   ExperienceSortColumn = "created_at"
)

// ValidExperienceSortColumn reports whether col is in the allow-list.
func ValidExperienceSortColumn(col ExperienceSortColumn) bool {
	switch col {
	case SortByStartDate, SortByEndDate, SortByCompanyName, SortByJobTitle, SortByCreatedAt:
		return true
	}
	return false
}

// ValidSortDirection reports whether dir is ASC or DESC.
func ValidSortDirection(dir SortDirection) bool {
	return dir == SortAsc || dir == SortDesc
}

// ExperienceSort pairs a validated column and direction.
type ExperienceSort struct {
	Column    ExperienceSortColumn
	Direction SortDirection
}

// DefaultExperienceSort is most-recent-first by start date, matching the
// aggregated with-bullets read.
func DefaultExperienceSort() ExperienceSort {
	return ExperienceSort{Column: SortByStartDate, Direction: SortDesc}
}
