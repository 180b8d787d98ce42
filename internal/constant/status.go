package constant

const (
	TaskStatusTodo     = "todo"
	TaskStatusProgress = "progress"
	TaskStatusReview   = "review"
	TaskStatusDone     = "done"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

const (
	ExperimentStatusProgress = "progress"
	ExperimentStatusDone     = "done"
)

const ProjectStatusActive = "active"

type ResourceStatus string

const (
	ResourceStatusAvailable ResourceStatus = "available"
	ResourceStatusLow       ResourceStatus = "low"
	ResourceStatusCritical  ResourceStatus = "critical"
	ResourceStatusEmpty     ResourceStatus = "empty"
)

const (
	// Fractions of the initial stock at or below which a resource is flagged.
	ResourceCriticalRatio = 0.10
	ResourceLowRatio      = 0.25
)

const DefaultCategoryColor = "#3b82f6"

// CommentEntityType names the kind of row a comment annotates.
type CommentEntityType string

const (
	EntityTask       CommentEntityType = "task"
	EntityExperiment CommentEntityType = "experiment"
	EntityProject    CommentEntityType = "project"
	EntitySubProject CommentEntityType = "sub_project"
	EntityCategory   CommentEntityType = "category"
	EntityResource   CommentEntityType = "resource"
)

func (t CommentEntityType) Valid() bool {
	switch t {
	case EntityTask, EntityExperiment, EntityProject, EntitySubProject, EntityCategory, EntityResource:
		return true
	}
	return false
}
