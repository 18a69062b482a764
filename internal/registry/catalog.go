package registry

import (
	"sync"

	"github.com/GregMSThompson/projecthub-dashboard/internal/models"
)

// Widget ids of the built-in catalog.
const (
	WidgetMyProjects           = "my-projects"
	WidgetProjectProgress      = "project-progress"
	WidgetUpcomingDefenses     = "upcoming-defenses"
	WidgetAdvisorRequests      = "advisor-requests"
	WidgetSupervisedProjects   = "supervised-projects"
	WidgetProposalApprovals    = "proposal-approvals"
	WidgetDefenseScheduling    = "defense-scheduling"
	WidgetDepartmentStatistics = "department-statistics"
	WidgetCommitteeReviews     = "committee-reviews"
	WidgetEvaluationQueue      = "evaluation-queue"
	WidgetNotifications        = "notifications"
	WidgetCalendar             = "calendar"
	WidgetQuickLinks           = "quick-links"
)

var (
	student     = models.RoleStudent
	advisor     = models.RoleAdvisor
	coord       = models.RoleCoordinator
	head        = models.RoleDepartmentHead
	committee   = models.RoleDepartmentCommittee
	everyone    = models.AllRoles()
	defaultReg  *Registry
	defaultOnce sync.Once
)

func widget(id, title, component string, def, minSize models.Size, roles ...models.Role) Item {
	return Item{
		Meta: models.WidgetMeta{
			ID:           id,
			Title:        title,
			RolesAllowed: models.NewRoleSet(roles...),
			DefaultSize:  def,
			MinSize:      minSize,
		},
		Component: component,
	}
}

func catalog() []Item {
	return []Item{
		widget(WidgetMyProjects, "My Projects", "MyProjectsWidget",
			models.Size{W: 6, H: 4}, models.Size{W: 4, H: 3}, student),
		widget(WidgetProjectProgress, "Project Progress", "ProjectProgressWidget",
			models.Size{W: 6, H: 4}, models.Size{W: 3, H: 3}, student),
		widget(WidgetUpcomingDefenses, "Upcoming Defenses", "UpcomingDefensesWidget",
			models.Size{W: 4, H: 4}, models.Size{W: 3, H: 3}, student, advisor, coord, committee),
		widget(WidgetAdvisorRequests, "Advisor Requests", "AdvisorRequestsWidget",
			models.Size{W: 6, H: 4}, models.Size{W: 4, H: 3}, advisor),
		widget(WidgetSupervisedProjects, "Supervised Projects", "SupervisedProjectsWidget",
			models.Size{W: 8, H: 5}, models.Size{W: 4, H: 4}, advisor, head),
		widget(WidgetProposalApprovals, "Proposal Approvals", "ProposalApprovalsWidget",
			models.Size{W: 6, H: 4}, models.Size{W: 4, H: 3}, coord, head),
		widget(WidgetDefenseScheduling, "Defense Scheduling", "DefenseSchedulingWidget",
			models.Size{W: 6, H: 5}, models.Size{W: 4, H: 4}, coord),
		widget(WidgetDepartmentStatistics, "Department Statistics", "DepartmentStatisticsWidget",
			models.Size{W: 12, H: 4}, models.Size{W: 4, H: 3}, head, coord),
		widget(WidgetCommitteeReviews, "Committee Reviews", "CommitteeReviewsWidget",
			models.Size{W: 8, H: 5}, models.Size{W: 4, H: 4}, committee),
		widget(WidgetEvaluationQueue, "Evaluation Queue", "EvaluationQueueWidget",
			models.Size{W: 6, H: 4}, models.Size{W: 4, H: 3}, committee, advisor),
		widget(WidgetNotifications, "Notifications", "NotificationsWidget",
			models.Size{W: 4, H: 4}, models.Size{W: 3, H: 2}, everyone...),
		widget(WidgetCalendar, "Calendar", "CalendarWidget",
			models.Size{W: 4, H: 5}, models.Size{W: 3, H: 4}, everyone...),
		widget(WidgetQuickLinks, "Quick Links", "QuickLinksWidget",
			models.Size{W: 3, H: 2}, models.Size{W: 2, H: 2}, everyone...),
	}
}

// Default returns the built-in academic catalog. It is built once per process.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = MustNew(catalog()...)
	})
	return defaultReg
}
