package entitlement

import "github.com/studyhub-app/gamification-service/internal/models"

// FreeFeatures возможности, доступные без премиума.
var FreeFeatures = map[string]struct{}{
	"feed":         {},
	"messaging":    {},
	"study_groups": {},
	"profile":      {},
}

// DefaultPlans возвращает статический каталог тарифов.
func DefaultPlans() []models.Plan {
	return []models.Plan{
		{
			ID:       "premium_monthly",
			Name:     "Premium Monthly",
			Price:    499,
			Interval: models.IntervalMonth,
			Features: []string{
				"unlimited_groups",
				"ai_study_tools",
				"advanced_analytics",
				"priority_support",
			},
		},
		{
			ID:       "premium_yearly",
			Name:     "Premium Yearly",
			Price:    4790,
			Interval: models.IntervalYear,
			Features: []string{
				"unlimited_groups",
				"ai_study_tools",
				"advanced_analytics",
				"priority_support",
			},
			Popular: true,
			Savings: "Save 20% compared to monthly",
		},
	}
}
