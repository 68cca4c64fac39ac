package store

import "cloudpanel/internal/models"

// Static reference data: specification categories a user can select and
// the predefined plans scored against them. Neither is user-mutable.

var specificationCatalog = []models.ServerSpecification{
	{
		ID: "spec-cpu", Name: "CPU", Category: "compute",
		SubOptions: []models.SubOption{
			{ID: "cpu-2", Name: "2 vCPU", Description: "Light workloads"},
			{ID: "cpu-4", Name: "4 vCPU", Description: "General purpose"},
			{ID: "cpu-8", Name: "8 vCPU", Description: "Compute intensive"},
		},
	},
	{
		ID: "spec-memory", Name: "Memory", Category: "compute",
		SubOptions: []models.SubOption{
			{ID: "mem-4", Name: "4 GB"},
			{ID: "mem-8", Name: "8 GB"},
			{ID: "mem-16", Name: "16 GB"},
		},
	},
	{
		ID: "spec-storage", Name: "Storage", Category: "storage",
		SubOptions: []models.SubOption{
			{ID: "ssd-80", Name: "80 GB SSD"},
			{ID: "ssd-160", Name: "160 GB SSD"},
			{ID: "ssd-320", Name: "320 GB SSD"},
		},
	},
	{
		ID: "spec-network", Name: "Network", Category: "network",
		SubOptions: []models.SubOption{
			{ID: "net-1g", Name: "1 Gbps"},
			{ID: "net-10g", Name: "10 Gbps"},
		},
	},
	{
		ID: "spec-backup", Name: "Backups", Category: "data-protection",
		SubOptions: []models.SubOption{
			{ID: "bk-daily", Name: "Daily snapshots"},
			{ID: "bk-hourly", Name: "Hourly snapshots"},
		},
	},
	{ID: "spec-gpu", Name: "GPU", Category: "compute"},
	{ID: "spec-db", Name: "Managed Database", Category: "services"},
}

var planCatalog = []models.PredefinedServer{
	{
		ID: "plan-starter", Name: "Starter",
		Description:    "Entry-level instance for small sites and test environments",
		Specifications: []string{"spec-cpu", "spec-storage"},
		Price:          10, Features: []string{"2 vCPU", "4 GB RAM", "80 GB SSD"},
		RecommendedFor: "Personal projects",
	},
	{
		ID: "plan-web", Name: "Web",
		Description:    "Balanced compute and network for production web apps",
		Specifications: []string{"spec-cpu", "spec-memory", "spec-network"},
		Price:          24, Features: []string{"4 vCPU", "8 GB RAM", "160 GB SSD", "1 Gbps"},
		RecommendedFor: "Web applications",
	},
	{
		ID: "plan-data", Name: "Data",
		Description:    "Storage-heavy instance with managed database and backups",
		Specifications: []string{"spec-memory", "spec-storage", "spec-backup", "spec-db"},
		Price:          48, Features: []string{"4 vCPU", "16 GB RAM", "320 GB SSD", "Daily backups"},
		RecommendedFor: "Databases and analytics",
	},
	{
		ID: "plan-compute", Name: "Compute",
		Description:    "High-clock CPU and GPU option for batch and ML workloads",
		Specifications: []string{"spec-cpu", "spec-memory", "spec-gpu"},
		Price:          96, Features: []string{"8 vCPU", "16 GB RAM", "GPU attached"},
		RecommendedFor: "Compute-intensive workloads",
	},
	{
		ID: "plan-enterprise", Name: "Enterprise",
		Description:    "Everything included, with priority support",
		Specifications: []string{"spec-cpu", "spec-memory", "spec-storage", "spec-network", "spec-backup"},
		Price:          180, Features: []string{"8 vCPU", "16 GB RAM", "320 GB SSD", "10 Gbps", "Hourly backups"},
		RecommendedFor: "Business-critical systems",
	},
}

// SpecificationCatalog returns a copy of the specification categories.
func SpecificationCatalog() []models.ServerSpecification {
	out := make([]models.ServerSpecification, len(specificationCatalog))
	copy(out, specificationCatalog)
	return out
}

// PlanCatalog returns a copy of the predefined plans in catalog order.
func PlanCatalog() []models.PredefinedServer {
	out := make([]models.PredefinedServer, len(planCatalog))
	copy(out, planCatalog)
	return out
}

// PlanByID looks up a predefined plan.
func PlanByID(id string) (models.PredefinedServer, bool) {
	for _, p := range planCatalog {
		if p.ID == id {
			return p, true
		}
	}
	return models.PredefinedServer{}, false
}
