package service

import (
	"github.com/shopspring/decimal"

	"iptv-manager/internal/domains/catalog/model"
)

// Fallback lists used when a lookup query fails, so the import wizard stays usable.

func defaultServers() []model.Server {
	return []model.Server{
		{Name: "Servidor 1"},
		{Name: "Servidor 2"},
	}
}

func defaultPlans() []model.Plan {
	return []model.Plan{
		{Name: "Mensal", Price: decimal.NewFromInt(35), Screens: 1},
		{Name: "Trimestral", Price: decimal.NewFromInt(90), Screens: 1},
		{Name: "Semestral", Price: decimal.NewFromInt(170), Screens: 1},
		{Name: "Anual", Price: decimal.NewFromInt(300), Screens: 1},
	}
}

func defaultApplications() []model.Application {
	return []model.Application{
		{Name: "NextApp"},
		{Name: "IPTV Smarters"},
		{Name: "XCIPTV"},
		{Name: "TiviMate"},
	}
}
