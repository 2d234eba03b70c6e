package domain

import (
	"fmt"
	"strings"
	"testing"
)

func zeroTranches() []TrancheDelai {
	labels := []string{"< 1j", "1-3j", "3-7j", "7-30j", "> 30j"}
	out := make([]TrancheDelai, 0, len(labels))
	for _, l := range labels {
		out = append(out, TrancheDelai{Label: l})
	}
	return out
}

func topGroups(n, each int, pct float64) []VentilationItem {
	out := make([]VentilationItem, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, VentilationItem{Label: fmt.Sprintf("_DSI > G%02d", i), Total: each, PourcentageTotal: pct})
	}
	return out
}

func TestDashboardKpiAcceptsBackendShapes(t *testing.T) {
	tests := []struct {
		name string
		kpi  DashboardKpi
	}{
		{
			name: "empty resolution sample",
			kpi: DashboardKpi{
				Resolution:    ResolutionKpi{DistributionTranches: zeroTranches()},
				PriseEnCharge: PriseEnChargeKpi{Distribution: zeroTranches()},
			},
		},
		{
			// 10 of 12 equal groups, shares of the grand total.
			name: "top ten groups",
			kpi: DashboardKpi{
				Meta:      DashboardMeta{TotalTickets: 120, TotalVivants: 120},
				Typologie: TypologieKpi{ParGroupe: topGroups(10, 10, 8.3)},
			},
		},
		{
			name: "many rounded categories",
			kpi: DashboardKpi{
				Meta:      DashboardMeta{TotalTickets: 3540, TotalVivants: 3540},
				Typologie: TypologieKpi{ParCategorie: topGroups(60, 59, 1.7)},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.kpi.Validate(); err != nil {
				t.Fatalf("Validate(): %v", err)
			}
		})
	}
}

func TestDashboardKpiRejectsBrokenBreakdowns(t *testing.T) {
	tests := []struct {
		name string
		kpi  DashboardKpi
		want string
	}{
		{
			name: "groups above 100",
			kpi:  DashboardKpi{Typologie: TypologieKpi{ParGroupe: topGroups(10, 10, 12)}},
			want: "typologie.parGroupe",
		},
		{
			name: "tranches short of 100",
			kpi: DashboardKpi{Resolution: ResolutionKpi{DistributionTranches: []TrancheDelai{
				{Label: "< 1j", Count: 5, Pourcentage: 50},
				{Label: "> 1j", Count: 3, Pourcentage: 30},
			}}},
			want: "resolution.distributionTranches",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.kpi.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate() = %v, want error naming %s", err, tt.want)
			}
		})
	}
}
