package schemas

import "time"

type StageSummary struct {
	Count int64   `json:"count" bson:"count"`
	Value float64 `json:"value" bson:"value"`
}

type MonthlyRevenue struct {
	Invoiced  float64 `json:"invoiced"`
	Collected float64 `json:"collected"`
}

type Dashboard struct {
	GeneratedAt time.Time `json:"generated_at"`

	ProspectsByStatus map[string]int64 `json:"prospects_by_status"`
	ProspectsTotal    int64            `json:"prospects_total"`
	ConversionRate    float64          `json:"conversion_rate"`

	PipelineByStage  map[string]StageSummary `json:"pipeline_by_stage"`
	PipelineValue    float64                 `json:"pipeline_value"`
	WeightedPipeline float64                 `json:"weighted_pipeline"`
	WinRate          float64                 `json:"win_rate"`

	RevenueByMonth     map[string]MonthlyRevenue `json:"revenue_by_month"`
	InvoicedTotal      float64                   `json:"invoiced_total"`
	CollectedTotal     float64                   `json:"collected_total"`
	OutstandingBalance float64                   `json:"outstanding_balance"`

	TicketsByStatus        map[string]int64 `json:"tickets_by_status"`
	TicketsByPriority      map[string]int64 `json:"tickets_by_priority"`
	AverageResolutionHours float64          `json:"average_resolution_hours"`
}
