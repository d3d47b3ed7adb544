package views

import (
	"time"

	"github.com/mesh-intelligence/cadence/pkg/types"
)

// DashboardRow is one company on the dashboard.
type DashboardRow struct {
	Company types.Company `json:"company"`
	Recent  []Entry       `json:"recent"`
	Next    time.Time     `json:"next"`
	Status  types.Status  `json:"status"`
}

// Dashboard returns one row per company in insertion order.
func Dashboard(src Source, now time.Time) []DashboardRow {
	snap := src.Snapshot()
	n := newNames(snap)

	rows := make([]DashboardRow, 0, len(snap.Companies))
	for _, c := range snap.Companies {
		row := DashboardRow{Company: c}
		for _, comm := range src.LastFiveCommunications(c.ID) {
			row.Recent = append(row.Recent, n.entry(comm))
		}
		if next, ok := src.NextScheduledCommunication(c.ID); ok {
			row.Next = next
			row.Status = types.Classify(next, now)
		}
		rows = append(rows, row)
	}
	return rows
}
