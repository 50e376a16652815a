package ledger

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"

	"fintrack-server/src/models"
)

var monthNames = [12]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// MonthName returns the Portuguese name of a 1-based month.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}

type ReportPeriod struct {
	Start civil.Date `json:"start"`
	End   civil.Date `json:"end"`
	Month string     `json:"month"`
}

type MonthlyReport struct {
	Period     ReportPeriod    `json:"period"`
	ByCategory []CategoryTotal `json:"byCategory"`
	ByDay      []DayTotal      `json:"byDay"`
}

// BuildMonthlyReport assembles the report for one calendar month from an
// already fetched snapshot of the owner's transactions and categories.
func BuildMonthlyReport(owner int64, year int, month time.Month, txns []models.Transaction, categories []models.Category) (MonthlyReport, error) {
	period, err := MonthPeriod(year, month)
	if err != nil {
		return MonthlyReport{}, err
	}
	byCategory, err := GroupByCategory(owner, &period, txns, categories)
	if err != nil {
		return MonthlyReport{}, err
	}
	byDay, err := GroupByDay(owner, &period, txns)
	if err != nil {
		return MonthlyReport{}, err
	}
	return MonthlyReport{
		Period: ReportPeriod{
			Start: period.Start,
			End:   period.End,
			Month: fmt.Sprintf("%s %d", MonthName(month), year),
		},
		ByCategory: byCategory,
		ByDay:      byDay,
	}, nil
}
