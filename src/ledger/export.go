package ledger

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"fintrack-server/src/models"
)

const (
	csvBOM    = "\ufeff"
	csvHeader = "Data,Descrição,Tipo,Valor,Categoria"
)

var typeLabels = map[models.TransactionType]string{
	models.Income:  "Receita",
	models.Expense: "Despesa",
}

// WriteCSV renders the owner's transactions inside period (nil for all dates),
// newest first, as a UTF-8 CSV document prefixed with a byte-order mark. The
// header line always ends in "\n"; data rows are separated by "\n" with no
// trailing newline.
func WriteCSV(w io.Writer, owner int64, period *Period, txns []models.Transaction, categories []models.Category) error {
	scoped, err := scope(owner, period, txns)
	if err != nil {
		return err
	}
	sort.SliceStable(scoped, func(i, j int) bool {
		a, b := scoped[i], scoped[j]
		if a.Date != b.Date {
			return a.Date.After(b.Date)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	index := newCategoryIndex(owner, categories)

	bw := bufio.NewWriter(w)
	bw.WriteString(csvBOM)
	bw.WriteString(csvHeader)
	bw.WriteByte('\n')
	for i, t := range scoped {
		category := ""
		if cat := index.resolve(t); cat != nil {
			category = cat.Name
		}
		if i > 0 {
			bw.WriteByte('\n')
		}
		bw.WriteString(strings.Join([]string{
			FormatDateBR(t),
			quote(t.Description),
			typeLabels[t.Type],
			quoteIfNeeded(FormatAmount(t)),
			quoteIfNeeded(category),
		}, ","))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// FormatDateBR renders the transaction date as DD/MM/YYYY.
func FormatDateBR(t models.Transaction) string {
	return fmt.Sprintf("%02d/%02d/%04d", t.Date.Day, int(t.Date.Month), t.Date.Year)
}

// FormatAmount renders the amount with two decimals and a comma separator.
func FormatAmount(t models.Transaction) string {
	return strings.Replace(t.Amount.StringFixed(2), ".", ",", 1)
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return quote(s)
	}
	return s
}
