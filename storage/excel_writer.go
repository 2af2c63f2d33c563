package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"deal-hunter/config"
	"deal-hunter/models"
	"deal-hunter/services"
)

const (
	dealSheet     = "Deal Pipeline"
	criteriaSheet = "Acquisition Criteria"

	// Descriptions are trimmed for spreadsheet display.
	maxSheetDescription = 300
)

// Human-readable labels for trait tags in the tracker.
var traitLabels = map[string]string{
	"recurring_revenue":    "Recurring Rev",
	"regulatory_moat":      "Reg. Moat",
	"labor_accessible":     "Trainable Labor",
	"high_switching_costs": "High Switch Cost",
	"non_cyclical":         "Non-Cyclical",
	"unglamorous":          "Unglamorous",
	"essential_service":    "Essential Svc",
}

var avoidLabels = map[string]string{
	"commodity_exposure":         "Commodity",
	"cyclical_demand":            "Cyclical",
	"specialized_labor_required": "Specialized Labor",
	"asset_light_digital":        "Digital",
	"construction_tied":          "Construction",
}

var dealHeaders = []string{
	"Score", "Title", "Industry", "Location", "Asking Price",
	"Revenue", "EBITDA/SDE", "Multiple", "Year Est.", "Employees",
	"Positive Traits", "Red Flags", "Description", "Source URL",
	"Date Found", "Rating", "Notes",
}

var dealColumnWidths = []float64{8, 40, 22, 20, 14, 14, 14, 10, 10, 10, 30, 20, 60, 45, 12, 15, 40}

// ExcelWriter renders the scored pipeline into the tracker workbook: a
// score-sorted "Deal Pipeline" sheet plus a criteria summary sheet.
type ExcelWriter struct {
	path string
}

func NewExcelWriter(path string) *ExcelWriter {
	return &ExcelWriter{path: path}
}

// Write saves the workbook, replacing any previous file at the configured
// path.
func (w *ExcelWriter) Write(deals []*models.Deal, criteria *config.Criteria) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", dealSheet); err != nil {
		return fmt.Errorf("excel: rename sheet: %w", err)
	}

	if err := w.writeDealSheet(f, deals); err != nil {
		return err
	}
	if err := w.writeCriteriaSheet(f, criteria); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("excel: create output dir: %w", err)
	}
	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("excel: save %q: %w", w.path, err)
	}
	return nil
}

func (w *ExcelWriter) writeDealSheet(f *excelize.File, deals []*models.Deal) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "F59E0B", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1A1F2E"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("excel: header style: %w", err)
	}

	moneyFmt := "$#,##0"
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt})
	if err != nil {
		return fmt.Errorf("excel: money style: %w", err)
	}

	multFmt := `0.0"x"`
	multStyle, err := f.NewStyle(&excelize.Style{
		CustomNumFmt: &multFmt,
		Alignment:    &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("excel: multiple style: %w", err)
	}

	scoreStyles := make(map[string]int, 4)
	for _, band := range []struct{ name, color string }{
		{"high", "059669"}, {"mid", "2563EB"}, {"low", "D97706"}, {"none", "6B7280"},
	} {
		id, err := f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: band.color, Size: 11},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		})
		if err != nil {
			return fmt.Errorf("excel: score style: %w", err)
		}
		scoreStyles[band.name] = id
	}

	for i, h := range dealHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("excel: header cell: %w", err)
		}
		if err := f.SetCellValue(dealSheet, cell, h); err != nil {
			return fmt.Errorf("excel: write header: %w", err)
		}
		if err := f.SetCellStyle(dealSheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("excel: style header: %w", err)
		}
	}

	for i, width := range dealColumnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("excel: column name: %w", err)
		}
		if err := f.SetColWidth(dealSheet, col, col, width); err != nil {
			return fmt.Errorf("excel: column width: %w", err)
		}
	}

	ranked := make([]*models.Deal, len(deals))
	copy(ranked, deals)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	for rowIdx, d := range ranked {
		row := rowIdx + 2

		values := []any{
			d.Score, d.Title, d.Industry, d.Location,
			cellNumber(d.AskingPrice), cellNumber(d.Revenue), cellNumber(d.Earnings()),
			cellNumber(d.Multiple), cellInt(d.YearEstablished), cellInt(d.Employees),
			labelList(d.Traits, traitLabels), labelList(d.AvoidTraits, avoidLabels),
			truncateText(d.Description, maxSheetDescription), d.URL, d.DateFound,
			"", "", // Rating and Notes stay blank for the reader to fill.
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return fmt.Errorf("excel: data cell: %w", err)
			}
			if v == nil {
				continue
			}
			if err := f.SetCellValue(dealSheet, cell, v); err != nil {
				return fmt.Errorf("excel: write row %d: %w", row, err)
			}
		}

		scoreCell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetCellStyle(dealSheet, scoreCell, scoreCell, scoreStyles[scoreBand(d.Score)]); err != nil {
			return fmt.Errorf("excel: style score: %w", err)
		}

		for _, col := range []int{5, 6, 7} {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			if err := f.SetCellStyle(dealSheet, cell, cell, moneyStyle); err != nil {
				return fmt.Errorf("excel: style money: %w", err)
			}
		}
		if d.Multiple != nil {
			cell, _ := excelize.CoordinatesToCellName(8, row)
			if err := f.SetCellStyle(dealSheet, cell, cell, multStyle); err != nil {
				return fmt.Errorf("excel: style multiple: %w", err)
			}
		}
	}

	if err := f.SetPanes(dealSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("excel: freeze header: %w", err)
	}

	return nil
}

func (w *ExcelWriter) writeCriteriaSheet(f *excelize.File, criteria *config.Criteria) error {
	if _, err := f.NewSheet(criteriaSheet); err != nil {
		return fmt.Errorf("excel: criteria sheet: %w", err)
	}
	if err := f.SetColWidth(criteriaSheet, "A", "A", 25); err != nil {
		return fmt.Errorf("excel: criteria width: %w", err)
	}
	if err := f.SetColWidth(criteriaSheet, "B", "B", 40); err != nil {
		return fmt.Errorf("excel: criteria width: %w", err)
	}

	evMin := services.FormatMoney(&criteria.EVMin)
	evMax := services.FormatMoney(&criteria.EVMax)
	revMin := services.FormatMoney(&criteria.RevenueMin)
	revMax := services.FormatMoney(&criteria.RevenueMax)
	ebitdaMin := services.FormatMoney(&criteria.EBITDAMin)

	rows := [][2]string{
		{"ACQUISITION CRITERIA", ""},
		{"", ""},
		{"Enterprise Value", fmt.Sprintf("%s – %s", evMin, evMax)},
		{"Revenue Range", fmt.Sprintf("%s – %s", revMin, revMax)},
		{"Minimum EBITDA", ebitdaMin},
		{"Maximum Multiple", fmt.Sprintf("%.1fx EBITDA", criteria.MaxMultiple)},
		{"Geography", criteria.Geography},
		{"", ""},
		{"PREFERRED TRAITS", ""},
	}
	for _, t := range criteria.PreferredTraits {
		rows = append(rows, [2]string{"", displayLabel(t, traitLabels)})
	}
	rows = append(rows, [2]string{"", ""}, [2]string{"AVOID", ""})
	for _, t := range criteria.AvoidTraits {
		rows = append(rows, [2]string{"", displayLabel(t, avoidLabels)})
	}
	rows = append(rows, [2]string{"", ""}, [2]string{"TARGET INDUSTRIES", ""})
	for _, ind := range criteria.TargetIndustries {
		rows = append(rows, [2]string{"", ind})
	}

	sectionStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12, Color: "F59E0B"},
	})
	if err != nil {
		return fmt.Errorf("excel: section style: %w", err)
	}

	for i, row := range rows {
		cellA, _ := excelize.CoordinatesToCellName(1, i+1)
		cellB, _ := excelize.CoordinatesToCellName(2, i+1)
		if err := f.SetCellValue(criteriaSheet, cellA, row[0]); err != nil {
			return fmt.Errorf("excel: criteria row: %w", err)
		}
		if err := f.SetCellValue(criteriaSheet, cellB, row[1]); err != nil {
			return fmt.Errorf("excel: criteria row: %w", err)
		}
		if row[0] != "" {
			if err := f.SetCellStyle(criteriaSheet, cellA, cellA, sectionStyle); err != nil {
				return fmt.Errorf("excel: criteria style: %w", err)
			}
		}
	}

	return nil
}

func scoreBand(score int) string {
	switch {
	case score >= 80:
		return "high"
	case score >= 60:
		return "mid"
	case score >= 40:
		return "low"
	default:
		return "none"
	}
}

// cellNumber and cellInt return nil for absent values so the cell stays
// genuinely empty instead of showing a zero.
func cellNumber(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func cellInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func labelList(tags []string, labels map[string]string) string {
	out := ""
	for i, t := range tags {
		if i > 0 {
			out += ", "
		}
		out += displayLabel(t, labels)
	}
	return out
}

func displayLabel(tag string, labels map[string]string) string {
	if label, ok := labels[tag]; ok {
		return label
	}
	return tag
}

func truncateText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
