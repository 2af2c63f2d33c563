package services

import (
	"fmt"
	"html/template"
	"sort"
	"strings"
	"time"

	"deal-hunter/models"
	"deal-hunter/utils"
)

// maxDigestDeals caps the weekly digest at the top-scored deals.
const maxDigestDeals = 25

// DigestService aggregates scored deals into the weekly report: summary
// stats, the HTML email body, and a console rendition.
type DigestService struct {
	logger *utils.Logger
}

func NewDigestService(logger *utils.Logger) *DigestService {
	return &DigestService{logger: logger}
}

// Report computes digest stats over the accepted deals. The input slice is
// not reordered.
func (s *DigestService) Report(deals []*models.Deal) *models.DigestReport {
	report := &models.DigestReport{
		DealsByIndustry: make(map[string]int),
	}
	if len(deals) == 0 {
		return report
	}

	report.TotalDeals = len(deals)
	report.PassedFilter = len(deals)

	ranked := make([]*models.Deal, len(deals))
	copy(ranked, deals)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > maxDigestDeals {
		report.TopDeals = ranked[:maxDigestDeals]
	} else {
		report.TopDeals = ranked
	}
	report.TopScore = ranked[0].Score

	var multTotal float64
	var multCount int
	for _, d := range report.TopDeals {
		if d.Multiple != nil {
			multTotal += *d.Multiple
			multCount++
		}
	}
	if multCount > 0 {
		report.AverageMultiple = multTotal / float64(multCount)
	}

	for _, d := range deals {
		if d.Industry != "" {
			report.DealsByIndustry[d.Industry]++
		}
	}

	return report
}

var digestFuncs = template.FuncMap{
	"money": func(n *float64) string { return FormatMoney(n) },
	"earnings": func(d *models.Deal) string {
		return FormatMoney(d.Earnings())
	},
	"mult": func(m *float64) string {
		if m == nil {
			return "N/A"
		}
		return fmt.Sprintf("%.1fx", *m)
	},
	"scoreColor": ScoreHexColor,
	"multColor": func(m *float64) string {
		switch {
		case m != nil && *m <= 3.5:
			return "#059669"
		case m != nil && *m <= 4.0:
			return "#d97706"
		default:
			return "#6b7280"
		}
	},
	"rowBG": func(i int) string {
		if i%2 == 0 {
			return "#f8f9fa"
		}
		return "#ffffff"
	},
	"avgMult": func(v float64) string {
		if v == 0 {
			return "N/A"
		}
		return fmt.Sprintf("%.1fx", v)
	},
}

// ScoreHexColor maps a score to its display color band.
func ScoreHexColor(score int) string {
	switch {
	case score >= 80:
		return "#059669"
	case score >= 60:
		return "#2563eb"
	case score >= 40:
		return "#d97706"
	default:
		return "#6b7280"
	}
}

var digestTmpl = template.Must(template.New("digest").Funcs(digestFuncs).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="margin:0;padding:0;background:#f0f0f0;font-family:Arial,Helvetica,sans-serif">
<div style="max-width:700px;margin:20px auto;background:#ffffff;border-radius:8px;overflow:hidden;box-shadow:0 2px 8px rgba(0,0,0,0.1)">

    <div style="background:#0c0f14;padding:24px 32px">
        <h1 style="margin:0;color:#f59e0b;font-size:24px">&#11041; DEAL HUNTER</h1>
        <p style="margin:4px 0 0;color:#6b7280;font-size:13px;letter-spacing:1px">WEEKLY ACQUISITION DIGEST &mdash; {{.WeekDate}}</p>
    </div>

    <div style="padding:20px 32px;background:#f8f9fa;border-bottom:1px solid #e5e7eb">
        <p style="margin:0;font-size:15px;color:#374151">
            Found <strong>{{len .Report.TopDeals}} deals</strong> matching your criteria this week.
            Top score: <strong style="color:#059669">{{.Report.TopScore}}</strong> &middot;
            Avg multiple: <strong>{{avgMult .Report.AverageMultiple}}</strong>
        </p>
    </div>

    <div style="padding:16px 32px">
        <table style="width:100%;border-collapse:collapse;font-size:14px">
            <thead>
                <tr style="border-bottom:2px solid #e5e7eb">
                    <th style="padding:8px;text-align:center;color:#6b7280;font-size:11px;letter-spacing:1px">SCORE</th>
                    <th style="padding:8px;text-align:left;color:#6b7280;font-size:11px;letter-spacing:1px">DEAL</th>
                    <th style="padding:8px;text-align:right;color:#6b7280;font-size:11px;letter-spacing:1px">ASK</th>
                    <th style="padding:8px;text-align:right;color:#6b7280;font-size:11px;letter-spacing:1px">EBITDA</th>
                    <th style="padding:8px;text-align:center;color:#6b7280;font-size:11px;letter-spacing:1px">MULT</th>
                </tr>
            </thead>
            <tbody>
            {{range $i, $d := .Report.TopDeals}}
                <tr style="background:{{rowBG $i}}">
                    <td style="padding:12px 8px;text-align:center;font-weight:bold;color:{{scoreColor $d.Score}};font-size:16px">{{$d.Score}}</td>
                    <td style="padding:12px 8px">
                        <a href="{{$d.URL}}" style="color:#1a1a1a;font-weight:600;text-decoration:none">{{$d.Title}}</a><br>
                        <span style="color:#6b7280;font-size:12px">{{$d.Industry}} &middot; {{$d.Location}}</span>
                    </td>
                    <td style="padding:12px 8px;text-align:right;font-family:monospace">{{money $d.AskingPrice}}</td>
                    <td style="padding:12px 8px;text-align:right;font-family:monospace">{{earnings $d}}</td>
                    <td style="padding:12px 8px;text-align:center;font-family:monospace;color:{{multColor $d.Multiple}}">{{mult $d.Multiple}}</td>
                </tr>
            {{end}}
            </tbody>
        </table>
    </div>

    <div style="padding:20px 32px;background:#f8f9fa;border-top:1px solid #e5e7eb">
        <p style="margin:0;font-size:13px;color:#6b7280">
            <strong>Reply to this email with feedback:</strong> Rate deals as Pass / Maybe / Interested / Strong Interest.
            Your feedback sharpens future results.
        </p>
        <p style="margin:8px 0 0;font-size:12px;color:#9ca3af">
            Deal Hunter &middot; Sources: BizBuySell &middot; Criteria: Essential services, regulatory moats, trainable labor, &le;4x EBITDA
        </p>
    </div>

</div>
</body>
</html>`))

// RenderHTML renders the weekly digest email body for the given report.
func (s *DigestService) RenderHTML(report *models.DigestReport, weekDate string) (string, error) {
	if weekDate == "" {
		weekDate = time.Now().Format("January 2, 2006")
	}

	var buf strings.Builder
	err := digestTmpl.Execute(&buf, struct {
		Report   *models.DigestReport
		WeekDate string
	}{report, strings.ToUpper(weekDate)})
	if err != nil {
		return "", fmt.Errorf("digest: render template: %w", err)
	}
	return buf.String(), nil
}

// Print writes the digest summary to the console.
func (s *DigestService) Print(r *models.DigestReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  ⬡ DEAL HUNTER — WEEKLY PIPELINE\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Deals passing filters : \033[1m%d\033[0m\n", r.TotalDeals)
	fmt.Printf("  Top score             : \033[1m%d\033[0m\n", r.TopScore)
	if r.AverageMultiple > 0 {
		fmt.Printf("  Average multiple      : \033[1m%.1fx\033[0m\n", r.AverageMultiple)
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Top Deals\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.TopDeals) == 0 {
		fmt.Printf("  No deals this run\n")
	} else {
		top := r.TopDeals
		if len(top) > 5 {
			top = top[:5]
		}
		for i, d := range top {
			title := d.Title
			if len(title) > 38 {
				title = title[:35] + "..."
			}
			fmt.Printf("  \033[1m%d.\033[0m %-40s \033[1;32m%3d\033[0m  %s\n",
				i+1, title, d.Score, d.Industry)
		}
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Deals by Industry\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.DealsByIndustry) == 0 {
		fmt.Printf("  No industry data\n")
	} else {
		type indCount struct {
			industry string
			count    int
		}
		var inds []indCount
		for ind, cnt := range r.DealsByIndustry {
			inds = append(inds, indCount{ind, cnt})
		}
		sort.Slice(inds, func(i, j int) bool {
			if inds[i].count != inds[j].count {
				return inds[i].count > inds[j].count
			}
			return inds[i].industry < inds[j].industry
		})
		for _, ic := range inds {
			bar := strings.Repeat("█", ic.count)
			fmt.Printf("  %-30s %s (%d)\n", ic.industry, bar, ic.count)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}
