package service

import (
	"fmt"
	"strings"

	"anoa.com/academicrecords/internal/entity"
	"anoa.com/academicrecords/internal/modules/report/dto"
)

const ruleWidth = 70

// RenderText lays a report out as the plain-text module analysis sheet.
func RenderText(r *dto.Report) string {
	var b strings.Builder
	heavy := strings.Repeat("=", ruleWidth)
	light := strings.Repeat("-", ruleWidth)
	label := r.ModuleCode
	if r.ModuleName != "" {
		label += " - " + r.ModuleName
	}

	if r.Status == dto.StatusNoAssessments {
		fmt.Fprintf(&b, "Generating report for %s...\n\n", label)
		b.WriteString("No assessments found for this module.\n")
		return b.String()
	}

	fmt.Fprintln(&b, heavy)
	fmt.Fprintln(&b, "MODULE ANALYSIS REPORT")
	fmt.Fprintln(&b, heavy)
	fmt.Fprintf(&b, "Module: %s\n", label)
	fmt.Fprintf(&b, "Generated: %s\n", r.GeneratedAt.Format(entity.ActivityTimeLayout))
	fmt.Fprintln(&b, heavy)
	b.WriteString("\n")

	for _, a := range r.Assessments {
		fmt.Fprintf(&b, "Assessment: %s\n", a.Title)
		fmt.Fprintf(&b, "  Type: %s\n", a.Type)
		fmt.Fprintf(&b, "  Max Marks: %d\n", a.MaxMarks)
		fmt.Fprintf(&b, "  Submissions: %d\n", a.Submissions)
		fmt.Fprintf(&b, "  Average: %.2f\n", a.Average)
		fmt.Fprintf(&b, "  Highest: %d\n", a.Highest)
		fmt.Fprintf(&b, "  Lowest: %d\n", a.Lowest)
		fmt.Fprintln(&b, light)
	}

	if r.Status == dto.StatusInsufficient {
		b.WriteString("\n*** INSUFFICIENT DATA ***\n")
		fmt.Fprintf(&b, "Minimum %d results required for statistical analysis.\n", r.MinResults)
		fmt.Fprintf(&b, "Current results: %d\n", r.TotalResults)
		return b.String()
	}

	b.WriteString("\n")
	fmt.Fprintln(&b, heavy)
	fmt.Fprintln(&b, "OVERALL MODULE STATISTICS")
	fmt.Fprintln(&b, heavy)
	fmt.Fprintf(&b, "Total Submissions: %d\n", r.TotalResults)
	if r.OverallAverage != nil {
		fmt.Fprintf(&b, "Overall Average: %.2f\n\n", *r.OverallAverage)
	}
	fmt.Fprintln(&b, "GRADE DISTRIBUTION:")
	fmt.Fprintln(&b, light)
	for _, g := range r.Distribution {
		fmt.Fprintf(&b, "  %-5s : %3d students (%.1f%%) %s\n", g.Grade, g.Count, g.Percentage, strings.Repeat("█", g.Bar))
	}
	fmt.Fprintln(&b, heavy)
	return b.String()
}
