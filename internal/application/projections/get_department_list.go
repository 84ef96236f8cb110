package projections

import (
	"bytes"
	"context"
	"html"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// mdRenderer converts department descriptions. WithUnsafe is not set, so
// raw HTML in a description is dropped from the output.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// GetDepartmentListDeps holds dependencies for GetDepartmentList.
type GetDepartmentListDeps struct {
	DepartmentStore DepartmentReader
	EmployeeStore   EmployeeReader
}

// DepartmentRow is one department with its rendered description.
type DepartmentRow struct {
	Index           int
	Name            string
	Description     string
	DescriptionHTML string
	Employees       int
}

// GetDepartmentListResult carries all departments in store order.
type GetDepartmentListResult struct {
	Rows []DepartmentRow
}

// QueryGetDepartmentList lists departments with head counts.
// POST: DescriptionHTML is safe to embed; on render failure it is the escaped source
func QueryGetDepartmentList(_ context.Context, deps GetDepartmentListDeps) (GetDepartmentListResult, error) {
	counts := make(map[string]int)
	for _, e := range deps.EmployeeStore.Employees() {
		counts[e.Department]++
	}

	depts := deps.DepartmentStore.Departments()
	rows := make([]DepartmentRow, 0, len(depts))
	for i, d := range depts {
		rows = append(rows, DepartmentRow{
			Index:           i,
			Name:            d.Name,
			Description:     d.Description,
			DescriptionHTML: renderMarkdown(d.Description),
			Employees:       counts[d.Name],
		})
	}
	return GetDepartmentListResult{Rows: rows}, nil
}

func renderMarkdown(md string) string {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return html.EscapeString(md)
	}
	return buf.String()
}
