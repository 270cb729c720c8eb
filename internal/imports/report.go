package imports

import "fmt"

// Report summarizes one import. Row numbers in Errors are spreadsheet rows, so the
// first data row is Row 2.
type Report struct {
	TotalRows  int      `json:"totalRows"`
	ValidRows  int      `json:"validRows"`
	Created    int      `json:"created"`
	Updated    int      `json:"updated"`
	FailedRows int      `json:"failedRows"`
	Errors     []string `json:"errors"`
}

func newReport() *Report {
	return &Report{Errors: []string{}}
}

func (r *Report) fail(dataIndex int, reason string) {
	r.FailedRows++
	r.Errors = append(r.Errors, fmt.Sprintf("Row %d: %s", rowNumber(dataIndex), reason))
}

func (r *Report) succeed(created bool) {
	r.ValidRows++
	if created {
		r.Created++
		return
	}
	r.Updated++
}

func rowNumber(dataIndex int) int {
	return dataIndex + 2
}
