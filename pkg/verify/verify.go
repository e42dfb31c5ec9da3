// Package verify re-reads a generated CSV dataset and checks the
// properties every datagen output must satisfy.
package verify

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ajitpratap0/datagen/pkg/errors"
	"github.com/ajitpratap0/datagen/pkg/generator"
	"github.com/ajitpratap0/datagen/pkg/models"
)

// maxViolations caps how many violations a Report keeps in full.
const maxViolations = 100

// Options controls what Verify expects.
type Options struct {
	// Count is the expected number of data rows; negative accepts any.
	Count int64
	// EmailDomain defaults to models.DefaultEmailDomain.
	EmailDomain string
}

// Violation describes one failed check. Row is the zero-based data row,
// or -1 for the header and the row count.
type Violation struct {
	Row     int64
	Column  string
	Message string
}

func (v Violation) String() string {
	if v.Row < 0 {
		return v.Message
	}
	return fmt.Sprintf("row %d %s: %s", v.Row, v.Column, v.Message)
}

// Report summarizes a verified dataset.
type Report struct {
	Rows        int64
	Departments map[string]int64
	Violations  []Violation
	// Total counts all violations, including those past the cap.
	Total int64
}

// OK reports whether no violations were found
func (r *Report) OK() bool {
	return r.Total == 0
}

func (r *Report) add(row int64, column, format string, args ...interface{}) {
	r.Total++
	if len(r.Violations) < maxViolations {
		r.Violations = append(r.Violations, Violation{Row: row, Column: column, Message: fmt.Sprintf(format, args...)})
	}
}

// Verify reads a CSV dataset from r. It returns the report together with a
// validation error when any check fails; malformed CSV is a data error.
func Verify(r io.Reader, opts Options) (*Report, error) {
	domain := opts.EmailDomain
	if domain == "" {
		domain = models.DefaultEmailDomain
	}

	report := &Report{Departments: make(map[string]int64, len(models.Departments))}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return report, errors.New(errors.ErrorTypeValidation, "dataset is empty")
	}
	if err != nil {
		return report, errors.Wrap(err, errors.ErrorTypeData, "failed to read header")
	}
	want := strings.Join(models.Header(), ",")
	if got := strings.Join(header, ","); got != want {
		report.add(-1, "", "header is %q, want %q", got, want)
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return report, errors.Wrap(err, errors.ErrorTypeData, "failed to read row").
				WithDetail("row", report.Rows)
		}
		checkRow(report, report.Rows, row, domain)
		report.Rows++
	}

	if opts.Count >= 0 && report.Rows != opts.Count {
		report.add(-1, "", "found %d rows, want %d", report.Rows, opts.Count)
	}

	if !report.OK() {
		return report, errors.Newf(errors.ErrorTypeValidation, "%d violations, first: %s",
			report.Total, report.Violations[0]).
			WithDetail("rows", report.Rows)
	}
	return report, nil
}

func checkRow(report *Report, i int64, row []string, domain string) {
	if len(row) != len(models.EmployeeSchema.Fields) {
		report.add(i, "", "has %d columns, want %d", len(row), len(models.EmployeeSchema.Fields))
		return
	}
	name, email, age, salary, dept := row[0], row[1], row[2], row[3], row[4]

	first, last, ok := strings.Cut(name, " ")
	switch {
	case !ok:
		report.add(i, "name", "%q is not \"first last\"", name)
	case !models.Contains(models.FirstNames, first):
		report.add(i, "name", "unknown first name %q", first)
	case !models.Contains(models.LastNames, last):
		report.add(i, "name", "unknown last name %q", last)
	default:
		if want := generator.Email(first, last, i, domain); email != want {
			report.add(i, "email", "%q, want %q", email, want)
		}
	}

	checkRange(report, i, "age", age, models.MinAge, models.MaxAge)
	checkRange(report, i, "salary", salary, models.MinSalary, models.MaxSalary)

	if models.Contains(models.Departments, dept) {
		report.Departments[dept]++
	} else {
		report.add(i, "department", "unknown department %q", dept)
	}
}

func checkRange(report *Report, i int64, column, s string, lo, hi int) {
	v, err := strconv.Atoi(s)
	if err != nil {
		report.add(i, column, "%q is not an integer", s)
		return
	}
	if v < lo || v > hi {
		report.add(i, column, "%d outside [%d, %d]", v, lo, hi)
	}
}
