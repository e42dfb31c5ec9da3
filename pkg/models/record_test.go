package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeader(t *testing.T) {
	assert.Equal(t, "name,email,age,salary,department", strings.Join(Header(), ","))
}

func TestEmployeeValues(t *testing.T) {
	e := Employee{Name: "Mary Smith", Email: "mary.smith7@company.com", Age: 30, Salary: 55000, Department: "HR"}
	assert.Equal(t, []string{"Mary Smith", "mary.smith7@company.com", "30", "55000", "HR"}, e.Values())
	assert.Len(t, e.Row(), len(EmployeeSchema.Fields))
	assert.Equal(t, 55000, e.Map()["salary"])
}

func TestTables(t *testing.T) {
	assert.Len(t, FirstNames, 8)
	assert.Len(t, LastNames, 8)
	assert.Len(t, Departments, 7)
	assert.True(t, Contains(Departments, "Legal"))
	assert.False(t, Contains(Departments, "Finance"))
}
