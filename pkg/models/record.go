// Package models defines the employee record produced by datagen, the
// schema describing its columns, and the lookup tables records are drawn
// from.
package models

import (
	"strconv"
)

// Employee is one synthetic employee row.
type Employee struct {
	Name       string `json:"name" bson:"name" avro:"name"`
	Email      string `json:"email" bson:"email" avro:"email"`
	Age        int    `json:"age" bson:"age" avro:"age"`
	Salary     int    `json:"salary" bson:"salary" avro:"salary"`
	Department string `json:"department" bson:"department" avro:"department"`
}

// Values returns the record's fields in column order as strings.
func (e Employee) Values() []string {
	return []string{
		e.Name,
		e.Email,
		strconv.Itoa(e.Age),
		strconv.Itoa(e.Salary),
		e.Department,
	}
}

// Row returns the record's fields in column order with native types.
func (e Employee) Row() []interface{} {
	return []interface{}{e.Name, e.Email, e.Age, e.Salary, e.Department}
}

// Map returns the record as a column-keyed map.
func (e Employee) Map() map[string]interface{} {
	return map[string]interface{}{
		"name":       e.Name,
		"email":      e.Email,
		"age":        e.Age,
		"salary":     e.Salary,
		"department": e.Department,
	}
}

// Schema defines the structure of record data.
type Schema struct {
	// Name identifies the schema (e.g., table name, event type)
	Name string `json:"name"`

	// Version tracks schema changes
	Version string `json:"version"`

	// Fields defines the structure of the data
	Fields []Field `json:"fields"`
}

// Field represents a single column in the schema.
type Field struct {
	// Name is the column identifier
	Name string `json:"name"`

	// Type specifies the data type (string or integer)
	Type string `json:"type"`

	// Description provides human-readable field information
	Description string `json:"description,omitempty"`

	// Required indicates if the field must be present
	Required bool `json:"required"`
}

// Field types used by EmployeeSchema.
const (
	TypeString  = "string"
	TypeInteger = "integer"
)

// EmployeeSchema describes the five employee columns in serialized order.
var EmployeeSchema = Schema{
	Name:    "employee",
	Version: "1",
	Fields: []Field{
		{Name: "name", Type: TypeString, Description: "first and last name separated by a space", Required: true},
		{Name: "email", Type: TypeString, Description: "first.lastN@domain, lower-cased", Required: true},
		{Name: "age", Type: TypeInteger, Description: "age in years", Required: true},
		{Name: "salary", Type: TypeInteger, Description: "annual salary", Required: true},
		{Name: "department", Type: TypeString, Description: "department label", Required: true},
	},
}

// Columns returns the field names in order.
func (s Schema) Columns() []string {
	cols := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		cols[i] = f.Name
	}
	return cols
}

// Header returns the header columns for employee data:
// name, email, age, salary, department.
func Header() []string {
	return EmployeeSchema.Columns()
}
