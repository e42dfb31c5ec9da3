package models

// Lookup tables records are sampled from.
var (
	FirstNames  = []string{"James", "Mary", "Robert", "Patricia", "John", "Jennifer", "Michael", "Linda"}
	LastNames   = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis"}
	Departments = []string{"Engineering", "Sales", "Marketing", "HR", "Product", "Legal", "Support"}
)

// Value ranges, inclusive at both ends.
const (
	MinAge    = 22
	MaxAge    = 65
	MinSalary = 40000
	MaxSalary = 160000
)

// DefaultEmailDomain is the domain appended to generated emails.
const DefaultEmailDomain = "company.com"

// Contains reports whether s is one of table's entries.
func Contains(table []string, s string) bool {
	for _, v := range table {
		if v == s {
			return true
		}
	}
	return false
}
