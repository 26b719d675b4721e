package models

// Student is one row of the enrolled roster. JSON keys follow the
// spreadsheet column headers the feeds use.
type Student struct {
	ID          string `json:"ID No" validate:"required"`
	FirstName   string `json:"First Name"`
	LastName    string `json:"Last Name"`
	FullName    string `json:"Full Name"`
	Department  string `json:"Department"`
	DateOfBirth string `json:"Date of Birth"`
	Address     string `json:"Address"`
	BloodGroup  string `json:"Blood Group"`
	Email       string `json:"Email" validate:"omitempty,email"`
}
