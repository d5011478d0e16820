package domain

type Settings struct {
	CompanyName       string `db:"company_name" json:"company_name"`
	Address           string `db:"address" json:"address"`
	GSTIN             string `db:"gstin" json:"gstin"`
	Phone             string `db:"phone" json:"phone"`
	Email             string `db:"email" json:"email"`
	StateCode         string `db:"state_code" json:"state_code"`
	AccountHolderName string `db:"account_holder_name" json:"account_holder_name"`
	AccountNumber     string `db:"account_number" json:"account_number"`
	IFSCCode          string `db:"ifsc_code" json:"ifsc_code"`
	BankName          string `db:"bank_name" json:"bank_name"`
}

// Snapshot is the full data set moved by export and import.
type Snapshot struct {
	Users    []User    `json:"users"`
	Products []Product `json:"products"`
	Bills    []Bill    `json:"bills"`
	Settings *Settings `json:"settings,omitempty"`
}
