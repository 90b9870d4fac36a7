package domain

// ExpenseExportRow is a single row in a trip's expense export.
// It is a flat, denormalized view: one row per expense participant, with
// expense fields repeated. Transfers yield one row with the recipient in
// ParticipantName and Share equal to the converted value.
//
// Money fields are pre-formatted decimal strings with two decimals so JSON
// and CSV renderings agree. Value is in the expense currency, Share in the
// trip currency.
type ExpenseExportRow struct {
	ExpenseID       string
	Title           string
	SpentAt         string // "2006-01-02"
	PaidBy          string
	Currency        string
	Value           string
	Estimated       bool
	ExchangeRate    string
	FeePercent      string
	Transfer        bool
	ParticipantName string
	Share           string
}
