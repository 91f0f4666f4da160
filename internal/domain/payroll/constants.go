package payroll

const (
	RateModeFixed  = "fixed"
	RateModeCustom = "custom"
)

const (
	dateLayoutISO = "2006-01-02"
	dateLayoutUI  = "02.01.2006"
)
