package constants

// User-facing messages shared by the CLI and the TUI.
const (
	MsgSignInRequired   = "Sign in to save and view your countdowns"
	MsgEnterLabel       = "Please enter a label"
	MsgSelectBothDates  = "Please select both start and end dates"
	MsgStartAfterEnd    = "Start date cannot be after end date"
	MsgDateFormat       = "Please enter dates as YYYY-MM-DD"
	MsgCalculateFirst   = "Please calculate days first"
	MsgDaysCompleted    = "Days completed!"
	MsgExtraDayIncluded = "+1 extra day included"
	MsgNoCountdowns     = "No countdowns saved yet"
)
