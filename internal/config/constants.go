package config

// Application constants
const (
	AppName = "High-Yield Fundraising Dashboard"

	// DefaultPort matches the port the dashboard has always been served on.
	DefaultPort = 8050

	// DefaultDataFile is looked up next to the executable when not found in the working directory.
	DefaultDataFile = "Fundraising Data.xlsx"

	DefaultLogFile = "logs/fundview.log"
)
