package exitcode

const (
	Success          = 0
	UsageError       = 1
	DiscoveryError   = 2
	NoDataError      = 3
	ConsolidateError = 4
	WriteError       = 5
	PartialSuccess   = 6
)
