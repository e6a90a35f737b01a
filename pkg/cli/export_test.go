package cli

var (
	PrintEvent     = printEvent
	DetectMimeType = detectMimeType
	NewGateway     = newGateway
)
