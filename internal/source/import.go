package source

// Import is a module import in one file. Referenced is the indexer's
// own verdict; Unused is set by analysis.
type Import struct {
	File       string
	Module     string
	Location   Location
	Testable   bool
	Exported   bool
	Referenced bool
	Unused     bool
}
