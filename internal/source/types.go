package source

// DiscoveredFile is a line item CSV found in a plans directory.
type DiscoveredFile struct {
	Path    string
	PlanKey string // file name without extension
}
