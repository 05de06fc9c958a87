package domain

// AvailabilityResult is the transient outcome of an availability check. It
// is a snapshot: the store may change before a caller acts on it, which is
// why write paths re-validate rather than trusting this result.
type AvailabilityResult struct {
	Available          bool     `json:"available"`
	UnavailablePeriods []Window `json:"unavailablePeriods,omitempty"`
	// MyCartItems lists the requesting user's own overlapping cart holds.
	// They never block that user's own query.
	MyCartItems []Window `json:"myCartItems,omitempty"`
	// MalformedSkipped counts documents that failed strict parsing and were
	// excluded from the scan.
	MalformedSkipped int `json:"malformedSkipped,omitempty"`
}
