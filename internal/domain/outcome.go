package domain

// ItemError records a per-equipment side-effect failure during a lifecycle
// transition that has already committed.
type ItemError struct {
	EquipmentID string    `json:"equipmentId"`
	Kind        ErrorKind `json:"kind"`
	Detail      string    `json:"detail"`
}

// ApproveOutcome reports an approval. The reservation transition commits
// first; equipment flips and the calendar side-channel follow best-effort
// and are surfaced here instead of being rolled back.
type ApproveOutcome struct {
	Reservation     *Reservation `json:"reservation"`
	EquipmentErrors []ItemError  `json:"equipmentErrors,omitempty"`
	CalendarWarning string       `json:"calendarWarning,omitempty"`
}

// ReturnOutcome reports a finalized return, including any equipment updates
// that failed after the reservation already moved to returned.
type ReturnOutcome struct {
	Reservation     *Reservation `json:"reservation"`
	EquipmentErrors []ItemError  `json:"equipmentErrors,omitempty"`
}

// BatchItemOutcome is the per-reservation result of a batch action.
type BatchItemOutcome struct {
	ReservationID string            `json:"reservationId"`
	Status        ReservationStatus `json:"status,omitempty"`
	ErrKind       ErrorKind         `json:"errKind,omitempty"`
	Detail        string            `json:"detail,omitempty"`
	// SideEffectFailed marks reservations whose status committed in the
	// first pass but whose equipment update failed in the second.
	SideEffectFailed bool `json:"sideEffectFailed,omitempty"`
}

// BatchOutcome aggregates a batch action. Never a single pass/fail bit:
// callers get per-item outcomes plus side-effect counts, and
// NeedsManualReview is set whenever the two write passes diverged.
type BatchOutcome struct {
	Items             []BatchItemOutcome `json:"items"`
	SideEffectsOK     int                `json:"sideEffectsOk"`
	SideEffectsFailed int                `json:"sideEffectsFailed"`
	NeedsManualReview bool               `json:"needsManualReview"`
}

// AttachmentOutcome reports the accessory resolver's greedy search: at most
// one unit per hint, plus the categories where no compatible unit was free.
type AttachmentOutcome struct {
	Attached []CartItem `json:"attached"`
	// NoCompatibleUnit lists hint categories exhausted without a match.
	NoCompatibleUnit []string `json:"noCompatibleUnit,omitempty"`
}
