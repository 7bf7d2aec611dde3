package model

// Slot binds one position of an assignment to a track.
type Slot struct {
	Index   int    `json:"index"`
	TrackID string `json:"trackId"`
}

// AssignmentPlan is the ordered slot-to-track bijection produced by the
// gradient sequencer and the mosaic assigner. A slot holds at most one
// track and a track fills at most one slot.
type AssignmentPlan struct {
	Slots     []Slot  `json:"slots"`
	TotalCost float64 `json:"totalCost"`
}

// TrackIDs returns the track identifiers in slot order.
func (p *AssignmentPlan) TrackIDs() []string {
	ids := make([]string, len(p.Slots))
	for i, s := range p.Slots {
		ids[i] = s.TrackID
	}
	return ids
}
