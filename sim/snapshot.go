package sim

// DwellerState is the wire form of a dweller.
type DwellerState struct {
	ID         ID      `json:"id"`
	Species    Species `json:"species"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Age        int     `json:"age"`
	StoredFood float64 `json:"food,omitempty"`
}

// Snapshot is the state of a world after a tick, ready to be sent to
// observers.
type Snapshot struct {
	Type     string         `json:"type"`
	RunID    string         `json:"run_id"`
	Tick     int            `json:"tick"`
	Width    float64        `json:"w"`
	Height   float64        `json:"h"`
	Ants     int            `json:"ants"`
	Food     int            `json:"food"`
	Dwellers []DwellerState `json:"dwellers"`
}

func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Type:     "state",
		RunID:    w.RunID.String(),
		Tick:     w.tick,
		Width:    w.bounds.Width(),
		Height:   w.bounds.Height(),
		Dwellers: make([]DwellerState, 0, w.registry.Len()),
	}
	for _, d := range w.registry.Sorted() {
		switch d.Species {
		case Ant:
			s.Ants++
		case Food:
			s.Food++
		}
		s.Dwellers = append(s.Dwellers, DwellerState{
			ID:         d.ID,
			Species:    d.Species,
			X:          d.Position.X,
			Y:          d.Position.Y,
			Age:        d.Age(w.tick),
			StoredFood: d.StoredFood,
		})
	}
	return s
}
