package quill

// Stats is a point-in-time summary of the world, cheap enough to poll
// every frame.
type Stats struct {
	// Bodies is the total body count, Awake and Sleeping split it.
	// Static and kinematic bodies never sleep, so they count as awake.
	Bodies   int
	Awake    int
	Sleeping int

	// Fields is the number of gravity fields installed.
	Fields int

	// Contacts resolved during the most recent Step, summed over its
	// substeps.
	Contacts int

	// KineticEnergy totals 1/2 m v² over the dynamic bodies.
	KineticEnergy float64
}

// Stats computes the current summary.
func (w *World) Stats() Stats {
	s := Stats{
		Bodies:   len(w.bodies),
		Fields:   len(w.fields),
		Contacts: w.lastContacts,
	}
	for _, body := range w.bodies {
		if body.IsSleeping {
			s.Sleeping++
		} else {
			s.Awake++
		}
		s.KineticEnergy += body.KineticEnergy()
	}
	return s
}
