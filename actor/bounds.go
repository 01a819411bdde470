package actor

// BoundsAction selects how the world treats a body crossing the world
// bounds.
type BoundsAction int

const (
	// BoundsIgnore lets the body leave freely
	BoundsIgnore BoundsAction = iota

	// BoundsEvent reports the violation and lets the body continue
	BoundsEvent

	// BoundsClamp pins the body at the edge and reflects its velocity
	BoundsClamp

	// BoundsWrap teleports the body to the opposite edge
	BoundsWrap

	// BoundsDelete marks the body for removal once past the safety margin
	BoundsDelete
)

func (a BoundsAction) String() string {
	switch a {
	case BoundsIgnore:
		return "ignore"
	case BoundsEvent:
		return "event"
	case BoundsClamp:
		return "clamp"
	case BoundsWrap:
		return "wrap"
	case BoundsDelete:
		return "delete"
	}

	return "unknown"
}

// BoundsBehavior pairs an action with its parameters. A body carrying
// one overrides the world default.
type BoundsBehavior struct {
	Action BoundsAction

	// Restitution scales the velocity kept by a clamp reflection
	Restitution float64

	// SafetyMargin is the distance past the edge tolerated before a
	// delete triggers
	SafetyMargin float64
}
