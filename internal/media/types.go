package media

type Type string

const (
	TypeActor    Type = "actor"
	TypeObstacle Type = "obstacle"
)

// Size returns the dimensions every image of the type must have.
func (t Type) Size() (w int16, h int16) {
	switch t {
	case TypeActor:
		return 6, 8
	case TypeObstacle:
		return 3, 8
	default:
		return 0, 0
	}
}
