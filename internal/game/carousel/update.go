package carousel

// Step advances one ring by a frame: spin, move, then reflect at the bounds.
// The bound test uses the signed velocity Direction*MoveSpeed, so a ring
// driven by a negative MoveSpeed reflects like one with a negative
// Direction. A ring outside its bounds that is already heading back is not
// flipped again, so it walks back instead of flipping every frame.
func (r *Ring) Step(mode ReflectMode) {
	r.Angle += r.RotationSpeed
	vel := r.Direction * r.MoveSpeed
	r.Position += vel

	switch {
	case r.Position > r.Max && vel > 0:
		if mode == ReflectExact {
			r.Position = 2*r.Max - r.Position
		}
		r.Direction = -r.Direction
	case r.Position < r.Min && vel < 0:
		if mode == ReflectExact {
			r.Position = 2*r.Min - r.Position
		}
		r.Direction = -r.Direction
	}
}

// Tick applies the update rule to every ring in order.
func (s *State) Tick() {
	for _, r := range s.Rings {
		r.Step(s.Reflect)
	}
	s.Frame++
}
