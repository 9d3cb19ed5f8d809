// Package dispatch matches on a variant by registering one handler per
// alternative:
//
//	p := dispatch.New[Shape, float64]()
//	_ = dispatch.Handle(p, "circle", func(c Circle) (float64, error) { return math.Pi * c.Radius * c.Radius, nil })
//	_ = dispatch.HandleFunc(p, "rectangle", Rectangle.Area)
//	area, err := p.Dispatch(shape)
//
// Dispatch extracts the alternatives in declaration order and runs the
// handler of the first one that matches. Sealing, explicit or on first
// dispatch, proves every alternative is handled, so the fold never reaches
// its uninhabited end.
package dispatch
