package main

import (
	"errors"
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"extensible-data/dispatch"
	"extensible-data/variant"
)

type Circle struct{ Radius float64 }

type Rectangle struct{ Width, Height float64 }

type Triangle struct{ Base, Height float64 }

// Shape is a subset of ShapePlus.
type Shape struct {
	Circle    *Circle
	Rectangle *Rectangle
}

type ShapePlus struct {
	Triangle  *Triangle
	Rectangle *Rectangle
	Circle    *Circle
}

// areaPipeline returns a sealed area visitor over ShapePlus.
func areaPipeline() (*dispatch.Pipeline[ShapePlus, float64], error) {
	p := dispatch.New[ShapePlus, float64]()

	err := errors.Join(
		dispatch.Handle(p, "circle", func(c Circle) (float64, error) { return math.Pi * c.Radius * c.Radius, nil }),
		dispatch.Handle(p, "rectangle", func(r Rectangle) (float64, error) { return r.Width * r.Height, nil }),
		dispatch.HandleFunc(p, "triangle", func(t Triangle) float64 { return t.Base * t.Height / 2 }),
	)
	if err != nil {
		return nil, err
	}

	if err := p.Seal(); err != nil {
		return nil, err
	}

	return p, nil
}

func runShapes(cmd *cobra.Command, opts *rootOptions) error {
	out := cmd.OutOrStdout()

	up, err := variant.Upcast[ShapePlus](Shape{Circle: &Circle{Radius: 1}})
	if err != nil {
		return err
	}

	opts.show(cmd, "upcast circle", *up.Circle)

	tri := ShapePlus{Triangle: &Triangle{Base: 2, Height: 3}}

	_, rest, ok, err := variant.Downcast[Shape](tri)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "downcast triangle to Shape: %v, remainder %s\n", ok, rest)

	rect, _, ok, err := variant.Downcast[Shape](ShapePlus{Rectangle: &Rectangle{Width: 3, Height: 4}})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "downcast rectangle to Shape: %v, %+v\n", ok, *rect.Rectangle)

	areas, err := areaPipeline()
	if err != nil {
		return err
	}

	for _, s := range []ShapePlus{up, tri, {Rectangle: &Rectangle{Width: 3, Height: 4}}} {
		e, err := variant.ToExtractor(s)
		if err != nil {
			return err
		}

		a, err := areas.Dispatch(s)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "area of %s: %.2f\n", e.Tag(), a)
	}

	return nil
}

func newShapesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shapes",
		Short: "Upcast, downcast and dispatch over shape unions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShapes(cmd, opts)
		},
	}
}
