package testutil

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/crznodes/crz"
)

// ConstNode forwards value regardless of its input.
func ConstNode(name string, value any) crz.Node {
	return crz.NewNode(name, crz.Steps{
		Exec: func(ctx context.Context, _ any) (any, error) {
			return value, nil
		},
	})
}

// TransformNode applies fn to its input.
func TransformNode(name string, fn func(any) any) crz.Node {
	return crz.NewNode(name, crz.Steps{
		Exec: func(ctx context.Context, in any) (any, error) {
			return fn(in), nil
		},
	})
}

// ErrorNode fails in Exec with err.
func ErrorNode(name string, err error) crz.Node {
	return crz.NewNode(name, crz.Steps{
		Exec: func(ctx context.Context, _ any) (any, error) {
			return nil, err
		},
	})
}

// PanicNode panics in Exec and recovers to fallback through its Fallback
// step.
func PanicNode(name string, fallback any) crz.Node {
	return crz.NewNode(name, crz.Steps{
		Exec: func(ctx context.Context, _ any) (any, error) {
			panic(fmt.Sprintf("%s exploded", name))
		},
		Fallback: func(ctx context.Context, _ any, _ error) (any, error) {
			return fallback, nil
		},
	})
}

// RouteNode forwards its input and follows action.
func RouteNode(name, action string) crz.Node {
	return crz.NewNode(name, crz.Steps{
		Post: func(ctx context.Context, _ *crz.Host, _ crz.StoreWriter, _, _, exec any) (any, string, error) {
			return exec, action, nil
		},
	})
}

// TypedNode is a node with a one-in, one-out descriptor that stores its
// forwarded value as slot 0.
func TypedNode(name string, in, out crz.DataType) crz.Node {
	desc := &crz.Descriptor{
		Name:    name,
		Inputs:  []crz.InputSpec{{Name: "in", Type: in}},
		Outputs: []crz.OutputSpec{{Name: "out", Type: out}},
	}
	return crz.NewNode(name, crz.Steps{
		Post: func(ctx context.Context, _ *crz.Host, store crz.StoreWriter, _, _, exec any) (any, string, error) {
			if err := crz.SetOutputs(ctx, store, name, desc, crz.Outputs{exec}); err != nil {
				return nil, "", err
			}
			return exec, crz.DefaultAction, nil
		},
	}, crz.WithDescriptor(desc))
}

// Chain connects nodes in order on the default action and returns the
// first.
func Chain(nodes ...crz.Node) crz.Node {
	for i := 0; i+1 < len(nodes); i++ {
		crz.Default(nodes[i], nodes[i+1])
	}
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

// WritePNG writes a solid w x h image to dir/name.
func WritePNG(t *testing.T, dir, name string, w, h int, c color.NRGBA) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}
