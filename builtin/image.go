package builtin

import (
	"context"
	"fmt"

	"github.com/crznodes/crz"
	"github.com/crznodes/crz/imageio"
	"github.com/crznodes/crz/yaml"
)

// imageSlots is the number of file name inputs on an image selector.
const imageSlots = 6

func imageName(i int) string {
	return fmt.Sprintf("image_%d", i+1)
}

func imageInputs() []crz.InputSpec {
	inputs := make([]crz.InputSpec, imageSlots)
	for i := range inputs {
		inputs[i] = crz.InputSpec{Name: imageName(i), Type: crz.String, Default: ""}
	}
	return inputs
}

// loadSelection reads the six file names and loads them from the host's
// input directory.
func loadSelection(ctx context.Context, c *call) ([]*imageio.Tensor, int, error) {
	names := make([]string, imageSlots)
	for i := range names {
		name, err := stringInput(c, imageName(i))
		if err != nil {
			return nil, 0, err
		}
		names[i] = name
	}

	loader := imageio.NewLoader(c.host.InputDir, c.host.Log())
	return loader.LoadAll(ctx, names), imageio.CountNonEmpty(names), nil
}

func placeholders() []*imageio.Tensor {
	ts := make([]*imageio.Tensor, imageSlots)
	for i := range ts {
		ts[i] = imageio.Placeholder()
	}
	return ts
}

// ImageSelectorBuilder builds six-image loaders.
type ImageSelectorBuilder struct{}

var imageSelector = &crz.Descriptor{
	Name:        "CRZImageSelector",
	DisplayName: "CRZ Image Selector",
	Category:    Category,
	Description: "Loads up to six images from the input directory; missing ones are blank",
	Inputs:      imageInputs(),
	Outputs: func() []crz.OutputSpec {
		outputs := make([]crz.OutputSpec, 0, imageSlots+1)
		for i := 0; i < imageSlots; i++ {
			outputs = append(outputs, crz.OutputSpec{Name: imageName(i), Type: crz.Image})
		}
		return append(outputs, crz.OutputSpec{Name: "image_count", Type: crz.Int})
	}(),
}

// Metadata returns the node metadata.
func (b *ImageSelectorBuilder) Metadata() NodeMetadata {
	return metadata(imageSelector)
}

// Build creates an image selector node from a definition.
func (b *ImageSelectorBuilder) Build(def *yaml.NodeDefinition) (crz.Node, error) {
	return newPackNode(def, imageSelector, behavior{
		run: func(ctx context.Context, c *call) (crz.Outputs, error) {
			images, count, err := loadSelection(ctx, c)
			if err != nil {
				return nil, err
			}
			out := make(crz.Outputs, 0, imageSlots+1)
			for _, img := range images {
				out = append(out, img)
			}
			return append(out, count), nil
		},
		fallback: func(*call) crz.Outputs {
			out := make(crz.Outputs, 0, imageSlots+1)
			for _, img := range placeholders() {
				out = append(out, img)
			}
			return append(out, 0)
		},
	}), nil
}

// ImageSelectorBatchBuilder builds six-image loaders with a single batched
// output.
type ImageSelectorBatchBuilder struct{}

var imageSelectorBatch = &crz.Descriptor{
	Name:        "CRZImageSelectorBatch",
	DisplayName: "CRZ Image Selector Batch",
	Category:    Category,
	Description: "Loads up to six images as one batch resized to the first image",
	Inputs:      imageInputs(),
	Outputs: []crz.OutputSpec{
		{Name: "images", Type: crz.Image},
		{Name: "image_count", Type: crz.Int},
	},
}

// Metadata returns the node metadata.
func (b *ImageSelectorBatchBuilder) Metadata() NodeMetadata {
	return metadata(imageSelectorBatch)
}

// Build creates a batched image selector node from a definition.
func (b *ImageSelectorBatchBuilder) Build(def *yaml.NodeDefinition) (crz.Node, error) {
	return newPackNode(def, imageSelectorBatch, behavior{
		run: func(ctx context.Context, c *call) (crz.Outputs, error) {
			images, count, err := loadSelection(ctx, c)
			if err != nil {
				return nil, err
			}
			return crz.Outputs{imageio.Batch(images), count}, nil
		},
		fallback: func(*call) crz.Outputs {
			return crz.Outputs{imageio.Batch(placeholders()), 0}
		},
	}), nil
}
