package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-storefront/engine/camera"
	"github.com/Carmen-Shannon/oxy-storefront/engine/light"
)

// Struct is a WGSL struct that annotations can include and bind.
type Struct struct {
	// Source is the WGSL definition injected by @oxy:include.
	Source string
	// Type is the WGSL type name used in generated declarations.
	Type string
	// Size is the host-side size in bytes, used as the minimum binding size.
	Size uint64
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	structs      map[AnnotationArg]Struct
	declarations []Annotation
}

// PreProcessor expands @oxy: annotations in WGSL source and collects the declared bindings.
type PreProcessor interface {
	// Process replaces include and group annotations with WGSL and records every binding.
	// The declarations are reset on each call.
	//
	// Parameters:
	//   - source: WGSL source containing annotations
	//
	// Returns:
	//   - string: the expanded WGSL source
	//   - error: error if an annotation is malformed, names an unknown struct or reuses a slot
	Process(source string) (string, error)

	// Declarations returns the group and provider annotations of the last Process call, in source order.
	Declarations() []Annotation

	// Struct looks up a registered struct.
	Struct(key AnnotationArg) (Struct, bool)
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor that knows the camera and light uniforms.
//
// Parameters:
//   - options: variadic list of PreProcessorBuilderOption functions registering more structs
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor
func NewPreProcessor(options ...PreProcessorBuilderOption) PreProcessor {
	p := &preProcessor{
		structs: map[AnnotationArg]Struct{
			"camera": {Source: camera.GPUCameraUniformSource, Type: "CameraUniform", Size: 80},
			"lights": {Source: light.GPULightUniformSource, Type: "LightUniform", Size: 48},
		},
	}
	for _, option := range options {
		option(p)
	}
	return p
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = nil
	used := make(map[[2]int]int)

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		if a.Type != annotationTypeInclude {
			slot := [2]int{a.Group, a.Binding}
			if prev, taken := used[slot]; taken {
				return "", fmt.Errorf("line %d: @group(%d) @binding(%d) already declared on line %d", a.Line, a.Group, a.Binding, prev)
			}
			used[slot] = a.Line
		}

		switch a.Type {
		case annotationTypeInclude:
			s, ok := p.structs[a.Args[0]]
			if !ok {
				return "", fmt.Errorf("line %d: unknown struct %q", a.Line, a.Args[0])
			}
			out = append(out, s.Source)
		case AnnotationTypeBindingGroup:
			s, ok := p.structs[a.Args[2]]
			if !ok {
				return "", fmt.Errorf("line %d: unknown struct %q", a.Line, a.Args[2])
			}
			space := "var<uniform>"
			if a.Args[0] == AnnotationArgStorageRead {
				space = "var<storage, read>"
			}
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;", a.Group, a.Binding, space, a.Args[1], s.Type))
			p.declarations = append(p.declarations, *a)
		case AnnotationTypeProvider:
			p.declarations = append(p.declarations, *a)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}

func (p *preProcessor) Struct(key AnnotationArg) (Struct, bool) {
	s, ok := p.structs[key]
	return s, ok
}
