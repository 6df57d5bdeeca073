// annotations.go defines the @oxy: annotations understood by the WGSL pre-processor.
// Annotations are single-line WGSL comments that inject registered struct sources and
// declare bindings, so the pipeline layout can be derived from the shader instead of
// being written out twice.
package shader

import (
	"fmt"
	"strconv"
	"strings"
)

// annotationPrefix marks an annotation inside a WGSL comment line.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// annotationTypeInclude injects the WGSL source of a registered struct.
	//
	// Syntax: //@oxy:include <struct>
	annotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup generates a @group/@binding variable of a registered struct type
	// and records the binding in the declarations list.
	//
	// Syntax: //@oxy:group <group> <binding> <address_space> <var_name> <struct>
	AnnotationTypeBindingGroup AnnotationType = "group"

	// AnnotationTypeProvider records a hand-written texture or sampler binding without emitting WGSL.
	// The declaration itself follows on the next line.
	//
	// Syntax: //@oxy:provider <group> <binding> <resource>
	AnnotationTypeProvider AnnotationType = "provider"
)

// AnnotationArg is one argument of an annotation.
type AnnotationArg string

// Address spaces accepted by @oxy:group.
const (
	AnnotationArgUniform     AnnotationArg = "uniform"
	AnnotationArgStorageRead AnnotationArg = "storage_read"
)

// Resources accepted by @oxy:provider.
const (
	AnnotationArgTexture AnnotationArg = "texture"
	AnnotationArgSampler AnnotationArg = "sampler"
)

// Annotation is one parsed @oxy: annotation.
type Annotation struct {
	Type AnnotationType

	// Args depend on Type:
	//   - include:  [0] = struct key
	//   - group:    [0] = address space, [1] = var name, [2] = struct key
	//   - provider: [0] = resource kind
	Args []AnnotationArg

	// Line is the 1-based source line, for error reporting.
	Line int

	// Group and Binding are set for group and provider annotations.
	Group   int
	Binding int
}

// parseAnnotation parses one WGSL source line.
// Lines without the annotation prefix yield nil and no error.
//
// Parameters:
//   - line: the raw WGSL source line
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "//") {
		return nil, nil
	}
	_, after, ok := strings.Cut(trimmed, annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}

	switch AnnotationType(args[0]) {
	case annotationTypeInclude:
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy:include takes exactly one struct", lineNum)
		}
		return &Annotation{Type: annotationTypeInclude, Args: []AnnotationArg{AnnotationArg(args[1])}, Line: lineNum}, nil

	case AnnotationTypeBindingGroup:
		if len(args) != 6 {
			return nil, fmt.Errorf("line %d: @oxy:group needs group, binding, address space, name and struct", lineNum)
		}
		group, binding, err := parseSlot(args[1], args[2], lineNum)
		if err != nil {
			return nil, err
		}
		space := AnnotationArg(args[3])
		if space != AnnotationArgUniform && space != AnnotationArgStorageRead {
			return nil, fmt.Errorf("line %d: unknown address space %q", lineNum, args[3])
		}
		return &Annotation{
			Type:    AnnotationTypeBindingGroup,
			Args:    []AnnotationArg{space, AnnotationArg(args[4]), AnnotationArg(args[5])},
			Line:    lineNum,
			Group:   group,
			Binding: binding,
		}, nil

	case AnnotationTypeProvider:
		if len(args) != 4 {
			return nil, fmt.Errorf("line %d: @oxy:provider needs group, binding and resource", lineNum)
		}
		group, binding, err := parseSlot(args[1], args[2], lineNum)
		if err != nil {
			return nil, err
		}
		kind := AnnotationArg(args[3])
		if kind != AnnotationArgTexture && kind != AnnotationArgSampler {
			return nil, fmt.Errorf("line %d: unknown resource %q", lineNum, args[3])
		}
		return &Annotation{
			Type:    AnnotationTypeProvider,
			Args:    []AnnotationArg{kind},
			Line:    lineNum,
			Group:   group,
			Binding: binding,
		}, nil
	}
	return nil, fmt.Errorf("line %d: unknown @oxy annotation type %q", lineNum, args[0])
}

func parseSlot(group, binding string, lineNum int) (int, int, error) {
	g, err := strconv.Atoi(group)
	if err != nil || g < 0 {
		return 0, 0, fmt.Errorf("line %d: invalid group number %q", lineNum, group)
	}
	b, err := strconv.Atoi(binding)
	if err != nil || b < 0 {
		return 0, 0, fmt.Errorf("line %d: invalid binding number %q", lineNum, binding)
	}
	return g, b, nil
}
