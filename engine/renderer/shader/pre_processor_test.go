package shader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessExpandsAnnotations(t *testing.T) {
	p := NewPreProcessor(WithStruct("tint", Struct{Source: "struct Tint { rgba: vec4<f32>, };", Type: "Tint", Size: 16}))

	out, err := p.Process(`//@oxy:include tint
//@oxy:group 2 0 storage_read tints tint
//@oxy:provider 2 1 texture
@group(2) @binding(1) var tex: texture_2d<f32>;
// an ordinary comment`)
	require.NoError(t, err)

	assert.Equal(t, `struct Tint { rgba: vec4<f32>, };
@group(2) @binding(0) var<storage, read> tints: Tint;
@group(2) @binding(1) var tex: texture_2d<f32>;
// an ordinary comment`, out)

	decls := p.Declarations()
	require.Len(t, decls, 2)
	assert.Equal(t, AnnotationTypeBindingGroup, decls[0].Type)
	assert.Equal(t, 2, decls[0].Line)
	assert.Equal(t, AnnotationTypeProvider, decls[1].Type)
	assert.Equal(t, []AnnotationArg{AnnotationArgTexture}, decls[1].Args)
	assert.Equal(t, 1, decls[1].Binding)

	_, err = p.Process("fn main() {}")
	require.NoError(t, err)
	assert.Empty(t, p.Declarations())
}

func TestProcessErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"unknown struct", "//@oxy:include mystery", "unknown struct"},
		{"unknown bound struct", "//@oxy:group 0 0 uniform m mystery", "unknown struct"},
		{"bad address space", "//@oxy:group 0 0 private camera camera", "address space"},
		{"bad group", "//@oxy:group x 0 uniform camera camera", "group number"},
		{"negative binding", "//@oxy:provider 0 -1 sampler", "binding number"},
		{"bad resource", "//@oxy:provider 0 1 buffer", "unknown resource"},
		{"unknown type", "//@oxy:define X", "unknown @oxy annotation"},
		{"empty", "//@oxy:", "empty"},
		{"reused slot", "//@oxy:group 0 0 uniform camera camera\n//@oxy:provider 0 0 sampler", "already declared on line 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPreProcessor().Process(tt.source)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestAnnotationsOnlyInComments(t *testing.T) {
	a, err := parseAnnotation(`let s = "@oxy:include camera";`, 1)
	require.NoError(t, err)
	assert.Nil(t, a)
}
