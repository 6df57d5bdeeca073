package shader

// PreProcessorBuilderOption is a functional option for configuring a PreProcessor.
type PreProcessorBuilderOption func(*preProcessor)

// WithStruct registers a struct under key for @oxy:include and @oxy:group.
//
// Parameters:
//   - key: the name annotations refer to
//   - s: the struct definition
//
// Returns:
//   - PreProcessorBuilderOption: a function that registers the struct
func WithStruct(key AnnotationArg, s Struct) PreProcessorBuilderOption {
	return func(p *preProcessor) {
		p.structs[key] = s
	}
}
