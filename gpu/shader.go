package gpu

// ShaderRef names a compute shader either by inline WGSL source or by an
// asset path resolved through a SourceLoader. The zero value refers to no
// shader at all.
type ShaderRef struct {
	source string
	path   string
}

// ShaderSource returns a reference to inline WGSL source.
func ShaderSource(src string) ShaderRef {
	return ShaderRef{source: src}
}

// ShaderPath returns a reference to a shader asset path.
// The source is resolved by the pipeline cache's SourceLoader.
func ShaderPath(path string) ShaderRef {
	return ShaderRef{path: path}
}

// IsZero reports whether the reference names no shader.
func (r ShaderRef) IsZero() bool {
	return r.source == "" && r.path == ""
}

// Source returns the inline source, if the reference carries one.
func (r ShaderRef) Source() (string, bool) {
	return r.source, r.source != ""
}

// Path returns the asset path, if the reference carries one.
func (r ShaderRef) Path() (string, bool) {
	return r.path, r.path != ""
}

// SourceLoader resolves shader source by asset path. It is implemented by
// asset.Server. ShaderSource may fail transiently while a source is still
// loading; the pipeline cache keeps such pipelines queued.
type SourceLoader interface {
	ShaderSource(path string) (string, error)
}
