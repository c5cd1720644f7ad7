package compute

import (
	"fmt"
	"testing"

	"github.com/gogpu/pixelbuf/gpu"
	"github.com/gogpu/pixelbuf/render"
)

// gatedLoader withholds shader source until released, standing in for a
// shader asset that is still loading.
type gatedLoader struct {
	source   string
	released bool
}

func (l *gatedLoader) ShaderSource(path string) (string, error) {
	if !l.released {
		return "", fmt.Errorf("still loading: %s", path)
	}
	return l.source, nil
}

func gatedDescriptor() Descriptor {
	d := invertDescriptor()
	d.Source = gpu.ShaderPath("invert.wgsl")
	return d
}

func TestNodeStaysLoadingWithoutPipeline(t *testing.T) {
	loader := &gatedLoader{source: invertWGSL}
	f := newFixture(t, gatedDescriptor(), render.WithSourceLoader(loader))
	target := f.addTarget(64, 64)
	shader := f.reg.Shaders().Add(testShader{})
	f.reg.Attach(1, target, shader)
	f.finalize()

	for i := 0; i < 3; i++ {
		f.runFrame()
	}

	if got := f.reg.Node().State(); got != NodeLoading {
		t.Errorf("node state = %v, want loading", got)
	}
	if got := f.dev.dispatchCount(); got != 0 {
		t.Errorf("dispatches while loading = %d, want 0", got)
	}
}

func TestNodeTransitionsOnceAndDispatches(t *testing.T) {
	loader := &gatedLoader{source: invertWGSL}
	f := newFixture(t, gatedDescriptor(), render.WithSourceLoader(loader))
	target := f.addTarget(64, 64)
	shader := f.reg.Shaders().Add(testShader{})
	f.reg.Attach(1, target, shader)
	f.finalize()

	f.runFrame()
	if f.reg.Node().State() != NodeLoading {
		t.Fatal("node ready before shader source resolved")
	}

	loader.released = true
	f.runFrame()
	if f.reg.Node().State() != NodeReady {
		t.Fatal("node not ready after pipeline compiled")
	}
	if got := f.dev.dispatchCount(); got != 1 {
		t.Errorf("dispatches on first ready frame = %d, want 1", got)
	}

	// The state never reverts and dispatch continues every frame.
	f.runFrame()
	if f.reg.Node().State() != NodeReady {
		t.Error("node state reverted from ready")
	}
	if got := f.dev.dispatchCount(); got != 2 {
		t.Errorf("total dispatches after two ready frames = %d, want 2", got)
	}
}

func TestChangeWhileLoadingIsPreparedNotDispatched(t *testing.T) {
	loader := &gatedLoader{source: invertWGSL}
	f := newFixture(t, gatedDescriptor(), render.WithSourceLoader(loader))
	target := f.addTarget(64, 64)
	ctl := &shaderControl{}
	shader := f.reg.Shaders().Add(testShader{ctl: ctl})
	f.reg.Attach(1, target, shader)
	f.finalize()

	// The asset changes while the pipeline is still compiling.
	f.runFrame()
	f.reg.Shaders().Touch(shader)
	f.runFrame()

	if got := f.dev.dispatchCount(); got != 0 {
		t.Fatalf("dispatches while loading = %d, want 0", got)
	}
	// The change is not lost: it sits queued until binding can happen.
	if len(f.reg.retry) == 0 {
		t.Fatal("changed shader was dropped while pipeline loading")
	}

	loader.released = true
	f.runFrame()
	if _, ok := f.reg.cache.shaders[shader]; !ok {
		t.Error("changed shader not prepared once pipeline was ready")
	}
	if got := f.dev.dispatchCount(); got != 1 {
		t.Errorf("dispatches after ready = %d, want 1", got)
	}
}

func TestNodeEmptyQueueRecordsNoPass(t *testing.T) {
	f := newFixture(t, invertDescriptor())
	// No attachment at all.
	f.reg.Shaders().Add(testShader{})
	f.finalize()

	f.runFrame()
	f.runFrame()

	if f.reg.Node().State() != NodeReady {
		t.Fatal("node should reach ready with an inline shader")
	}
	if len(f.dev.passes) != 0 {
		t.Errorf("recorded %d passes with an empty queue, want 0", len(f.dev.passes))
	}
}
