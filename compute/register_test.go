package compute

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gogpu/pixelbuf"
	"github.com/gogpu/pixelbuf/asset"
	"github.com/gogpu/pixelbuf/gpu"
	"github.com/gogpu/pixelbuf/render"
)

const invertWGSL = `
@group(0) @binding(0) var tex: texture_storage_2d<rgba8unorm, read_write>;

@compute @workgroup_size(8, 8)
fn main(@builtin(global_invocation_id) id: vec3<u32>) {
    let p = vec2<i32>(id.xy);
    let c = textureLoad(tex, p);
    textureStore(tex, p, vec4<f32>(1.0 - c.rgb, c.a));
}`

// testShader is an Instance whose bind group behavior is scripted through
// a shared control block, so a snapshot taken at extraction still observes
// later state changes.
type testShader struct {
	ctl *shaderControl
}

type shaderControl struct {
	err      error // returned by AsBindGroup until cleared
	attempts int
}

func (s testShader) AsBindGroup(dev gpu.Device, layout gpu.BindGroupLayoutID, _ *render.GpuImages) (gpu.BindGroupID, error) {
	if s.ctl != nil {
		s.ctl.attempts++
		if s.ctl.err != nil {
			return gpu.InvalidID, s.ctl.err
		}
	}
	return dev.CreateBindGroup(layout, nil)
}

func invertDescriptor() Descriptor {
	return Descriptor{
		Label:  "invert",
		Source: gpu.ShaderSource(invertWGSL),
		Workgroups: func(w, h uint32) (uint32, uint32) {
			return w / 8, h / 8
		},
	}
}

// fixture wires an engine with a fake device and one registered testShader
// type around a single attached target.
type fixture struct {
	t      *testing.T
	dev    *fakeDevice
	engine *render.Engine
	reg    *Registration[testShader]
}

func newFixture(t *testing.T, desc Descriptor, opts ...render.EngineOption) *fixture {
	t.Helper()
	dev := newFakeDevice()
	engine, err := render.NewEngine(append([]render.EngineOption{render.WithDevice(dev)}, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	reg, err := Register[testShader](engine, desc)
	if err != nil {
		t.Fatal(err)
	}
	return &fixture{t: t, dev: dev, engine: engine, reg: reg}
}

// addTarget creates an image asset of the given size in the engine store.
func (f *fixture) addTarget(w, h uint32) asset.ID {
	return f.engine.Images().Add(pixelbuf.NewImage(w, h))
}

func (f *fixture) finalize() {
	f.t.Helper()
	if err := f.engine.Finalize(); err != nil {
		f.t.Fatal(err)
	}
}

func (f *fixture) runFrame() {
	f.t.Helper()
	if err := f.engine.RunFrame(); err != nil {
		f.t.Fatal(err)
	}
}

func TestRegisterValidation(t *testing.T) {
	dev := newFakeDevice()
	engine, err := render.NewEngine(render.WithDevice(dev))
	if err != nil {
		t.Fatal(err)
	}

	_, err = Register[testShader](engine, Descriptor{
		Workgroups: func(w, h uint32) (uint32, uint32) { return w, h },
	})
	if !errors.Is(err, ErrNoShaderSource) {
		t.Errorf("no source: %v, want ErrNoShaderSource", err)
	}

	_, err = Register[testShader](engine, Descriptor{
		Source: gpu.ShaderSource(invertWGSL),
	})
	if !errors.Is(err, ErrNoWorkgroups) {
		t.Errorf("no workgroups: %v, want ErrNoWorkgroups", err)
	}
}

func TestRegisterAfterFinalizeFails(t *testing.T) {
	dev := newFakeDevice()
	engine, err := render.NewEngine(render.WithDevice(dev))
	if err != nil {
		t.Fatal(err)
	}
	if err := engine.Finalize(); err != nil {
		t.Fatal(err)
	}

	_, err = Register[testShader](engine, invertDescriptor())
	if !errors.Is(err, render.ErrEngineFinalized) {
		t.Errorf("Register after Finalize: %v, want ErrEngineFinalized", err)
	}
}

func TestInvertDispatchExtents(t *testing.T) {
	f := newFixture(t, invertDescriptor())
	target := f.addTarget(256, 256)
	shader := f.reg.Shaders().Add(testShader{})
	f.reg.Attach(1, target, shader)
	f.finalize()

	f.runFrame()

	if got := f.dev.dispatchCount(); got != 1 {
		t.Fatalf("dispatches = %d, want 1", got)
	}
	d := f.dev.passes[len(f.dev.passes)-1].dispatches[0]
	if d.x != 32 || d.y != 32 || d.z != 1 {
		t.Errorf("dispatch extents = (%d, %d, %d), want (32, 32, 1)", d.x, d.y, d.z)
	}
	if d.group0 == gpu.InvalidID || d.group1 == gpu.InvalidID {
		t.Error("dispatch issued without both bind groups set")
	}
}

func TestNoImplicitRegistration(t *testing.T) {
	f := newFixture(t, invertDescriptor())
	// Two images exist; only one is attached.
	attached := f.addTarget(8, 8)
	unattached := f.addTarget(8, 8)
	shader := f.reg.Shaders().Add(testShader{})
	f.reg.Attach(1, attached, shader)
	f.finalize()

	f.runFrame()

	if _, ok := f.reg.cache.textures[attached]; !ok {
		t.Error("attached target has no prepared texture entry")
	}
	if _, ok := f.reg.cache.textures[unattached]; ok {
		t.Error("unattached target acquired a prepared texture entry")
	}
}

func TestPreparedShaderReuse(t *testing.T) {
	f := newFixture(t, invertDescriptor())
	target := f.addTarget(8, 8)
	shader := f.reg.Shaders().Add(testShader{})
	f.reg.Attach(1, target, shader)
	f.finalize()

	f.runFrame()
	entry1 := f.reg.cache.shaders[shader]
	created := f.dev.bindGroupsCreated

	f.runFrame()
	entry2 := f.reg.cache.shaders[shader]

	if f.dev.bindGroupsCreated != created {
		t.Errorf("unchanged frame created %d new bind groups",
			f.dev.bindGroupsCreated-created)
	}
	if entry1.bindGroup != entry2.bindGroup {
		t.Error("unchanged shader's bind group was rebuilt")
	}
}

func TestInvalidationCompleteness(t *testing.T) {
	f := newFixture(t, invertDescriptor())
	target := f.addTarget(8, 8)
	shader := f.reg.Shaders().Add(testShader{})
	f.reg.Attach(1, target, shader)
	f.finalize()

	f.runFrame()
	if len(f.reg.queue) != 1 {
		t.Fatalf("frame 1 queue length = %d, want 1", len(f.reg.queue))
	}

	f.engine.Images().Remove(target)
	f.runFrame()

	if _, ok := f.reg.cache.textures[target]; ok {
		t.Error("removed target still has a prepared texture entry")
	}
	if len(f.reg.queue) != 0 {
		t.Errorf("queue after removal has %d entries, want 0", len(f.reg.queue))
	}
}

func TestRetryLiveness(t *testing.T) {
	f := newFixture(t, invertDescriptor())
	target := f.addTarget(8, 8)
	ctl := &shaderControl{err: fmt.Errorf("image pending: %w", gpu.ErrResourceNotReady)}
	shader := f.reg.Shaders().Add(testShader{ctl: ctl})
	f.reg.Attach(1, target, shader)
	f.finalize()

	// Blocked for two frames.
	f.runFrame()
	f.runFrame()
	if _, ok := f.reg.cache.shaders[shader]; ok {
		t.Fatal("shader prepared while its bind group still fails")
	}
	if len(f.reg.retry) != 1 {
		t.Fatalf("retry queue length = %d, want 1", len(f.reg.retry))
	}

	// Condition resolves; the next frame succeeds.
	ctl.err = nil
	f.runFrame()
	if _, ok := f.reg.cache.shaders[shader]; !ok {
		t.Error("shader not prepared after blocking condition resolved")
	}
	if len(f.reg.retry) != 0 {
		t.Errorf("retry queue length = %d after success, want 0", len(f.reg.retry))
	}
}

func TestPermanentFailureContainment(t *testing.T) {
	f := newFixture(t, invertDescriptor())
	target := f.addTarget(8, 8)
	ctl := &shaderControl{err: &gpu.InvalidSamplerTypeError{
		Binding: 1,
		Got:     gpu.BindingTypeComparisonSampler,
		Want:    gpu.BindingTypeFilteringSampler,
	}}
	shader := f.reg.Shaders().Add(testShader{ctl: ctl})
	f.reg.Attach(1, target, shader)
	f.finalize()

	f.runFrame()
	attemptsAfterFailure := ctl.attempts

	// Not retried on later frames.
	f.runFrame()
	f.runFrame()
	if ctl.attempts != attemptsAfterFailure {
		t.Errorf("permanently failed shader re-attempted (%d attempts)", ctl.attempts)
	}
	if _, ok := f.reg.cache.shaders[shader]; ok {
		t.Error("permanently failed shader has a prepared entry")
	}

	// A fresh change re-attempts it.
	ctl.err = nil
	f.reg.Shaders().Touch(shader)
	f.runFrame()
	if _, ok := f.reg.cache.shaders[shader]; !ok {
		t.Error("modified shader was not re-prepared")
	}
}

func TestDetachPrunesOnlyThatTarget(t *testing.T) {
	f := newFixture(t, invertDescriptor())
	targetA := f.addTarget(64, 64)
	targetB := f.addTarget(64, 64)
	shader := f.reg.Shaders().Add(testShader{})
	f.reg.Attach(1, targetA, shader)
	f.reg.Attach(2, targetB, shader)
	f.finalize()

	f.runFrame()
	entryA := f.reg.cache.textures[targetA]
	if len(f.reg.cache.textures) != 2 {
		t.Fatalf("prepared %d texture entries, want 2", len(f.reg.cache.textures))
	}

	f.reg.Detach(2)
	f.runFrame()

	if _, ok := f.reg.cache.textures[targetB]; ok {
		t.Error("detached target's entry was not pruned")
	}
	got, ok := f.reg.cache.textures[targetA]
	if !ok {
		t.Fatal("remaining target lost its entry")
	}
	if got.bindGroup != entryA.bindGroup {
		t.Error("remaining target's entry was rebuilt by the prune")
	}
}
