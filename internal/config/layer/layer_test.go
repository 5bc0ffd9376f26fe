package layer

import (
	"reflect"
	"testing"
)

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"input":  map[string]any{"timeout": "1s", "uppercase": false},
		"buffer": map[string]any{"capacity": 4096},
	}
	src := map[string]any{
		"input": map[string]any{"timeout": "500ms"},
		"ui":    map[string]any{"beep": false},
	}

	got := DeepMerge(dst, src)

	want := map[string]any{
		"input":  map[string]any{"timeout": "500ms", "uppercase": false},
		"buffer": map[string]any{"capacity": 4096},
		"ui":     map[string]any{"beep": false},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DeepMerge() = %v, want %v", got, want)
	}
}

func TestDeepMergeClonesSource(t *testing.T) {
	src := map[string]any{"clipboard": map[string]any{"command": []any{"xclip"}}}
	got := DeepMerge(nil, src)

	got["clipboard"].(map[string]any)["command"].([]any)[0] = "changed"
	if src["clipboard"].(map[string]any)["command"].([]any)[0] != "xclip" {
		t.Error("DeepMerge should not alias source slices")
	}
}

func TestGetSetByPath(t *testing.T) {
	data := make(map[string]any)
	SetByPath(data, "input.timeout", "2s")
	SetByPath(data, "logging.level", "debug")

	if v, ok := GetByPath(data, "input.timeout"); !ok || v != "2s" {
		t.Errorf("input.timeout = %v, %v", v, ok)
	}
	if _, ok := GetByPath(data, "input.missing"); ok {
		t.Error("missing key should not be found")
	}
	if _, ok := GetByPath(data, "input.timeout.deeper"); ok {
		t.Error("path through a scalar should not be found")
	}
	if _, ok := GetByPath(data, ""); ok {
		t.Error("empty path should not be found")
	}

	SetByPath(data, "input.timeout.deeper", 1)
	if v, ok := GetByPath(data, "input.timeout.deeper"); !ok || v != 1 {
		t.Errorf("SetByPath should replace scalars on the way, got %v", v)
	}
}

func TestManagerPriority(t *testing.T) {
	m := NewManager()
	m.AddLayer(NewLayer("env", SourceEnv, map[string]any{"input": map[string]any{"timeout": "3s"}}))
	m.AddLayer(NewLayer("defaults", SourceBuiltin, map[string]any{"input": map[string]any{"timeout": "1s", "uppercase": false}}))
	m.AddLayer(NewLayer("user", SourceUser, map[string]any{"input": map[string]any{"timeout": "2s", "uppercase": true}}))

	if v, name, _ := m.Get("input.timeout"); v != "3s" || name != "env" {
		t.Errorf("env should win, got %v from %q", v, name)
	}
	if v, _, _ := m.Get("input.uppercase"); v != true {
		t.Errorf("user should override defaults, got %v", v)
	}
	if name := m.WhichLayer("input.uppercase"); name != "user" {
		t.Errorf("WhichLayer = %q, want user", name)
	}
	if _, name, ok := m.Get("missing.path"); ok || name != "" {
		t.Errorf("unknown path should not resolve, got layer %q", name)
	}
}

func TestManagerReplaceAndRemove(t *testing.T) {
	m := NewManager()
	m.AddLayer(NewLayer("user", SourceUser, map[string]any{"a": 1}))
	m.AddLayer(NewLayer("user", SourceUser, map[string]any{"a": 2}))

	if len(m.layers) != 1 {
		t.Fatalf("expected same-name layer to be replaced, got %d layers", len(m.layers))
	}
	if v, _, _ := m.Get("a"); v != 2 {
		t.Errorf("expected replaced value 2, got %v", v)
	}

	if !m.RemoveLayer("user") {
		t.Error("RemoveLayer should report success")
	}
	if m.RemoveLayer("user") {
		t.Error("second RemoveLayer should report failure")
	}
	if _, _, ok := m.Get("a"); ok {
		t.Error("removed layer should not contribute")
	}
}

