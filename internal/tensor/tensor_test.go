package tensor

import (
	"testing"
)

func TestShapeNumElements(t *testing.T) {
	tests := []struct {
		shape Shape
		want  int
	}{
		{Shape{}, 1},
		{Shape{4}, 4},
		{Shape{2, 3}, 6},
		{Shape{2, 3, 4}, 24},
	}
	for _, tt := range tests {
		if got := tt.shape.NumElements(); got != tt.want {
			t.Errorf("NumElements(%v) = %d, want %d", tt.shape, got, tt.want)
		}
	}
}

func TestShapeValidate(t *testing.T) {
	if err := (Shape{2, 3}).Validate(); err != nil {
		t.Errorf("valid shape rejected: %v", err)
	}
	if err := (Shape{2, -1}).Validate(); err == nil {
		t.Error("negative dimension accepted")
	}
	if err := (Shape{0, 3}).Validate(); err == nil {
		t.Error("zero dimension accepted")
	}
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		a, b           Shape
		want           Shape
		needsBroadcast bool
		wantErr        bool
	}{
		{Shape{2, 3}, Shape{2, 3}, Shape{2, 3}, false, false},
		{Shape{2, 3}, Shape{3}, Shape{2, 3}, true, false},
		{Shape{2, 3}, Shape{1, 3}, Shape{2, 3}, true, false},
		{Shape{2, 1}, Shape{1, 3}, Shape{2, 3}, true, false},
		{Shape{4, 1, 3}, Shape{2, 3}, Shape{4, 2, 3}, true, false},
		{Shape{2, 3}, Shape{4}, nil, false, true},
	}
	for _, tt := range tests {
		got, needsBroadcast, err := BroadcastShapes(tt.a, tt.b)
		if tt.wantErr {
			if err == nil {
				t.Errorf("BroadcastShapes(%v, %v): expected error", tt.a, tt.b)
			}
			continue
		}
		if err != nil {
			t.Errorf("BroadcastShapes(%v, %v): unexpected error: %v", tt.a, tt.b, err)
			continue
		}
		if needsBroadcast != tt.needsBroadcast {
			t.Errorf("BroadcastShapes(%v, %v) needsBroadcast = %v, want %v", tt.a, tt.b, needsBroadcast, tt.needsBroadcast)
		}
		if !got.Equal(tt.want) {
			t.Errorf("BroadcastShapes(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestNewRaw(t *testing.T) {
	raw, err := NewRaw(Shape{2, 3}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	if raw.NumElements() != 6 {
		t.Errorf("NumElements = %d, want 6", raw.NumElements())
	}
	if raw.ByteSize() != 24 {
		t.Errorf("ByteSize = %d, want 24", raw.ByteSize())
	}
	if len(raw.AsFloat32()) != 6 {
		t.Errorf("AsFloat32 length = %d, want 6", len(raw.AsFloat32()))
	}

	if _, err := NewRaw(Shape{2, 0}, Float32, CPU); err == nil {
		t.Error("NewRaw accepted invalid shape")
	}
}

func TestRawClone(t *testing.T) {
	raw, _ := NewRaw(Shape{3}, Float32, CPU)
	data := raw.AsFloat32()
	data[0], data[1], data[2] = 1, 2, 3

	clone := raw.Clone()
	clone.AsFloat32()[0] = 99

	if data[0] != 1 {
		t.Error("Clone shares the underlying buffer")
	}
}

func TestRawView(t *testing.T) {
	raw, _ := NewRaw(Shape{2, 3}, Float32, CPU)
	raw.AsFloat32()[0] = 7

	view, err := raw.View(Shape{3, 2})
	if err != nil {
		t.Fatalf("View failed: %v", err)
	}
	if view.AsFloat32()[0] != 7 {
		t.Error("View does not share the underlying buffer")
	}

	view.AsFloat32()[0] = 11
	if raw.AsFloat32()[0] != 11 {
		t.Error("write through view not visible in original")
	}

	if _, err := raw.View(Shape{4, 2}); err == nil {
		t.Error("View accepted a shape with a different element count")
	}
}

func TestInferDataType(t *testing.T) {
	if got := inferDataType(float32(0)); got != Float32 {
		t.Errorf("inferDataType(float32) = %v", got)
	}
	if got := inferDataType(int32(0)); got != Int32 {
		t.Errorf("inferDataType(int32) = %v", got)
	}
}
