package models

import (
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestGLTFLoaderCreation(t *testing.T) {
	loader := NewGLTFLoader()
	if loader == nil {
		t.Fatal("NewGLTFLoader returned nil")
	}
	if !loader.CalculateNormals {
		t.Error("CalculateNormals should default to true")
	}
}

func quadDocument(indices []uint16) *gltf.Document {
	doc := &gltf.Document{}
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}})
	uv := modeler.WriteTextureCoord(doc, [][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}})
	idx := modeler.WriteIndices(doc, indices)
	mat := 2
	doc.Meshes = []*gltf.Mesh{{
		Name: "quad",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: map[string]int{gltf.POSITION: pos, gltf.TEXCOORD_0: uv},
			Material:   &mat,
		}},
	}}
	return doc
}

func TestFromDocument(t *testing.T) {
	mesh, err := NewGLTFLoader().FromDocument("quad", quadDocument([]uint16{0, 1, 2, 0, 2, 3}))
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	if got := mesh.TriangleCount(); got != 2 {
		t.Fatalf("TriangleCount = %d, want 2", got)
	}
	if g := mesh.GetFaceGroup(1); g != 2 {
		t.Errorf("face group = %d, want material index 2", g)
	}
	// V is flipped to a bottom-left origin
	if uv := mesh.Vertices[0].UV; uv.X != 0 || uv.Y != 0 {
		t.Errorf("uv[0] = %v, want (0, 0)", uv)
	}
	// no normals in the file: smooth normals are computed, facing +Z
	if n := mesh.Vertices[0].Normal; n.Z < 0.99 {
		t.Errorf("normal[0] = %v, want +Z", n)
	}
	lo, hi := mesh.GetBounds()
	if lo.X != 0 || hi.X != 1 || hi.Y != 1 {
		t.Errorf("bounds = %v..%v", lo, hi)
	}
}

func TestFromDocumentIndexOutOfRange(t *testing.T) {
	if _, err := NewGLTFLoader().FromDocument("bad", quadDocument([]uint16{0, 1, 7})); err == nil {
		t.Error("expected an error for an index past the vertex count")
	}
}
