package scene

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"math"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"

	"github.com/taigrr/softras/pkg/math3d"
)

// GLTFLoader loads GLTF/GLB files into a single Mesh.
type GLTFLoader struct {
	// FitSize, when positive, recenters the mesh and scales it so its
	// largest dimension equals FitSize.
	FitSize float64
}

// LoadGLB loads a glTF or GLB file with default options.
func LoadGLB(path string) (*Mesh, image.Image, error) {
	return (&GLTFLoader{}).Load(path)
}

// Load reads every triangle primitive of every mesh in the document into
// one Mesh, and decodes the first image it can as the base texture. The
// image is nil when the document has none.
func (l *GLTFLoader) Load(path string) (*Mesh, image.Image, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	for _, m := range doc.Meshes {
		if err := appendMesh(doc, m, mesh); err != nil {
			return nil, nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}
	if err := mesh.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	if l.FitSize > 0 {
		mesh.Fit(l.FitSize)
	}

	return mesh, firstImage(doc, filepath.Dir(path)), nil
}

// appendMesh extracts positions, texture coordinates and faces from the
// triangle primitives of m.
func appendMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := readVec3(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var uvs []math3d.Vec2
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err = readVec2(doc, uvIdx)
			if err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		base := len(mesh.Vertices)
		mesh.Vertices = append(mesh.Vertices, positions...)
		// Keep UVs aligned with vertices when earlier primitives had none.
		for len(mesh.UVs) < base {
			mesh.UVs = append(mesh.UVs, math3d.Vec2{})
		}
		for i := range positions {
			if i < len(uvs) {
				// glTF puts V=0 at the top of the image, as Texture.Sample does.
				mesh.UVs = append(mesh.UVs, uvs[i])
			} else {
				mesh.UVs = append(mesh.UVs, math3d.Vec2{})
			}
		}

		var indices []int
		if prim.Indices != nil {
			indices, err = readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}
		for i := 0; i+2 < len(indices); i += 3 {
			mesh.Faces = append(mesh.Faces, [3]int{
				base + indices[i],
				base + indices[i+1],
				base + indices[i+2],
			})
		}
	}
	return nil
}

func readVec3(doc *gltf.Document, idx int) ([]math3d.Vec3, error) {
	acc, data, stride, err := accessorBytes(doc, idx, gltf.AccessorVec3, 12)
	if err != nil {
		return nil, err
	}
	out := make([]math3d.Vec3, acc.Count)
	for i := range out {
		b := data[i*stride:]
		out[i] = math3d.V3(readFloat32(b), readFloat32(b[4:]), readFloat32(b[8:]))
	}
	return out, nil
}

func readVec2(doc *gltf.Document, idx int) ([]math3d.Vec2, error) {
	acc, data, stride, err := accessorBytes(doc, idx, gltf.AccessorVec2, 8)
	if err != nil {
		return nil, err
	}
	if acc.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("unsupported VEC2 component type %v", acc.ComponentType)
	}
	out := make([]math3d.Vec2, acc.Count)
	for i := range out {
		b := data[i*stride:]
		out[i] = math3d.V2(readFloat32(b), readFloat32(b[4:]))
	}
	return out, nil
}

func readIndices(doc *gltf.Document, idx int) ([]int, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	var size int
	switch doc.Accessors[idx].ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index type: %v", doc.Accessors[idx].ComponentType)
	}

	acc, data, stride, err := accessorBytes(doc, idx, gltf.AccessorScalar, size)
	if err != nil {
		return nil, err
	}
	out := make([]int, acc.Count)
	for i := range out {
		b := data[i*stride:]
		switch size {
		case 1:
			out[i] = int(b[0])
		case 2:
			out[i] = int(binary.LittleEndian.Uint16(b))
		default:
			out[i] = int(binary.LittleEndian.Uint32(b))
		}
	}
	return out, nil
}

// accessorBytes returns the accessor, the bytes starting at its first
// element, and the element stride. It checks that every element lies
// inside the buffer.
func accessorBytes(doc *gltf.Document, idx int, typ gltf.AccessorType, elemSize int) (*gltf.Accessor, []byte, int, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, nil, 0, fmt.Errorf("accessor %d out of range", idx)
	}
	acc := doc.Accessors[idx]
	if acc.Type != typ {
		return nil, nil, 0, fmt.Errorf("expected %v, got %v", typ, acc.Type)
	}
	if acc.BufferView == nil {
		return nil, nil, 0, fmt.Errorf("accessor has no buffer view")
	}
	view := doc.BufferViews[*acc.BufferView]
	buf := doc.Buffers[view.Buffer]
	if buf.Data == nil {
		return nil, nil, 0, fmt.Errorf("buffer has no data")
	}

	stride := view.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	start := view.ByteOffset + acc.ByteOffset
	if acc.Count > 0 {
		end := start + (acc.Count-1)*stride + elemSize
		if end > len(buf.Data) {
			return nil, nil, 0, fmt.Errorf("accessor %d overruns buffer (%d > %d)", idx, end, len(buf.Data))
		}
	}
	return acc, buf.Data[start:], stride, nil
}

func readFloat32(b []byte) float64 {
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
}

// firstImage decodes the first embedded or external image that the
// registered decoders understand.
func firstImage(doc *gltf.Document, dir string) image.Image {
	for _, img := range doc.Images {
		var data []byte
		switch {
		case img.BufferView != nil:
			bv := doc.BufferViews[*img.BufferView]
			buf := doc.Buffers[bv.Buffer]
			if buf.Data == nil || bv.ByteOffset+bv.ByteLength > len(buf.Data) {
				continue
			}
			data = buf.Data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength]
		case img.URI != "":
			b, err := os.ReadFile(filepath.Join(dir, img.URI))
			if err != nil {
				continue
			}
			data = b
		}
		if len(data) == 0 {
			continue
		}
		if decoded, _, err := image.Decode(bytes.NewReader(data)); err == nil {
			return decoded
		}
	}
	return nil
}
