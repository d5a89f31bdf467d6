package anim

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh attribute arrays are flat: 3 floats per vertex and normal, 2 per uv.
type Mesh struct {
	Vertices    []float32
	UVs         []float32
	Normals     []float32
	Elements    map[uint32][]uint16 // material index -> triangle list
	SkinWeights []float32
	SkinIndices []int16
}

func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

func (m *Mesh) Vertex(i int) mgl32.Vec3 {
	return mgl32.Vec3{m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2]}
}

// IndexesInRange reports whether every triangle index addresses an existing vertex
func (m *Mesh) IndexesInRange(indexes []uint16) bool {
	vertexCount := m.VertexCount()
	for _, index := range indexes {
		if int(index) >= vertexCount {
			return false
		}
	}
	return true
}

// Materials returns material indexes in ascending order
func (m *Mesh) Materials() []uint32 {
	materials := make([]uint32, 0, len(m.Elements))
	for material := range m.Elements {
		materials = append(materials, material)
	}
	sort.Slice(materials, func(i, j int) bool { return materials[i] < materials[j] })
	return materials
}

// JointRecord is a raw skeleton table entry, as stored in the file.
type JointRecord struct {
	Parent      int16
	Name        string
	Rotation    [4]float32
	Translation mgl32.Vec3
}

const JOINT_PARENT_NONE = -1

type Joint struct {
	Id          int
	Parent      int16
	Depth       int
	Name        string
	Rotation    [4]float32 // raw stream order, see Quat
	Translation mgl32.Vec3
}

func (j *Joint) IsRoot() bool {
	return j.Parent == JOINT_PARENT_NONE
}

type AnimationFile struct {
	Version             int32
	Meshes              []Mesh
	InfluencesPerVertex int32
	Skeleton            Skeleton
}
