package anim

import (
	"bytes"
	"encoding/binary"
)

// fileBuilder writes little-endian test input in file layout
type fileBuilder struct {
	bytes.Buffer
}

func (b *fileBuilder) le(values ...interface{}) *fileBuilder {
	for _, v := range values {
		if err := binary.Write(b, binary.LittleEndian, v); err != nil {
			panic(err)
		}
	}
	return b
}

func (b *fileBuilder) str(s string) *fileBuilder {
	return b.le(uint16(len(s)), []byte(s))
}

func (b *fileBuilder) f32s(values ...float32) *fileBuilder {
	return b.le(int32(len(values)), values)
}

func (b *fileBuilder) i16s(values ...int16) *fileBuilder {
	return b.le(int32(len(values)), values)
}

func (b *fileBuilder) u16s(values ...uint16) *fileBuilder {
	return b.le(int32(len(values)), values)
}

type testFaceSet struct {
	material  uint32
	quads     []uint16
	triangles []uint16
}

func (b *fileBuilder) faceSets(sets ...testFaceSet) *fileBuilder {
	b.le(int32(len(sets)))
	for _, set := range sets {
		b.le(set.material)
		b.u16s(set.quads...)
		b.u16s(set.triangles...)
	}
	return b
}

type testMesh struct {
	vertices    []float32
	uvs         []int16
	normals     []float32
	faceSets    []testFaceSet
	skinWeights []float32
	skinIndices []int16
}

func (b *fileBuilder) mesh(m testMesh) *fileBuilder {
	b.f32s(m.vertices...)
	b.i16s(m.uvs...)
	b.f32s(m.normals...)
	b.faceSets(m.faceSets...)
	b.f32s(m.skinWeights...)
	return b.i16s(m.skinIndices...)
}

func (b *fileBuilder) joint(jr JointRecord) *fileBuilder {
	b.le(jr.Parent)
	b.str(jr.Name)
	return b.le(jr.Rotation, [3]float32(jr.Translation))
}

func (b *fileBuilder) file(version int32, meshes []testMesh, influences int32, joints []JointRecord) *fileBuilder {
	b.le(version, int32(len(meshes)))
	for _, m := range meshes {
		b.mesh(m)
	}
	b.le(influences, int32(len(joints)))
	for _, jr := range joints {
		b.joint(jr)
	}
	return b
}

// quad made of two triangles with uv and normals, skinned to two joints
func sampleMesh() testMesh {
	return testMesh{
		vertices: []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0},
		uvs:      []int16{0, 0, 4096, 0, 4096, 4096, 0, 4096},
		normals:  []float32{0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1},
		faceSets: []testFaceSet{
			{material: 2, quads: []uint16{0, 1, 2, 3}},
			{material: 0, triangles: []uint16{0, 1, 2}},
		},
		skinWeights: []float32{1, 0, 0.5, 0.5, 0.25, 0.75, 0, 1},
		skinIndices: []int16{0, 1, 0, 1, 0, 1, 0, 1},
	}
}

func sampleJoints() []JointRecord {
	return []JointRecord{
		{Parent: 2, Name: "arm", Rotation: [4]float32{0, 0, 0, 1}, Translation: [3]float32{0, 1, 0}},
		{Parent: 0, Name: "hand", Rotation: [4]float32{0, 0, 0, 1}, Translation: [3]float32{0, 0.5, 0}},
		{Parent: -1, Name: "root", Rotation: [4]float32{0, 0, 0, 1}, Translation: [3]float32{1, 0, 0}},
	}
}

func sampleFile() []byte {
	var b fileBuilder
	return b.file(7, []testMesh{sampleMesh()}, 2, sampleJoints()).Bytes()
}
