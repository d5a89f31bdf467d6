package anim

import (
	"bufio"
	"fmt"
	"io"
	"log"
)

// ExportObj writes meshes in bind pose as wavefront obj, one group per material
func (af *AnimationFile) ExportObj(_w io.Writer) error {
	bw := bufio.NewWriter(_w)
	w := func(format string, args ...interface{}) {
		fmt.Fprintf(bw, format+"\n", args...)
	}

	iV, iT, iN := uint32(1), uint32(1), uint32(1)
	for iMesh := range af.Meshes {
		m := &af.Meshes[iMesh]
		vertexCount := m.VertexCount()
		haveUV := len(m.UVs) == vertexCount*2
		haveNorm := len(m.Normals) == vertexCount*3

		w("o mesh%d", iMesh)
		for i := 0; i < vertexCount; i++ {
			w("v %f %f %f", m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2])
		}
		if haveUV {
			for i := 0; i < vertexCount; i++ {
				w("vt %f %f", m.UVs[i*2], -m.UVs[i*2+1])
			}
		}
		if haveNorm {
			for i := 0; i < vertexCount; i++ {
				w("vn %f %f %f", m.Normals[i*3], m.Normals[i*3+1], m.Normals[i*3+2])
			}
		}

		for _, material := range m.Materials() {
			indexes := m.Elements[material]
			if !m.IndexesInRange(indexes) {
				log.Printf("[anim] mesh %d material %d: triangle index out of %d vertices, skipped", iMesh, material, vertexCount)
				continue
			}
			w("g mesh%d_material%d", iMesh, material)
			for i := 0; i+3 <= len(indexes); i += 3 {
				tri := indexes[i : i+3]
				switch {
				case haveNorm && haveUV:
					w("f %v/%v/%v %v/%v/%v %v/%v/%v",
						iV+uint32(tri[0]), iT+uint32(tri[0]), iN+uint32(tri[0]),
						iV+uint32(tri[1]), iT+uint32(tri[1]), iN+uint32(tri[1]),
						iV+uint32(tri[2]), iT+uint32(tri[2]), iN+uint32(tri[2]))
				case haveNorm:
					w("f %v//%v %v//%v %v//%v",
						iV+uint32(tri[0]), iN+uint32(tri[0]),
						iV+uint32(tri[1]), iN+uint32(tri[1]),
						iV+uint32(tri[2]), iN+uint32(tri[2]))
				case haveUV:
					w("f %v/%v %v/%v %v/%v",
						iV+uint32(tri[0]), iT+uint32(tri[0]),
						iV+uint32(tri[1]), iT+uint32(tri[1]),
						iV+uint32(tri[2]), iT+uint32(tri[2]))
				default:
					w("f %v %v %v", iV+uint32(tri[0]), iV+uint32(tri[1]), iV+uint32(tri[2]))
				}
			}
		}
		iV += uint32(vertexCount)
		if haveUV {
			iT += uint32(vertexCount)
		}
		if haveNorm {
			iN += uint32(vertexCount)
		}
	}
	return bw.Flush()
}
