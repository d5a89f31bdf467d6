package anim

import (
	"fmt"
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mogaika/fbx"
	"github.com/mogaika/fbx/builders/bfbx73"

	"github.com/mogaika/anim_browser/utils/fbxbuilder"
)

type FbxExporter struct {
	JointModelIds []int64
}

func quatToEuler(q mgl32.Quat) (e mgl32.Vec3) {
	sinr_cosp := float64(2 * (q.W*q.X() + q.Y()*q.Z()))
	cosr_cosp := float64(1 - 2*(q.X()*q.X()+q.Y()*q.Y()))

	e[0] = float32(math.Atan2(sinr_cosp, cosr_cosp))

	sinp := float64(2 * (q.W*q.Y() - q.Z()*q.X()))
	if math.Abs(sinp) >= 1 {
		e[1] = float32(math.Copysign(math.Pi/2, sinp))
	} else {
		e[1] = float32(math.Asin(sinp))
	}

	siny_cosp := float64(2 * (q.W*q.Z() + q.X()*q.Y()))
	cosy_cosp := float64(1 - 2*(q.Y()*q.Y()+q.Z()*q.Z()))
	e[2] = float32(math.Atan2(siny_cosp, cosy_cosp))

	return e
}

func (af *AnimationFile) exportFbxSkeleton(f *fbxbuilder.FBXBuilder, fe *FbxExporter) {
	fe.JointModelIds = make([]int64, len(af.Skeleton))
	for i := range af.Skeleton {
		j := &af.Skeleton[i]
		pos := j.Translation
		rotation := quatToEuler(j.Quat().Normalize()).Mul(180.0 / math.Pi)

		fe.JointModelIds[i] = f.GenerateId()
		model := bfbx73.Model(fe.JointModelIds[i], j.Name+"\x00\x01Model", "LimbNode").AddNodes(
			bfbx73.Version(232),
			bfbx73.Properties70().AddNodes(
				bfbx73.P("Lcl Translation", "Lcl Translation", "", "A",
					float64(pos[0]), float64(pos[1]), float64(pos[2])),
				bfbx73.P("Lcl Rotation", "Lcl Rotation", "", "A",
					float64(rotation[0]), float64(rotation[1]), float64(rotation[2])),
				bfbx73.P("Lcl Scaling", "Lcl Scaling", "", "A", float64(1), float64(1), float64(1)),
			),
			bfbx73.Shading(true),
			bfbx73.Culling("CullingOff"),
		)
		nodeAttribute := bfbx73.NodeAttribute(f.GenerateId(), j.Name+"\x00\x01NodeAttribute", "LimbNode").AddNodes(
			bfbx73.TypeFlags("Skeleton"),
		)

		f.AddObjects(model, nodeAttribute)
		f.Connect(nodeAttribute.Properties[0].(int64), fe.JointModelIds[i])
	}

	for i := range af.Skeleton {
		if parent, ok := af.Skeleton.Parent(i); ok {
			f.Connect(fe.JointModelIds[i], fe.JointModelIds[parent.Id])
		} else {
			f.Connect(fe.JointModelIds[i], 0)
		}
	}
}

func (af *AnimationFile) exportFbxGeometry(f *fbxbuilder.FBXBuilder, m *Mesh, indexes []uint16) *fbx.Node {
	vertexCount := m.VertexCount()

	vertices := make([]float64, vertexCount*3)
	for i := range vertices {
		vertices[i] = float64(m.Vertices[i])
	}

	polygons := make([]int32, 0, len(indexes))
	uvIndexes := make([]int32, 0, len(indexes))
	for i := 0; i+3 <= len(indexes); i += 3 {
		a, b, c := int32(indexes[i]), int32(indexes[i+1]), int32(indexes[i+2])
		// last index of polygon is stored inverted
		polygons = append(polygons, a, b, -c-1)
		uvIndexes = append(uvIndexes, a, b, c)
	}

	geometryLayer := bfbx73.Layer(0).AddNodes(
		bfbx73.Version(100),
	)
	geometry := bfbx73.Geometry(f.GenerateId(), "\x00\x01Geometry", "Mesh").AddNodes(
		bfbx73.GeometryVersion(124),
		bfbx73.Vertices(vertices),
		bfbx73.PolygonVertexIndex(polygons),
		geometryLayer,
	)

	if len(m.Normals) == vertexCount*3 {
		normals := make([]float64, len(m.Normals))
		for i, n := range m.Normals {
			normals[i] = float64(n)
		}
		geometry.AddNode(
			bfbx73.LayerElementNormal(0).AddNodes(
				bfbx73.Version(101),
				bfbx73.Name(""),
				bfbx73.MappingInformationType("ByVertice"),
				bfbx73.ReferenceInformationType("Direct"),
				bfbx73.Normals(normals),
			),
		)
		geometryLayer.AddNode(
			bfbx73.LayerElement().AddNodes(
				bfbx73.Type("LayerElementNormal"),
				bfbx73.TypedIndex(0),
			),
		)
	}

	if len(m.UVs) == vertexCount*2 {
		uv := make([]float64, len(m.UVs))
		for i := 0; i < vertexCount; i++ {
			uv[i*2] = float64(m.UVs[i*2])
			uv[i*2+1] = float64(-m.UVs[i*2+1])
		}
		geometry.AddNode(
			bfbx73.LayerElementUV(0).AddNodes(
				bfbx73.Version(101),
				bfbx73.Name(""),
				bfbx73.MappingInformationType("ByPolygonVertex"),
				bfbx73.ReferenceInformationType("IndexToDirect"),
				bfbx73.UV(uv),
				bfbx73.UVIndex(uvIndexes),
			),
		)
		geometryLayer.AddNode(
			bfbx73.LayerElement().AddNodes(
				bfbx73.Type("LayerElementUV"),
				bfbx73.TypedIndex(0),
			),
		)
	}

	return geometry
}

func (af *AnimationFile) ExportFbx(f *fbxbuilder.FBXBuilder) *FbxExporter {
	fe := &FbxExporter{}

	af.exportFbxSkeleton(f, fe)

	for iMesh := range af.Meshes {
		m := &af.Meshes[iMesh]
		if m.VertexCount() == 0 {
			continue
		}
		for _, material := range m.Materials() {
			indexes := m.Elements[material]
			if !m.IndexesInRange(indexes) {
				log.Printf("[anim] mesh %d material %d: triangle index out of %d vertices, geometry skipped", iMesh, material, m.VertexCount())
				continue
			}
			geometry := af.exportFbxGeometry(f, m, indexes)

			modelId := f.GenerateId()
			model := bfbx73.Model(modelId, fmt.Sprintf("mesh%d_material%d\x00\x01Model", iMesh, material), "Mesh").AddNodes(
				bfbx73.Version(232),
				bfbx73.Properties70().AddNodes(
					bfbx73.P("Lcl Translation", "Lcl Translation", "", "A", float64(0), float64(0), float64(0)),
					bfbx73.P("Lcl Rotation", "Lcl Rotation", "", "A", float64(0), float64(0), float64(0)),
					bfbx73.P("Lcl Scaling", "Lcl Scaling", "", "A", float64(1), float64(1), float64(1)),
				),
				bfbx73.Shading(true),
				bfbx73.Culling("CullingOff"),
			)

			f.AddObjects(model, geometry)
			f.Connect(geometry.Properties[0].(int64), modelId)
			f.Connect(modelId, 0)
		}
	}

	return fe
}

func (af *AnimationFile) ExportFbxDefault(name string) *fbxbuilder.FBXBuilder {
	f := fbxbuilder.NewFBXBuilder(name)
	af.ExportFbx(f)
	return f
}
