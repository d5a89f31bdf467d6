package anim

import (
	"fmt"
	"log"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/mogaika/anim_browser/config"
	"github.com/mogaika/anim_browser/utils/gltfutils"
)

type GLTFExported struct {
	Doc        *gltf.Document
	JointNodes []uint32
	MeshNodes  []uint32
	Skin       *uint32
}

func (af *AnimationFile) exportGLTFSkeleton(ex *GLTFExported) {
	doc := ex.Doc
	if len(af.Skeleton) == 0 {
		return
	}

	base := uint32(len(doc.Nodes))
	ex.JointNodes = make([]uint32, len(af.Skeleton))
	for i := range af.Skeleton {
		j := &af.Skeleton[i]
		q := j.Quat().Normalize()
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:        j.Name,
			Translation: [3]float32{j.Translation[0], j.Translation[1], j.Translation[2]},
			Rotation:    [4]float32{q.V[0], q.V[1], q.V[2], q.W},
			Scale:       [3]float32{1, 1, 1},
		})
		ex.JointNodes[i] = base + uint32(i)
	}
	for i := range af.Skeleton {
		if parent, ok := af.Skeleton.Parent(i); ok {
			pn := doc.Nodes[ex.JointNodes[parent.Id]]
			pn.Children = append(pn.Children, ex.JointNodes[i])
		}
	}

	worlds := af.Skeleton.WorldMatrices()
	ibms := make([][4][4]float32, len(worlds))
	for i, world := range worlds {
		inv := world.Inv()
		for col := 0; col < 4; col++ {
			for row := 0; row < 4; row++ {
				ibms[i][col][row] = inv.At(row, col)
			}
		}
	}

	skin := &gltf.Skin{
		Name:                "skeleton",
		Joints:              ex.JointNodes,
		InverseBindMatrices: gltf.Index(modeler.WriteAccessor(doc, gltf.TargetNone, ibms)),
	}
	if roots := af.Skeleton.Roots(); len(roots) == 1 {
		skin.Skeleton = gltf.Index(ex.JointNodes[roots[0]])
	}
	doc.Skins = append(doc.Skins, skin)
	ex.Skin = gltf.Index(uint32(len(doc.Skins) - 1))

	for _, root := range af.Skeleton.Roots() {
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, ex.JointNodes[root])
	}
}

// skinAttributes packs first influences of every vertex into JOINTS_0/WEIGHTS_0 layout
func (af *AnimationFile) skinAttributes(m *Mesh) ([][4]uint16, [][4]float32, bool) {
	influences := int(af.InfluencesPerVertex)
	vertexCount := m.VertexCount()
	if influences <= 0 || len(af.Skeleton) == 0 ||
		len(m.SkinWeights) != vertexCount*influences || len(m.SkinIndices) != vertexCount*influences {
		return nil, nil, false
	}

	exported := influences
	if limit := config.Get().ExportInfluences; exported > limit {
		exported = limit
	}
	if exported > 4 {
		exported = 4
	}

	joints := make([][4]uint16, vertexCount)
	weights := make([][4]float32, vertexCount)
	for iVertex := 0; iVertex < vertexCount; iVertex++ {
		var sum float32
		for k := 0; k < exported; k++ {
			index := m.SkinIndices[iVertex*influences+k]
			weight := m.SkinWeights[iVertex*influences+k]
			if index < 0 || int(index) >= len(af.Skeleton) {
				continue
			}
			joints[iVertex][k] = uint16(index)
			weights[iVertex][k] = weight
			sum += weight
		}
		if sum > 0 {
			for k := range weights[iVertex] {
				weights[iVertex][k] /= sum
			}
		} else {
			weights[iVertex][0] = 1
		}
	}
	return joints, weights, true
}

func (af *AnimationFile) exportGLTFMesh(ex *GLTFExported, iMesh int, materials map[uint32]uint32) {
	doc := ex.Doc
	m := &af.Meshes[iMesh]
	vertexCount := m.VertexCount()
	if vertexCount == 0 {
		return
	}

	attributes := make(map[string]uint32)
	{
		positions := make([][3]float32, vertexCount)
		for i := range positions {
			positions[i] = m.Vertex(i)
		}
		attributes["POSITION"] = modeler.WritePosition(doc, positions)
	}
	if len(m.Normals) == vertexCount*3 {
		normals := make([][3]float32, vertexCount)
		for i := range normals {
			normals[i] = [3]float32{m.Normals[i*3], m.Normals[i*3+1], m.Normals[i*3+2]}
		}
		attributes["NORMAL"] = modeler.WriteNormal(doc, normals)
	}
	if len(m.UVs) == vertexCount*2 {
		uvs := make([][2]float32, vertexCount)
		for i := range uvs {
			uvs[i] = [2]float32{m.UVs[i*2], m.UVs[i*2+1]}
		}
		attributes["TEXCOORD_0"] = modeler.WriteTextureCoord(doc, uvs)
	}

	joints, weights, skinned := af.skinAttributes(m)
	if skinned && ex.Skin != nil {
		attributes["JOINTS_0"] = modeler.WriteJoints(doc, joints)
		attributes["WEIGHTS_0"] = modeler.WriteWeights(doc, weights)
	} else if len(m.SkinWeights) != 0 {
		log.Printf("[anim] mesh %d: skin data does not match %d vertices, exporting unskinned", iMesh, vertexCount)
	}

	gltfMesh := &gltf.Mesh{Name: fmt.Sprintf("mesh%d", iMesh)}
	for _, material := range m.Materials() {
		indexes := m.Elements[material]
		if len(indexes) == 0 {
			continue
		}
		if !m.IndexesInRange(indexes) {
			log.Printf("[anim] mesh %d material %d: triangle index out of %d vertices, primitive skipped", iMesh, material, vertexCount)
			continue
		}
		gltfMesh.Primitives = append(gltfMesh.Primitives, &gltf.Primitive{
			Indices:    gltf.Index(modeler.WriteIndices(doc, indexes)),
			Attributes: attributes,
			Material:   gltf.Index(materials[material]),
		})
	}
	if len(gltfMesh.Primitives) == 0 {
		return
	}

	doc.Meshes = append(doc.Meshes, gltfMesh)
	node := &gltf.Node{
		Name: gltfMesh.Name,
		Mesh: gltf.Index(uint32(len(doc.Meshes) - 1)),
	}
	if skinned {
		node.Skin = ex.Skin
	}
	doc.Nodes = append(doc.Nodes, node)
	nodeIndex := uint32(len(doc.Nodes) - 1)
	ex.MeshNodes = append(ex.MeshNodes, nodeIndex)
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, nodeIndex)
}

func (af *AnimationFile) ExportGLTF(name string) *GLTFExported {
	ex := &GLTFExported{Doc: gltfutils.NewDocument()}
	doc := ex.Doc

	materials := make(map[uint32]uint32)
	for iMesh := range af.Meshes {
		for _, material := range af.Meshes[iMesh].Materials() {
			if _, ok := materials[material]; !ok {
				materials[material] = uint32(len(doc.Materials))
				doc.Materials = append(doc.Materials, &gltf.Material{
					Name:        fmt.Sprintf("%s_material%d", name, material),
					DoubleSided: true,
				})
			}
		}
	}

	af.exportGLTFSkeleton(ex)
	for iMesh := range af.Meshes {
		af.exportGLTFMesh(ex, iMesh, materials)
	}
	return ex
}
