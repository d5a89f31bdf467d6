package anim

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mogaika/anim_browser/utils/gltfutils"
)

func decodeSample(t *testing.T) *AnimationFile {
	af, err := Decode(bytes.NewReader(sampleFile()))
	require.NoError(t, err)
	return af
}

func TestExportGLTF(t *testing.T) {
	af := decodeSample(t)
	ex := af.ExportGLTF("sample")
	doc := ex.Doc

	assert.Len(t, doc.Materials, 2)
	require.Len(t, doc.Meshes, 1)
	assert.Len(t, doc.Meshes[0].Primitives, 2)
	require.Len(t, doc.Skins, 1)
	assert.Len(t, doc.Skins[0].Joints, 3)
	require.Len(t, ex.JointNodes, 3)
	require.Len(t, ex.MeshNodes, 1)

	root := doc.Nodes[ex.JointNodes[2]]
	assert.Equal(t, "root", root.Name)
	assert.Equal(t, []uint32{ex.JointNodes[0]}, root.Children)
	assert.Equal(t, []uint32{ex.JointNodes[1]}, doc.Nodes[ex.JointNodes[0]].Children)

	attributes := doc.Meshes[0].Primitives[0].Attributes
	for _, name := range []string{"POSITION", "NORMAL", "TEXCOORD_0", "JOINTS_0", "WEIGHTS_0"} {
		assert.Contains(t, attributes, name)
	}
	assert.NotNil(t, doc.Nodes[ex.MeshNodes[0]].Skin)
	assert.ElementsMatch(t, []uint32{ex.JointNodes[2], ex.MeshNodes[0]}, doc.Scenes[0].Nodes)

	var buf bytes.Buffer
	require.NoError(t, gltfutils.ExportBinary(&buf, doc))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("glTF")))
}

func TestSkinAttributes(t *testing.T) {
	af := decodeSample(t)
	joints, weights, ok := af.skinAttributes(&af.Meshes[0])
	require.True(t, ok)
	assert.Equal(t, [4]uint16{0, 1, 0, 0}, joints[2])
	assert.Equal(t, [4]float32{0.25, 0.75, 0, 0}, weights[2])

	af.InfluencesPerVertex = 3
	_, _, ok = af.skinAttributes(&af.Meshes[0])
	assert.False(t, ok)
}

func TestExportObj(t *testing.T) {
	af := decodeSample(t)
	var buf bytes.Buffer
	require.NoError(t, af.ExportObj(&buf))
	obj := buf.String()

	assert.Equal(t, 4, strings.Count(obj, "\nv "))
	assert.Equal(t, 4, strings.Count(obj, "\nvt "))
	assert.Equal(t, 4, strings.Count(obj, "\nvn "))
	assert.Contains(t, obj, "g mesh0_material0\nf 1/1/1 2/2/2 3/3/3\n")
	assert.Contains(t, obj, "g mesh0_material2\nf 1/1/1 2/2/2 4/4/4\nf 2/2/2 3/3/3 4/4/4\n")
}

func TestMarshalYamlSkeleton(t *testing.T) {
	af := decodeSample(t)
	data, err := af.Skeleton.MarshalYaml()
	require.NoError(t, err)

	var tree []yamlJoint
	require.NoError(t, yaml.Unmarshal(data, &tree))
	require.Len(t, tree, 1)
	assert.Equal(t, "root", tree[0].Name)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "arm", tree[0].Children[0].Name)
	require.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, "hand", tree[0].Children[0].Children[0].Name)
}

func TestMarshal(t *testing.T) {
	afm := decodeSample(t).Marshal()
	require.Len(t, afm.Meshes, 1)
	assert.Equal(t, 4, afm.Meshes[0].Vertices)
	assert.Equal(t, 4, afm.Meshes[0].UVs)
	assert.Equal(t, []MaterialMarshal{{Material: 0, Triangles: 1}, {Material: 2, Triangles: 2}}, afm.Meshes[0].Materials)
	assert.Len(t, afm.Joints, 3)
}

func TestExportFbx(t *testing.T) {
	af := decodeSample(t)
	f := af.ExportFbxDefault("sample.anim")
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	assert.NotZero(t, buf.Len())
}

func TestHttpAction(t *testing.T) {
	af := decodeSample(t)
	for _, test := range []struct {
		action   string
		filename string
	}{
		{"gltf", "sample.glb"},
		{"obj", "sample.obj"},
		{"asyaml", "sample-skeleton.yaml"},
	} {
		w := httptest.NewRecorder()
		af.HttpAction("sample.anim", w, httptest.NewRequest(http.MethodGet, "/", nil), test.action)
		assert.Contains(t, w.Header().Get("Content-Disposition"), test.filename, test.action)
		assert.NotZero(t, w.Body.Len(), test.action)
	}

	w := httptest.NewRecorder()
	af.HttpAction("sample.anim", w, httptest.NewRequest(http.MethodGet, "/", nil), "nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestMarshalNonFiniteJoint(t *testing.T) {
	joints := sampleJoints()
	nan := float32(math.NaN())
	joints[1].Rotation = [4]float32{nan, 0, 0, 1}
	joints[1].Translation = [3]float32{float32(math.Inf(1)), 2, nan}

	var b fileBuilder
	af, err := Decode(bytes.NewReader(b.file(1, nil, 0, joints).Bytes()))
	require.NoError(t, err)

	afm := af.Marshal()
	assert.Equal(t, [4]float32{0, 0, 0, 1}, afm.Joints[1].Rotation)
	assert.Equal(t, [3]float32{0, 2, 0}, afm.Joints[1].Translation)
	assert.Equal(t, "hand", afm.Joints[1].Name)
	assert.True(t, math.IsNaN(float64(af.Skeleton[1].Rotation[0])))

	_, err = json.Marshal(afm)
	assert.NoError(t, err)
}

func outOfRangeFile() *AnimationFile {
	m := sampleMesh()
	m.faceSets = []testFaceSet{
		{material: 0, triangles: []uint16{0, 1, 2}},
		{material: 1, triangles: []uint16{0, 1, 900}},
	}
	var b fileBuilder
	af, err := Decode(bytes.NewReader(b.file(1, []testMesh{m}, 2, sampleJoints()).Bytes()))
	if err != nil {
		panic(err)
	}
	return af
}

func TestExportSkipsOutOfRangeTriangles(t *testing.T) {
	af := outOfRangeFile()
	assert.True(t, af.Meshes[0].IndexesInRange(af.Meshes[0].Elements[0]))
	assert.False(t, af.Meshes[0].IndexesInRange(af.Meshes[0].Elements[1]))

	var buf bytes.Buffer
	require.NoError(t, af.ExportObj(&buf))
	assert.Contains(t, buf.String(), "g mesh0_material0\n")
	assert.NotContains(t, buf.String(), "material1")
	assert.NotContains(t, buf.String(), "901")

	doc := af.ExportGLTF("bad").Doc
	require.Len(t, doc.Meshes, 1)
	require.Len(t, doc.Meshes[0].Primitives, 1)
	assert.Equal(t, uint32(0), *doc.Meshes[0].Primitives[0].Material)

	f := af.ExportFbxDefault("bad.anim")
	geometries := 0
	for _, object := range f.Root().GetNode("Objects").Nodes {
		if object.Name == "Geometry" {
			geometries++
		}
	}
	assert.Equal(t, 1, geometries)
}
