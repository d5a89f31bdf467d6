package anim

import (
	"bytes"
	"log"
	"math"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type MaterialMarshal struct {
	Material  uint32
	Triangles int
}

type MeshMarshal struct {
	Vertices    int
	UVs         int
	Normals     int
	Materials   []MaterialMarshal
	SkinWeights int
	SkinIndices int
}

type JointMarshal struct {
	Id          int
	Parent      int16
	Depth       int
	Name        string
	Rotation    [4]float32
	Translation [3]float32
}

type AnimationFileMarshal struct {
	Version             int32
	InfluencesPerVertex int32
	Meshes              []MeshMarshal
	Joints              []JointMarshal
}

// finite replaces NaN and Inf with zero, json cannot encode them
func finite(values []float32) (replaced bool) {
	for i, v := range values {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			values[i] = 0
			replaced = true
		}
	}
	return replaced
}

// Marshal returns summary for web view, attribute arrays are replaced by counts
func (af *AnimationFile) Marshal() *AnimationFileMarshal {
	afm := &AnimationFileMarshal{
		Version:             af.Version,
		InfluencesPerVertex: af.InfluencesPerVertex,
		Meshes:              make([]MeshMarshal, len(af.Meshes)),
		Joints:              make([]JointMarshal, len(af.Skeleton)),
	}
	for i := range af.Skeleton {
		j := &af.Skeleton[i]
		jm := &afm.Joints[i]
		*jm = JointMarshal{
			Id:          j.Id,
			Parent:      j.Parent,
			Depth:       j.Depth,
			Name:        j.Name,
			Rotation:    j.Rotation,
			Translation: j.Translation,
		}
		badRotation := finite(jm.Rotation[:])
		badTranslation := finite(jm.Translation[:])
		if badRotation || badTranslation {
			log.Printf("[anim] joint %d (%q): non finite transform replaced with zeros", i, j.Name)
		}
	}
	for i := range af.Meshes {
		m := &af.Meshes[i]
		mm := &afm.Meshes[i]
		mm.Vertices = m.VertexCount()
		mm.UVs = len(m.UVs) / 2
		mm.Normals = len(m.Normals) / 3
		mm.SkinWeights = len(m.SkinWeights)
		mm.SkinIndices = len(m.SkinIndices)
		for _, material := range m.Materials() {
			mm.Materials = append(mm.Materials, MaterialMarshal{
				Material:  material,
				Triangles: len(m.Elements[material]) / 3,
			})
		}
	}
	return afm
}

type yamlJoint struct {
	Name        string       `yaml:"name"`
	Rotation    [4]float32   `yaml:"rotation,flow"`
	Translation [3]float32   `yaml:"translation,flow"`
	Children    []*yamlJoint `yaml:"children,omitempty"`
}

func (s Skeleton) yamlTree() []*yamlJoint {
	nodes := make([]*yamlJoint, len(s))
	for i := range s {
		nodes[i] = &yamlJoint{
			Name:        s[i].Name,
			Rotation:    s[i].Rotation,
			Translation: s[i].Translation,
		}
	}
	roots := make([]*yamlJoint, 0, 1)
	for i := range s {
		if s[i].IsRoot() {
			roots = append(roots, nodes[i])
		} else {
			parent := nodes[s[i].Parent]
			parent.Children = append(parent.Children, nodes[i])
		}
	}
	return roots
}

// MarshalYaml encodes joint hierarchy as nested yaml tree
func (s Skeleton) MarshalYaml() ([]byte, error) {
	var buffer bytes.Buffer
	enc := yaml.NewEncoder(&buffer)
	enc.SetIndent(2)

	if err := enc.Encode(s.yamlTree()); err != nil {
		return nil, errors.Wrapf(err, "Failed to marshal yaml")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrapf(err, "Failed to close yaml encoder")
	}
	return buffer.Bytes(), nil
}
