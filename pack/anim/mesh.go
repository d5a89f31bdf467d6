package anim

import (
	"github.com/pkg/errors"

	"github.com/mogaika/anim_browser/stream"
)

// Fixed point scale of stored texture coordinates
const UV_SCALE = 4096.0

func UVFromFixed(v int16) float32 {
	return float32(v) / UV_SCALE
}

// DecodeMesh reads one mesh block. Attribute counts are not cross checked.
func DecodeMesh(r *stream.Reader) (*Mesh, error) {
	var m Mesh
	var err error

	if m.Vertices, err = r.ReadF32Array(); err != nil {
		return nil, errors.Wrapf(err, "vertices")
	}

	fixedUVs, err := r.ReadI16Array()
	if err != nil {
		return nil, errors.Wrapf(err, "uvs")
	}
	m.UVs = make([]float32, len(fixedUVs))
	for i, uv := range fixedUVs {
		m.UVs[i] = UVFromFixed(uv)
	}

	if m.Normals, err = r.ReadF32Array(); err != nil {
		return nil, errors.Wrapf(err, "normals")
	}
	if m.Elements, err = DecodeFaceSets(r); err != nil {
		return nil, errors.Wrapf(err, "elements")
	}
	if m.SkinWeights, err = r.ReadF32Array(); err != nil {
		return nil, errors.Wrapf(err, "skin weights")
	}
	if m.SkinIndices, err = r.ReadI16Array(); err != nil {
		return nil, errors.Wrapf(err, "skin indices")
	}
	return &m, nil
}
