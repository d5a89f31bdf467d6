package anim

import (
	"log"

	"github.com/pkg/errors"

	"github.com/mogaika/anim_browser/stream"
)

var ErrInvalidTopology = errors.New("invalid topology")

// ExpandQuads appends two triangles (q0,q1,q3) and (q1,q2,q3) per quad
// after the already triangulated indexes.
func ExpandQuads(triangles, quads []uint16) ([]uint16, error) {
	if len(quads)%4 != 0 {
		return nil, errors.Wrapf(ErrInvalidTopology, "quad index count %d is not a multiple of 4", len(quads))
	}

	result := make([]uint16, len(triangles), len(triangles)+len(quads)/4*6)
	copy(result, triangles)
	for i := 0; i < len(quads); i += 4 {
		q := quads[i : i+4]
		result = append(result,
			q[0], q[1], q[3],
			q[1], q[2], q[3])
	}
	return result, nil
}

func decodeFaceSet(r *stream.Reader) (uint32, []uint16, error) {
	material, err := r.ReadU32()
	if err != nil {
		return 0, nil, errors.Wrapf(err, "material index")
	}
	quads, err := r.ReadU16Array()
	if err != nil {
		return 0, nil, errors.Wrapf(err, "quads")
	}
	triangles, err := r.ReadU16Array()
	if err != nil {
		return 0, nil, errors.Wrapf(err, "triangles")
	}
	indexes, err := ExpandQuads(triangles, quads)
	if err != nil {
		return 0, nil, err
	}
	return material, indexes, nil
}

// DecodeFaceSets reads the face set table of a mesh.
// A face set with an already seen material index replaces the previous one.
func DecodeFaceSets(r *stream.Reader) (map[uint32][]uint16, error) {
	count, err := r.ReadCount()
	if err != nil {
		return nil, errors.Wrapf(err, "face sets")
	}

	hint := count
	if hint > 64 {
		hint = 64
	}
	elements := make(map[uint32][]uint16, hint)
	for i := 0; i < count; i++ {
		material, indexes, err := decodeFaceSet(r)
		if err != nil {
			return nil, errors.Wrapf(err, "face set %d", i)
		}
		if _, exists := elements[material]; exists {
			log.Printf("[anim] face set %d overrides material %d", i, material)
		}
		elements[material] = indexes
	}
	return elements, nil
}
