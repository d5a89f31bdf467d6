package anim

import (
	"bytes"
	"testing"
	"testing/iotest"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/anim_browser/stream"
)

func TestDecode(t *testing.T) {
	af, err := Decode(iotest.HalfReader(bytes.NewReader(sampleFile())))
	require.NoError(t, err)

	assert.Equal(t, int32(7), af.Version)
	assert.Equal(t, int32(2), af.InfluencesPerVertex)
	require.Len(t, af.Meshes, 1)
	assert.Equal(t, 4, af.Meshes[0].VertexCount())
	assert.Len(t, af.Meshes[0].Elements, 2)

	require.Len(t, af.Skeleton, 3)
	for i, jr := range sampleJoints() {
		j := af.Skeleton[i]
		assert.Equal(t, jr.Name, j.Name)
		assert.Equal(t, jr.Parent, j.Parent)
		assert.Equal(t, jr.Rotation, j.Rotation)
		assert.Equal(t, jr.Translation, j.Translation)
	}
	hand, _ := af.Skeleton.ByName("hand")
	arm, _ := af.Skeleton.Parent(hand.Id)
	assert.Equal(t, "arm", arm.Name)
}

func TestDecodeEmptyFile(t *testing.T) {
	var b fileBuilder
	af, err := Decode(bytes.NewReader(b.file(1, nil, 0, nil).Bytes()))
	require.NoError(t, err)
	assert.Empty(t, af.Meshes)
	assert.Empty(t, af.Skeleton)
}

func TestDecodeIgnoresTrailingBytes(t *testing.T) {
	data := append(sampleFile(), 0xde, 0xad, 0xbe, 0xef)
	af, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Len(t, af.Skeleton, 3)
}

func TestDecodeTruncatedAnywhere(t *testing.T) {
	data := sampleFile()
	for n := 0; n < len(data); n++ {
		af, err := Decode(bytes.NewReader(data[:n]))
		if !assert.Nil(t, af, "truncated at %d", n) {
			continue
		}
		assert.True(t, errors.Is(err, stream.ErrUnexpectedEOF), "truncated at %d: %v", n, err)
	}
}

func TestDecodeErrorStages(t *testing.T) {
	brokenMesh := sampleMesh()
	brokenMesh.faceSets = []testFaceSet{{material: 1, quads: []uint16{0, 1, 2}}}

	badName := sampleJoints()
	badName[1].Name = "\xff\xfe"

	cycle := sampleJoints()
	cycle[2].Parent = 1

	tests := []struct {
		name  string
		data  []byte
		kind  error
		stage string
	}{
		{"version", []byte{1, 2}, stream.ErrUnexpectedEOF, "version"},
		{"mesh count", (&fileBuilder{}).le(int32(1), int32(-3)).Bytes(), stream.ErrMalformedCount, "meshes"},
		{"topology", (&fileBuilder{}).file(1, []testMesh{sampleMesh(), brokenMesh}, 2, nil).Bytes(), ErrInvalidTopology, "mesh 1: elements: face set 0"},
		{"influences", (&fileBuilder{}).le(int32(1), int32(0)).Bytes(), stream.ErrUnexpectedEOF, "influences per vertex"},
		{"joint count", (&fileBuilder{}).le(int32(1), int32(0), int32(4), int32(-1)).Bytes(), stream.ErrMalformedCount, "skeleton"},
		{"joint name", (&fileBuilder{}).file(1, nil, 2, badName).Bytes(), stream.ErrInvalidUTF8, "skeleton: skeleton record 1: name"},
		{"cycle", (&fileBuilder{}).file(1, nil, 2, cycle).Bytes(), ErrDanglingReference, "skeleton"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			af, err := Decode(bytes.NewReader(test.data))
			assert.Nil(t, af)
			require.Error(t, err)
			assert.True(t, errors.Is(err, test.kind), "got %v", err)
			assert.Contains(t, err.Error(), test.stage)
		})
	}
}
