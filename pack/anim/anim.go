package anim

import (
	"io"
	"log"

	"github.com/pkg/errors"

	"github.com/mogaika/anim_browser/pack"
	"github.com/mogaika/anim_browser/status"
	"github.com/mogaika/anim_browser/stream"
	"github.com/mogaika/anim_browser/utils"
)

const FILE_EXTENSION = ".ANIM"

// Decode reads a whole animation file. Trailing data is ignored.
func Decode(source io.Reader) (*AnimationFile, error) {
	r := stream.NewReader(source)
	af := new(AnimationFile)
	var err error

	if af.Version, err = r.ReadI32(); err != nil {
		return nil, errors.Wrapf(err, "version")
	}

	af.Meshes, err = stream.ReadRecords(r, func(r *stream.Reader, i int) (Mesh, error) {
		m, err := DecodeMesh(r)
		if err != nil {
			return Mesh{}, errors.Wrapf(err, "mesh %d", i)
		}
		return *m, nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "meshes")
	}

	if af.InfluencesPerVertex, err = r.ReadI32(); err != nil {
		return nil, errors.Wrapf(err, "influences per vertex")
	}

	records, err := stream.ReadRecords(r, func(r *stream.Reader, i int) (JointRecord, error) {
		jr, err := DecodeJointRecord(r)
		if err != nil {
			return jr, errors.Wrapf(err, "skeleton record %d", i)
		}
		return jr, nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "skeleton")
	}
	if af.Skeleton, err = BuildSkeleton(records); err != nil {
		return nil, errors.Wrapf(err, "skeleton")
	}

	return af, nil
}

func init() {
	pack.SetHandler(FILE_EXTENSION, func(src utils.ResourceSource, r *io.SectionReader) (interface{}, error) {
		af, err := Decode(r)
		if err != nil {
			status.Error("Failed to decode %s: %v", src.Name(), err)
			return nil, errors.Wrapf(err, "[anim] %s", src.Name())
		}
		log.Printf("[anim] %s: version %d, %d meshes, %d joints", src.Name(), af.Version, len(af.Meshes), len(af.Skeleton))
		status.Info("Decoded %s", src.Name())
		return af, nil
	})
}
