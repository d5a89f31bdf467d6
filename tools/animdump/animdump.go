package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mogaika/anim_browser/config"
	"github.com/mogaika/anim_browser/pack/anim"
	"github.com/mogaika/anim_browser/utils"
)

func head(values interface{}, n int) string {
	switch v := values.(type) {
	case []float32:
		if len(v) < n {
			n = len(v)
		}
		return fmt.Sprint(v[:n])
	case []int16:
		if len(v) < n {
			n = len(v)
		}
		return fmt.Sprint(v[:n])
	}
	return "?"
}

func main() {
	var spew bool
	var rotationOrder string
	flag.BoolVar(&spew, "spew", false, "Dump whole decoded file")
	flag.StringVar(&rotationOrder, "rotation", config.ROTATION_XYZW, "Joint rotation component order: 'xyzw' or 'wxyz'")
	flag.Parse()

	path := "model.anim"
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	}

	c := config.Get()
	c.RotationOrder = rotationOrder
	if err := c.Validate(); err != nil {
		log.Fatal(err)
	}
	config.Set(c)

	f, err := os.Open(path)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	af, err := anim.Decode(f)
	if err != nil {
		log.Fatalf("Failed to decode %s: %v", path, err)
	}

	if spew {
		fmt.Print(utils.SDump(af))
		return
	}

	fmt.Printf("version %d, %d meshes, %d influences per vertex, %d joints\n",
		af.Version, len(af.Meshes), af.InfluencesPerVertex, len(af.Skeleton))
	if len(af.Meshes) > 0 {
		m := &af.Meshes[0]
		fmt.Println(head(m.Vertices, 3))
		fmt.Println(head(m.UVs, 2))
		fmt.Println(head(m.Normals, 3))
		fmt.Println(head(m.SkinWeights, 3))
		fmt.Println(head(m.SkinIndices, 3))
	}
	fmt.Print(af.Skeleton.StringTree())
}
