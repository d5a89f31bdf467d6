package anim

import (
	"bytes"
	"log"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/mogaika/anim_browser/utils/gltfutils"
	"github.com/mogaika/anim_browser/webutils"
)

func (af *AnimationFile) HttpAction(name string, w http.ResponseWriter, r *http.Request, action string) {
	baseName := strings.TrimSuffix(name, ".anim")
	baseName = strings.TrimSuffix(baseName, FILE_EXTENSION)

	switch action {
	case "gltf":
		webutils.WriteFileHeaders(w, baseName+".glb")
		if err := gltfutils.ExportBinary(w, af.ExportGLTF(baseName).Doc); err != nil {
			log.Printf("Failed to encode gltf: %v", err)
		}
	case "fbx":
		webutils.WriteFileHeaders(w, baseName+".fbx")
		if err := af.ExportFbxDefault(name).Write(w); err != nil {
			log.Printf("Error when exporting as fbx: %v", err)
		}
	case "obj":
		webutils.WriteFileHeaders(w, baseName+".obj")
		if err := af.ExportObj(w); err != nil {
			log.Printf("Error when exporting as obj: %v", err)
		}
	case "asyaml":
		data, err := af.Skeleton.MarshalYaml()
		if err != nil {
			webutils.WriteError(w, err)
			return
		}
		webutils.WriteFile(w, bytes.NewReader(data), baseName+"-skeleton.yaml")
	default:
		w.WriteHeader(http.StatusNotFound)
		webutils.WriteError(w, errors.Errorf("Unknown action %q", action))
	}
}
