package web

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mogaika/anim_browser/pack"
	"github.com/mogaika/anim_browser/pack/anim"
	"github.com/mogaika/anim_browser/vfs"
	"github.com/mogaika/anim_browser/webutils"
)

type HttpActioner interface {
	HttpAction(name string, w http.ResponseWriter, r *http.Request, action string)
}

func HandlerAjaxPack(w http.ResponseWriter, r *http.Request) {
	if files, err := pack.ListFiles(ServerDirectory); err != nil {
		webutils.WriteError(w, err)
	} else {
		webutils.WriteJson(w, files)
	}
}

func HandlerAjaxPackFile(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	data, err := pack.GetInstanceHandler(ServerDirectory, file)
	if err != nil {
		log.Printf("Error getting file from pack: %v", err)
		webutils.WriteError(w, err)
		return
	}

	switch data.(type) {
	case *anim.AnimationFile:
		webutils.WriteJson(w, data.(*anim.AnimationFile).Marshal())
	default:
		webutils.WriteJson(w, data)
	}
}

func HandlerDumpPackFile(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	f, err := vfs.DirectoryGetFile(ServerDirectory, file)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}

	if reader, err := vfs.OpenFileAndGetReader(f, true); err == nil {
		defer f.Close()
		webutils.WriteFile(w, reader, file)
	} else {
		webutils.WriteError(w, fmt.Errorf("Error getting file reader: %v", err))
	}
}

func HandlerActionPackFile(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	action := mux.Vars(r)["action"]
	data, err := pack.GetInstanceHandler(ServerDirectory, file)
	if err != nil {
		log.Printf("Error getting file from pack: %v", err)
		webutils.WriteError(w, err)
		return
	}

	if actioner, ok := data.(HttpActioner); ok {
		actioner.HttpAction(file, w, r, action)
	} else {
		webutils.WriteError(w, fmt.Errorf("File %s have no actions", file))
	}
}
