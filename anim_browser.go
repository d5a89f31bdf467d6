package main

import (
	"flag"
	"log"

	"github.com/mogaika/anim_browser/config"
	"github.com/mogaika/anim_browser/vfs"
	"github.com/mogaika/anim_browser/web"

	_ "github.com/mogaika/anim_browser/pack/anim"
)

func main() {
	var configPath, addr, dir, webPath, rotationOrder string
	flag.StringVar(&configPath, "config", "anim_browser.yaml", "Path to yaml config")
	flag.StringVar(&addr, "i", "", "Address of server")
	flag.StringVar(&dir, "dir", "", "Path to folder with .anim files")
	flag.StringVar(&webPath, "web", "", "Path to web resources")
	flag.StringVar(&rotationOrder, "rotation", "", "Joint rotation component order: 'xyzw' or 'wxyz'")
	flag.Parse()

	c, err := config.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	if addr != "" {
		c.Addr = addr
	}
	if dir != "" {
		c.Dir = dir
	}
	if webPath != "" {
		c.WebPath = webPath
	}
	if rotationOrder != "" {
		c.RotationOrder = rotationOrder
	}
	if err := c.Validate(); err != nil {
		log.Fatal(err)
	}
	config.Set(c)

	dd := vfs.NewDirectoryDriver(c.Dir)
	log.Printf("[web] Serving files from %s", dd.Path())
	if err := web.StartServer(c.Addr, dd, c.WebPath); err != nil {
		log.Fatal(err)
	}
}
