package main

import (
	"fmt"
	"log"
	"os"

	"github.com/fosdem/glexperiment/lib/config"
	"github.com/fosdem/glexperiment/lib/fileload"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("Usage: %s <config file>", os.Args[0])
	}
	cfg, err := config.Parse(os.Args[1])
	if err != nil {
		fmt.Printf("Config invalid: %s\n", err)
		os.Exit(1)
	}

	for _, path := range []config.CfgPath{cfg.Shaders.Vertex, cfg.Shaders.Fragment} {
		f, err := fileload.ReadEntireFile(path.String())
		if err != nil {
			fmt.Printf("Shader unreadable: %s\n", err)
			os.Exit(1)
		}
		if f.Size <= 1 {
			fmt.Printf("Shader %s is empty\n", path)
			os.Exit(1)
		}
	}

	fmt.Print("Config valid!\n\n")

	fmt.Print(cfg)
}
