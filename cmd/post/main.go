// Command post runs a post-processor on a path document from the command
// line, without the HTTP server.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/cnc-post/backend/internal/gcode"
	"github.com/cnc-post/backend/internal/models"
)

func main() {
	var (
		processor = flag.String("processor", "wincnc", "post-processor dialect to use")
		args      = flag.String("args", "", "shell-quoted processor argument string")
		output    = flag.String("o", "-", "output file, or - for stdout")
		profile   = flag.String("profile", "", "optional machine profile YAML file")
		list      = flag.Bool("list", false, "list available processors and exit")
	)
	flag.Parse()

	registry := gcode.GetGlobalRegistry()

	if *list {
		for _, name := range registry.Names() {
			fmt.Println(name)
		}
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <document.json | ->\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	doc, err := readDocument(flag.Arg(0))
	if err != nil {
		fmt.Printf("Failed to read document: %v\n", err)
		os.Exit(1)
	}

	proc, err := registry.Find(*processor)
	if err != nil {
		fmt.Printf("Failed to find processor: %v\n", err)
		os.Exit(1)
	}

	if *profile != "" {
		p, err := gcode.LoadProfile(*profile)
		if err != nil {
			fmt.Printf("Failed to load profile: %v\n", err)
			os.Exit(1)
		}
		if w, ok := proc.(*gcode.WinCNCProcessor); ok {
			w.Profile = p
		} else {
			fmt.Printf("Processor %s does not support profiles\n", proc.Name())
			os.Exit(1)
		}
	}

	// "-" keeps the program off disk; print it instead.
	program, err := proc.Export(doc.Containers, *args, *output)
	if err != nil {
		fmt.Printf("Export failed: %v\n", err)
		os.Exit(1)
	}
	if *output == "-" {
		fmt.Print(program)
	} else {
		fmt.Printf("[Post] Wrote %d bytes to %s\n", len(program), *output)
	}
}

func readDocument(path string) (*models.Document, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	return &doc, nil
}
