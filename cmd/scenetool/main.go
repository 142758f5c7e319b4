// scenetool is a CLI utility for inspecting display scene documents.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/veldtec/displaymesh/pkg/formats"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "tree":
		cmdTree(args)
	case "decode":
		cmdDecode(args)
	case "encode":
		cmdEncode(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`scenetool - display scene document utility

Usage:
  scenetool <command> [options]

Commands:
  info <scene-file>             Show document statistics
  tree [-d depth] <scene-file>  Print the node hierarchy
  decode [-o out] <scene-file>  Decode the envelope to plain JSON
  encode [-o out] <json-file>   Encode plain JSON into the envelope

Examples:
  scenetool info scene.txt
  scenetool tree -d 3 scene.txt
  scenetool decode -o scene.json scene.txt`)
}

func readDocument(path string) ([]byte, []formats.SceneNode) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	nodes, err := formats.DecodeDocument(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return data, nodes
}

func kindLabel(n *formats.SceneNode) string {
	switch {
	case n.IsBlockDisplay:
		return "block"
	case n.IsItemDisplay:
		return "item"
	case n.IsTextDisplay:
		return "text"
	}
	return "group"
}

type docStats struct {
	nodes    int
	byKind   map[string]int
	maxDepth int
}

func collectStats(nodes []formats.SceneNode, depth int, st *docStats) {
	for i := range nodes {
		n := &nodes[i]
		st.nodes++
		st.byKind[kindLabel(n)]++
		if depth > st.maxDepth {
			st.maxDepth = depth
		}
		collectStats(n.Children, depth+1, st)
	}
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: scenetool info <scene-file>")
		os.Exit(1)
	}

	data, nodes := readDocument(args[0])

	format := "base64+gzip envelope"
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		format = "plain JSON"
	}

	st := docStats{byKind: map[string]int{}}
	collectStats(nodes, 1, &st)

	fmt.Printf("Document: %s\n", args[0])
	fmt.Printf("Payload:  %d bytes (%s)\n", len(data), format)
	fmt.Printf("Nodes:    %d (max depth %d)\n", st.nodes, st.maxDepth)
	fmt.Println()
	fmt.Println("By kind:")
	for _, kind := range []string{"block", "item", "text", "group"} {
		if st.byKind[kind] > 0 {
			fmt.Printf("  %-6s %d\n", kind, st.byKind[kind])
		}
	}
}

func cmdTree(args []string) {
	fs := flag.NewFlagSet("tree", flag.ExitOnError)
	maxDepth := fs.Int("d", 0, "Limit printed depth (0 = all)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: scenetool tree [-d depth] <scene-file>")
		os.Exit(1)
	}

	_, nodes := readDocument(fs.Arg(0))
	printTree(nodes, 0, *maxDepth)
}

func printTree(nodes []formats.SceneNode, depth, maxDepth int) {
	if maxDepth > 0 && depth >= maxDepth {
		return
	}
	for i := range nodes {
		n := &nodes[i]
		name := n.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Printf("%s%s [%s]\n", strings.Repeat("  ", depth), name, kindLabel(n))
		printTree(n.Children, depth+1, maxDepth)
	}
}

func cmdDecode(args []string) {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	out := fs.String("o", "", "Write JSON here instead of stdout")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: scenetool decode [-o out] <scene-file>")
		os.Exit(1)
	}

	_, nodes := readDocument(fs.Arg(0))

	doc, err := json.MarshalIndent(nodes, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	writeOutput(*out, append(doc, '\n'))
}

func cmdEncode(args []string) {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	out := fs.String("o", "", "Write the envelope here instead of stdout")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: scenetool encode [-o out] <json-file>")
		os.Exit(1)
	}

	_, nodes := readDocument(fs.Arg(0))

	payload, err := formats.EncodeDocument(nodes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	writeOutput(*out, payload)
}

func writeOutput(path string, data []byte) {
	if path == "" {
		os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s (%d bytes)\n", path, len(data))
}
