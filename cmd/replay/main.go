package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"cardsight/replay"
)

// Replays a recorded detection session (JSON RoundSpec) through the full
// pipeline and prints the resulting tape. Useful for debugging a session
// without a camera attached.
func main() {
	pretty := flag.Bool("pretty", true, "indent the output tape")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [-pretty] <roundspec.json>\n", os.Args[0])
		os.Exit(2)
	}

	raw, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("[Replay] read spec: %v", err)
	}

	var spec replay.RoundSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		log.Fatalf("[Replay] parse spec: %v", err)
	}

	tape, err := replay.Run(spec)
	if err != nil {
		log.Fatalf("[Replay] %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(tape); err != nil {
		log.Fatalf("[Replay] encode tape: %v", err)
	}
}
