// Command simulator runs a local stand-in for the EPIAS transparency
// platform. Point base_url and cas_url at its address to exercise the
// report pipeline without platform credentials.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	addr := flag.String("addr", ":8875", "listen address")
	plants := flag.Int("plants", 4, "number of synthetic plants")
	plantsOut := flag.String("plants-out", "", "also write the plant list to this file")
	flag.Parse()

	p := NewPlatform(*addr, *plants)

	if *plantsOut != "" {
		data, err := json.MarshalIndent(p.Plants(), "", "  ")
		if err != nil {
			log.Fatalf("marshal plant list: %v", err)
		}
		if err := os.WriteFile(*plantsOut, data, 0o644); err != nil {
			log.Fatalf("write plant list: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := p.Start(ctx); err != nil {
		log.Fatalf("simulator: %v", err)
	}
}
